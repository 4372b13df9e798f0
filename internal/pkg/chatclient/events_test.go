package chatclient

import (
	"testing"
	"time"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
)

func eventMessageCreated(m chat.Message) event.Envelope {
	return event.MessageCreated(&m)
}

func TestEvictionEvents(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ev   event.Envelope
		gone bool
	}{
		{"chat deleted", event.ChatDeleted("c1"), true},
		{"group deleted", event.GroupDeleted("c1"), true},
		{"self removed", event.ParticipantRemoved("c1", "me"), true},
		{"other removed", event.ParticipantRemoved("c1", "u2"), false},
		{"self left", event.GroupLeft("c1", "me"), true},
		{"other left", event.GroupLeft("c1", "u2"), false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := seedCache("me", "c1")
			c.ApplyEvent(tc.ev)

			_, known := c.chats["c1"]
			if tc.gone && known {
				t.Error("chat not evicted")
			}
			if !tc.gone && !known {
				t.Error("chat evicted but should have been kept")
			}
		})
	}
}

func TestChatReadUpdatesOwnReadByIndicators(t *testing.T) {
	t.Parallel()

	c := seedCache("me", "c1")
	c.LoadHistory("c1", []chat.Message{
		{ID: "m2", ChatID: "c1", AuthorID: "u2", Content: strPtr("theirs"), CreatedAt: time.Now()},
		{ID: "m1", ChatID: "c1", AuthorID: "me", Content: strPtr("mine"), CreatedAt: time.Now()},
	})

	c.ApplyEvent(event.ChatRead("c1", "u2"))

	tl := c.Timeline("c1")
	for _, lm := range tl {
		switch lm.Message.ID {
		case "m1":
			if !lm.Message.ReadByUser("u2") {
				t.Error("own message missing the reader's receipt")
			}
		case "m2":
			if lm.Message.ReadByUser("u2") {
				t.Error("foreign message must not be touched by read indicators")
			}
		}
	}

	// The same receipt arriving twice is folded, not appended.
	c.ApplyEvent(event.ChatRead("c1", "u2"))
	for _, lm := range c.Timeline("c1") {
		if lm.Message.ID == "m1" && len(lm.Message.ReadBy) != 1 {
			t.Errorf("read-by = %v, want single entry", lm.Message.ReadBy)
		}
	}
}

func TestMessageDeletedRecomputesLastMessage(t *testing.T) {
	t.Parallel()

	c := seedCache("me", "c1")
	now := time.Now()
	m1 := chat.Message{ID: "m1", ChatID: "c1", AuthorID: "u2", Content: strPtr("one"), CreatedAt: now}
	m2 := chat.Message{ID: "m2", ChatID: "c1", AuthorID: "u2", Content: strPtr("two"), CreatedAt: now.Add(time.Second)}
	c.ApplyEvent(eventMessageCreated(m1))
	c.ApplyEvent(eventMessageCreated(m2))

	c.ApplyEvent(event.MessageDeleted("c1", "m2"))

	if len(c.Timeline("c1")) != 1 {
		t.Fatal("deleted message still in timeline")
	}
	dir := c.Directory()
	if dir[0].LastMessage == nil || dir[0].LastMessage.ID != "m1" {
		t.Errorf("last message = %v, want m1", dir[0].LastMessage)
	}
}

func TestGroupUpdatedEvent(t *testing.T) {
	t.Parallel()

	c := seedCache("me", "c1")
	name := "renamed"
	c.ApplyEvent(event.GroupUpdated("c1", &name, nil))

	if got := c.chats["c1"].Chat.Name; got == nil || *got != "renamed" {
		t.Errorf("name = %v, want renamed", got)
	}
}

func TestTypingAndPresenceEvents(t *testing.T) {
	t.Parallel()

	c := seedCache("me", "c1")

	c.ApplyEvent(event.PresenceSnapshot([]string{"u2", "u3"}))
	if !c.Online("u2") || !c.Online("u3") {
		t.Error("snapshot not applied")
	}

	c.ApplyEvent(event.TypingStart("c1", "u2"))
	if got := c.TypingUsers("c1"); len(got) != 1 || got[0] != "u2" {
		t.Errorf("TypingUsers = %v, want [u2]", got)
	}

	// The typer's message clears their indicator.
	m := chat.Message{ID: "m1", ChatID: "c1", AuthorID: "u2", Content: strPtr("sent"), CreatedAt: time.Now()}
	c.ApplyEvent(eventMessageCreated(m))
	if got := c.TypingUsers("c1"); len(got) != 0 {
		t.Errorf("TypingUsers after message = %v, want empty", got)
	}

	// Going offline clears both presence and typing.
	c.ApplyEvent(event.TypingStart("c1", "u3"))
	c.ApplyEvent(event.PresenceChanged("u3", false))
	if c.Online("u3") {
		t.Error("u3 still online")
	}
	if got := c.TypingUsers("c1"); len(got) != 0 {
		t.Errorf("TypingUsers after offline = %v, want empty", got)
	}
}

func TestParticipantAddedAlwaysRefetches(t *testing.T) {
	t.Parallel()

	c := seedCache("me", "c1")
	eff := c.ApplyEvent(event.ParticipantAdded("c9", "me"))
	if !eff.RefetchDirectory {
		t.Error("participant-added must signal a directory refetch")
	}
}
