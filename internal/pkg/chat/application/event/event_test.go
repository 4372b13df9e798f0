package event

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
)

func TestEnvelopeOmitsUnusedFields(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(ChatDeleted("c1"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(raw)
	if want := `{"type":"chat-deleted","chatId":"c1"}`; got != want {
		t.Errorf("wire frame = %s, want %s", got, want)
	}
}

func TestPresenceChangedCarriesExplicitFalse(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(PresenceChanged("u1", false))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// online=false must survive serialization; a pointer keeps it distinct
	// from the field being absent.
	if !strings.Contains(string(raw), `"online":false`) {
		t.Errorf("wire frame %s lost online=false", raw)
	}
}

func TestMessageCreatedCarriesFullMessage(t *testing.T) {
	t.Parallel()

	content := "hello"
	m := &chat.Message{
		ID:        "m1",
		ChatID:    "c1",
		AuthorID:  "u1",
		Content:   &content,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(MessageCreated(m))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Envelope
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Type != TypeMessageCreated {
		t.Errorf("type = %s, want %s", decoded.Type, TypeMessageCreated)
	}
	if decoded.ChatID != "c1" {
		t.Errorf("chatId = %s, want c1", decoded.ChatID)
	}
	if decoded.Message == nil || decoded.Message.ID != "m1" {
		t.Error("message payload missing")
	}
}
