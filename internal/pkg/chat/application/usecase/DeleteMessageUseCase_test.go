package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
)

func TestDeleteMessageAuthorOnly(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice", "bob")
	m := repo.seedMessage("g1", "alice", "oops", time.Now())

	uc := NewDeleteMessageUseCase(repo, nil, nil, zerolog.Nop())
	ctx := context.Background()

	// Even the group admin cannot delete someone else's message.
	err := uc.Execute(ctx, DeleteMessageInput{MessageID: m.ID, RequesterUserID: "admin"})
	if !errors.Is(err, chat.ErrForbidden) {
		t.Fatalf("foreign delete error = %v, want ErrForbidden", err)
	}

	if err := uc.Execute(ctx, DeleteMessageInput{MessageID: m.ID, RequesterUserID: "alice"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, ok := repo.messages[m.ID]; ok {
		t.Error("message still in store after delete")
	}

	// Deleting an already-deleted message reports not found.
	err = uc.Execute(ctx, DeleteMessageInput{MessageID: m.ID, RequesterUserID: "alice"})
	if !errors.Is(err, chat.ErrNotFound) {
		t.Errorf("repeat delete error = %v, want ErrNotFound", err)
	}
}

func TestGetMessagesNewestFirstAndGated(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice")
	now := time.Now()
	repo.seedMessage("g1", "alice", "first", now)
	repo.seedMessage("g1", "alice", "second", now.Add(time.Second))

	uc := NewGetMessageUseCase(repo)
	ctx := context.Background()

	msgs, err := uc.Execute(ctx, GetMessageInput{ChatID: "g1", UserID: "alice", Limit: 50})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if *msgs[0].Content != "second" || *msgs[1].Content != "first" {
		t.Errorf("order = [%s, %s], want newest first", *msgs[0].Content, *msgs[1].Content)
	}

	if _, err := uc.Execute(ctx, GetMessageInput{ChatID: "g1", UserID: "stranger", Limit: 50}); !errors.Is(err, chat.ErrNotParticipant) {
		t.Errorf("stranger fetch error = %v, want ErrNotParticipant", err)
	}
}
