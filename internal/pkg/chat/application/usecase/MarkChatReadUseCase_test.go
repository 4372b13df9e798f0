package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
)

func TestMarkChatReadIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("c1", "admin", "alice", "bob")
	now := time.Now()
	repo.seedMessage("c1", "bob", "one", now)
	repo.seedMessage("c1", "bob", "two", now.Add(time.Second))
	repo.seedMessage("c1", "alice", "mine", now.Add(2*time.Second))

	uc := NewMarkChatReadUseCase(repo, nil)
	ctx := context.Background()

	marked, err := uc.Execute(ctx, MarkChatReadInput{ChatID: "c1", UserID: "alice"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// Alice's own message is never part of her receipts.
	if marked != 2 {
		t.Errorf("first call marked %d, want 2", marked)
	}

	marked, err = uc.Execute(ctx, MarkChatReadInput{ChatID: "c1", UserID: "alice"})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if marked != 0 {
		t.Errorf("second call marked %d, want 0", marked)
	}
}

func TestMarkChatReadReceiptsAreMonotonic(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("c1", "admin", "alice", "bob")
	m := repo.seedMessage("c1", "bob", "hello", time.Now())

	uc := NewMarkChatReadUseCase(repo, nil)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, MarkChatReadInput{ChatID: "c1", UserID: "alice"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !repo.messages[m.ID].ReadByUser("alice") {
		t.Fatal("receipt not recorded")
	}

	// A later receipt pass must never shrink the read-by set.
	if _, err := uc.Execute(ctx, MarkChatReadInput{ChatID: "c1", UserID: "admin"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !repo.messages[m.ID].ReadByUser("alice") || !repo.messages[m.ID].ReadByUser("admin") {
		t.Errorf("read-by set = %v, want both alice and admin", repo.messages[m.ID].ReadBy)
	}
}

func TestMarkChatReadRequiresParticipation(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("c1", "admin")
	uc := NewMarkChatReadUseCase(repo, nil)

	_, err := uc.Execute(context.Background(), MarkChatReadInput{ChatID: "c1", UserID: "mallory"})
	if !errors.Is(err, chat.ErrNotParticipant) {
		t.Errorf("Execute() error = %v, want ErrNotParticipant", err)
	}
}
