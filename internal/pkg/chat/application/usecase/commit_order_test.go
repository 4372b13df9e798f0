package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// Mutations that emit chat events must take the chat's emission guard across
// commit+broadcast, so an in-flight send holding the guard delays them and
// events leave in commit order.

func assertWaitsForGuard(t *testing.T, unlock func(), done <-chan error) {
	t.Helper()

	select {
	case err := <-done:
		t.Fatalf("mutation completed while the chat guard was held (err = %v)", err)
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("mutation failed after guard release: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mutation did not complete after guard release")
	}
}

func TestMarkReadWaitsForInFlightSend(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("c1", "admin", "alice", "bob")
	repo.seedMessage("c1", "bob", "hello", time.Now())
	n, _ := testNotifier()
	uc := NewMarkChatReadUseCase(repo, n)

	unlock := n.LockChat("c1")
	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(context.Background(), MarkChatReadInput{ChatID: "c1", UserID: "alice"})
		done <- err
	}()

	assertWaitsForGuard(t, unlock, done)
}

func TestDeleteMessageWaitsForInFlightSend(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("c1", "admin", "alice", "bob")
	m := repo.seedMessage("c1", "alice", "oops", time.Now())
	n, _ := testNotifier()
	uc := NewDeleteMessageUseCase(repo, n, nil, zerolog.Nop())

	unlock := n.LockChat("c1")
	done := make(chan error, 1)
	go func() {
		done <- uc.Execute(context.Background(), DeleteMessageInput{MessageID: m.ID, RequesterUserID: "alice"})
	}()

	assertWaitsForGuard(t, unlock, done)
}

func TestRemoveParticipantWaitsForInFlightSend(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("c1", "admin", "alice", "bob")
	n, _ := testNotifier()
	uc := NewRemoveParticipantUseCase(repo, nil, n)

	unlock := n.LockChat("c1")
	done := make(chan error, 1)
	go func() {
		done <- uc.Execute(context.Background(), RemoveParticipantInput{ChatID: "c1", RequesterUserID: "admin", UserID: "bob"})
	}()

	assertWaitsForGuard(t, unlock, done)
}
