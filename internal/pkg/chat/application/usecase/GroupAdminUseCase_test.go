package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
)

func TestUpdateGroupRequiresAdmin(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice")
	uc := NewUpdateGroupUseCase(repo, nil)

	name := "renamed"
	_, err := uc.Execute(context.Background(), UpdateGroupInput{ChatID: "g1", RequesterUserID: "alice", Name: &name})
	if !errors.Is(err, chat.ErrForbidden) {
		t.Errorf("Execute() error = %v, want ErrForbidden", err)
	}
}

func TestUpdateGroupRename(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice")
	uc := NewUpdateGroupUseCase(repo, nil)

	name := "study group"
	got, err := uc.Execute(context.Background(), UpdateGroupInput{ChatID: "g1", RequesterUserID: "admin", Name: &name})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Name == nil || *got.Name != "study group" {
		t.Errorf("name = %v, want %q", got.Name, "study group")
	}
	if stored := repo.chats["g1"]; stored.Name == nil || *stored.Name != "study group" {
		t.Error("rename did not reach the store")
	}
}

func TestUpdateGroupRejectsOneOnOne(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	c, _, _ := repo.CreateOneToOne(context.Background(), "alice", "bob")
	uc := NewUpdateGroupUseCase(repo, nil)

	name := "nope"
	_, err := uc.Execute(context.Background(), UpdateGroupInput{ChatID: c.ID, RequesterUserID: "alice", Name: &name})
	if !errors.Is(err, chat.ErrInvalidInput) {
		t.Errorf("Execute() error = %v, want ErrInvalidInput", err)
	}
}

func TestRemoveParticipant(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice", "bob")
	uc := NewRemoveParticipantUseCase(repo, nil, nil)
	ctx := context.Background()

	if err := uc.Execute(ctx, RemoveParticipantInput{ChatID: "g1", RequesterUserID: "admin", UserID: "bob"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ok, _ := repo.IsParticipant(ctx, "g1", "bob"); ok {
		t.Error("bob still a participant after removal")
	}

	// Removing again is a silent no-op.
	if err := uc.Execute(ctx, RemoveParticipantInput{ChatID: "g1", RequesterUserID: "admin", UserID: "bob"}); err != nil {
		t.Errorf("repeat removal returned %v, want nil", err)
	}

	// Non-admin cannot remove.
	err := uc.Execute(ctx, RemoveParticipantInput{ChatID: "g1", RequesterUserID: "alice", UserID: "admin"})
	if !errors.Is(err, chat.ErrForbidden) {
		t.Errorf("non-admin removal error = %v, want ErrForbidden", err)
	}

	// The admin cannot be removed.
	err = uc.Execute(ctx, RemoveParticipantInput{ChatID: "g1", RequesterUserID: "admin", UserID: "admin"})
	if !errors.Is(err, chat.ErrInvalidInput) {
		t.Errorf("admin removal error = %v, want ErrInvalidInput", err)
	}
}

func TestLeaveGroup(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice")
	uc := NewLeaveGroupUseCase(repo, nil, nil)
	ctx := context.Background()

	if err := uc.Execute(ctx, LeaveGroupInput{ChatID: "g1", UserID: "alice"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ok, _ := repo.IsParticipant(ctx, "g1", "alice"); ok {
		t.Error("alice still a participant after leaving")
	}

	// The admin's only way out is deleting the group.
	if err := uc.Execute(ctx, LeaveGroupInput{ChatID: "g1", UserID: "admin"}); !errors.Is(err, chat.ErrInvalidInput) {
		t.Errorf("admin leave error = %v, want ErrInvalidInput", err)
	}

	// A non-member leaving is an error, not a no-op.
	if err := uc.Execute(ctx, LeaveGroupInput{ChatID: "g1", UserID: "stranger"}); !errors.Is(err, chat.ErrNotParticipant) {
		t.Errorf("stranger leave error = %v, want ErrNotParticipant", err)
	}
}

func TestAddParticipantsSkipsExisting(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice")
	uc := NewAddParticipantsUseCase(repo, nil, nil)

	added, err := uc.Execute(context.Background(), AddParticipantsInput{
		ChatID:          "g1",
		RequesterUserID: "admin",
		UserIDs:         []string{"alice", "bob", "bob", "carol"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(added) != 2 {
		t.Errorf("added = %v, want exactly bob and carol", added)
	}
}

func TestDeleteGroupCascades(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.seedGroup("g1", "admin", "alice")
	m := repo.seedMessage("g1", "alice", "bye", time.Now())
	repo.messages[m.ID].Attachments = []chat.Attachment{{URL: "/uploads/a.png"}}

	uc := NewDeleteGroupUseCase(repo, nil, nil, nil, nil, zerolog.Nop())
	ctx := context.Background()

	// Only the admin may delete.
	if err := uc.Execute(ctx, DeleteGroupInput{ChatID: "g1", RequesterUserID: "alice"}); !errors.Is(err, chat.ErrForbidden) {
		t.Fatalf("non-admin delete error = %v, want ErrForbidden", err)
	}

	if err := uc.Execute(ctx, DeleteGroupInput{ChatID: "g1", RequesterUserID: "admin"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(repo.chats) != 0 || len(repo.messages) != 0 {
		t.Error("cascade left chats or messages behind")
	}
}
