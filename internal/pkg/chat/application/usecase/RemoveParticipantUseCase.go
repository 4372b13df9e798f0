package usecase

import (
	"context"
	"fmt"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// RemoveParticipantInput ejects a user from a group chat.
type RemoveParticipantInput struct {
	ChatID          string
	RequesterUserID string
	UserID          string
}

// RemoveParticipantUseCase removes a group member (admin only, idempotent).
// The announcement is broadcast before the removed user's sessions leave the
// room, so the user sees their own removal and evicts the chat locally; after
// that, delivery for this chat is suppressed. Historical read receipts are
// retained.
type RemoveParticipantUseCase struct {
	Repo     repository.ChatRepository
	Router   *realtime.Router
	Notifier *notifier.Notifier
}

func NewRemoveParticipantUseCase(repo repository.ChatRepository, router *realtime.Router, n *notifier.Notifier) *RemoveParticipantUseCase {
	return &RemoveParticipantUseCase{Repo: repo, Router: router, Notifier: n}
}

func (uc *RemoveParticipantUseCase) Execute(ctx context.Context, in RemoveParticipantInput) error {
	if in.ChatID == "" || in.RequesterUserID == "" || in.UserID == "" {
		return chat.ErrInvalidInput
	}

	c, err := requireGroupAdmin(ctx, uc.Repo, in.ChatID, in.RequesterUserID)
	if err != nil {
		return err
	}
	if c.IsAdmin(in.UserID) {
		// The admin leaves via group deletion, never by removing themselves.
		return chat.ErrInvalidInput
	}

	if uc.Notifier != nil {
		unlock := uc.Notifier.LockChat(in.ChatID)
		defer unlock()
	}

	removed, err := uc.Repo.RemoveParticipant(ctx, in.ChatID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !removed {
		// Already absent: a no-op, not an error.
		return nil
	}

	if uc.Notifier != nil {
		uc.Notifier.Broadcast(in.ChatID, event.ParticipantRemoved(in.ChatID, in.UserID), in.RequesterUserID)
	}
	if uc.Router != nil {
		uc.Router.LeaveUser(in.ChatID, in.UserID)
	}
	return nil
}
