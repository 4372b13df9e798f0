package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// LeaveGroupInput is a participant's request to exit a group chat.
type LeaveGroupInput struct {
	ChatID string
	UserID string
}

// LeaveGroupUseCase removes the caller from a group. The admin cannot leave:
// a group has exactly one admin who must be a participant, so the admin's way
// out is deleting the group.
type LeaveGroupUseCase struct {
	Repo     repository.ChatRepository
	Router   *realtime.Router
	Notifier *notifier.Notifier
}

func NewLeaveGroupUseCase(repo repository.ChatRepository, router *realtime.Router, n *notifier.Notifier) *LeaveGroupUseCase {
	return &LeaveGroupUseCase{Repo: repo, Router: router, Notifier: n}
}

func (uc *LeaveGroupUseCase) Execute(ctx context.Context, in LeaveGroupInput) error {
	if in.ChatID == "" || in.UserID == "" {
		return chat.ErrInvalidInput
	}

	c, err := uc.Repo.GetChat(ctx, in.ChatID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !c.IsGroup() {
		return chat.ErrInvalidInput
	}
	if c.IsAdmin(in.UserID) {
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
		return chat.ErrNotParticipant
	}

	if uc.Notifier != nil {
		uc.Notifier.Broadcast(in.ChatID, event.GroupLeft(in.ChatID, in.UserID), in.UserID)
	}
	if uc.Router != nil {
		uc.Router.LeaveUser(in.ChatID, in.UserID)
	}
	return nil
}
