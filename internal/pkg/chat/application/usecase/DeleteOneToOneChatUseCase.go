package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	qport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/presence"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/task"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// DeleteOneToOneChatInput is a participant's request to delete a direct chat.
type DeleteOneToOneChatInput struct {
	ChatID          string
	RequesterUserID string
}

// DeleteOneToOneChatUseCase deletes a direct chat for both sides. Either
// participant may do it; the other side's cache evicts the chat on the
// chat-deleted event.
type DeleteOneToOneChatUseCase struct {
	Repo     repository.ChatRepository
	Router   *realtime.Router
	Notifier *notifier.Notifier
	Typing   *presence.Tracker
	Queue    qport.Client
	Log      zerolog.Logger
}

func NewDeleteOneToOneChatUseCase(repo repository.ChatRepository, router *realtime.Router, n *notifier.Notifier, typing *presence.Tracker, queue qport.Client, log zerolog.Logger) *DeleteOneToOneChatUseCase {
	return &DeleteOneToOneChatUseCase{Repo: repo, Router: router, Notifier: n, Typing: typing, Queue: queue, Log: log}
}

func (uc *DeleteOneToOneChatUseCase) Execute(ctx context.Context, in DeleteOneToOneChatInput) error {
	if in.ChatID == "" || in.RequesterUserID == "" {
		return chat.ErrInvalidInput
	}

	c, err := uc.Repo.GetChat(ctx, in.ChatID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if c.IsGroup() {
		return chat.ErrInvalidInput
	}

	isMember, err := uc.Repo.IsParticipant(ctx, in.ChatID, in.RequesterUserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isMember {
		return chat.ErrNotParticipant
	}

	if uc.Notifier != nil {
		unlock := uc.Notifier.LockChat(in.ChatID)
		defer unlock()
	}

	urls, err := uc.Repo.DeleteChat(ctx, in.ChatID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Notifier != nil {
		uc.Notifier.Broadcast(in.ChatID, event.ChatDeleted(in.ChatID), in.RequesterUserID)
	}
	if uc.Router != nil {
		uc.Router.DropRoom(in.ChatID)
	}
	if uc.Typing != nil {
		uc.Typing.ClearChat(in.ChatID)
	}
	task.EnqueuePurge(ctx, uc.Queue, uc.Log, urls)
	return nil
}
