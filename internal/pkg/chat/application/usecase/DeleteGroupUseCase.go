package usecase

import (
	"context"
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

// DeleteGroupInput is the admin's request to dissolve a group chat.
type DeleteGroupInput struct {
	ChatID          string
	RequesterUserID string
}

// DeleteGroupUseCase cascade-deletes a group with its messages and attachment
// rows, announces the deletion so every participant's cache evicts the chat,
// then drops the room and queues the blob purge. The announcement precedes the
// room teardown so it still reaches the participants' sessions.
type DeleteGroupUseCase struct {
	Repo     repository.ChatRepository
	Router   *realtime.Router
	Notifier *notifier.Notifier
	Typing   *presence.Tracker
	Queue    qport.Client
	Log      zerolog.Logger
}

func NewDeleteGroupUseCase(repo repository.ChatRepository, router *realtime.Router, n *notifier.Notifier, typing *presence.Tracker, queue qport.Client, log zerolog.Logger) *DeleteGroupUseCase {
	return &DeleteGroupUseCase{Repo: repo, Router: router, Notifier: n, Typing: typing, Queue: queue, Log: log}
}

func (uc *DeleteGroupUseCase) Execute(ctx context.Context, in DeleteGroupInput) error {
	if in.ChatID == "" || in.RequesterUserID == "" {
		return chat.ErrInvalidInput
	}

	if _, err := requireGroupAdmin(ctx, uc.Repo, in.ChatID, in.RequesterUserID); err != nil {
		return err
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
		uc.Notifier.Broadcast(in.ChatID, event.GroupDeleted(in.ChatID), in.RequesterUserID)
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
