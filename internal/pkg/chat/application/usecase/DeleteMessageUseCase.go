package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	qport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/task"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput identifies the message and the caller.
type DeleteMessageInput struct {
	MessageID       string
	RequesterUserID string
}

// DeleteMessageUseCase hard-deletes a message. Only the author may delete;
// attachment rows go with the message in the same transaction, and the backing
// blobs are purged asynchronously so the delete response never waits on
// storage.
type DeleteMessageUseCase struct {
	Repo     repository.ChatRepository
	Notifier *notifier.Notifier
	Queue    qport.Client
	Log      zerolog.Logger
}

func NewDeleteMessageUseCase(repo repository.ChatRepository, n *notifier.Notifier, queue qport.Client, log zerolog.Logger) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Repo: repo, Notifier: n, Queue: queue, Log: log}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID == "" || in.RequesterUserID == "" {
		return chat.ErrInvalidInput
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.AuthorID != in.RequesterUserID {
		return chat.ErrForbidden
	}

	if uc.Notifier != nil {
		unlock := uc.Notifier.LockChat(msg.ChatID)
		defer unlock()
	}

	chatID, urls, err := uc.Repo.DeleteMessage(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Notifier != nil {
		uc.Notifier.Broadcast(chatID, event.MessageDeleted(chatID, in.MessageID), in.RequesterUserID)
	}
	task.EnqueuePurge(ctx, uc.Queue, uc.Log, urls)
	return nil
}
