package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to post a new message. Attachment
// URLs are already resolved by the storage service before this use case runs.
type SendMessageInput struct {
	ChatID      string
	AuthorID    string
	Content     *string
	Attachments []chat.Attachment
}

// SendMessageUseCase persists a message and triggers delivery to every other
// participant. The notifier's per-chat guard is held across persist+emit so
// events leave in commit order within the chat; sends to different chats do
// not serialize against each other.
type SendMessageUseCase struct {
	Repo     repository.ChatRepository
	Notifier *notifier.Notifier
}

func NewSendMessageUseCase(repo repository.ChatRepository, n *notifier.Notifier) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Notifier: n}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.ChatID == "" || in.AuthorID == "" {
		return nil, chat.ErrInvalidInput
	}

	msg, err := chat.NewMessage(chat.Message{
		ChatID:      in.ChatID,
		AuthorID:    in.AuthorID,
		Content:     in.Content,
		Attachments: in.Attachments,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.Repo.GetChat(ctx, in.ChatID); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Notifier != nil {
		unlock := uc.Notifier.LockChat(in.ChatID)
		defer unlock()
	}

	saved, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		if errors.Is(err, chat.ErrNotParticipant) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Notifier != nil {
		participants, err := uc.Repo.ListParticipantIDs(ctx, in.ChatID)
		if err != nil {
			// The message is committed; delivery degrades to the next REST
			// fetch for everyone.
			participants = nil
		}
		uc.Notifier.MessageCreated(ctx, saved, participants)
	}
	return saved, nil
}
