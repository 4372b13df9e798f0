package usecase

import (
	"context"
	"fmt"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// GetMessageInput pages through a chat's history.
type GetMessageInput struct {
	ChatID string
	UserID string
	Limit  int
	Offset int
}

// GetMessageUseCase fetches a page of messages, newest-first as stored.
// Clients reverse to oldest-first for display. Participant-gated.
type GetMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessageUseCase(repo repository.ChatRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]chat.Message, error) {
	if in.ChatID == "" || in.UserID == "" {
		return nil, chat.ErrInvalidInput
	}

	isMember, err := uc.Repo.IsParticipant(ctx, in.ChatID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isMember {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ChatID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
