package usecase

import (
	"context"
	"fmt"
	"sort"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// GetDirectoryInput identifies the user whose chat list is requested.
type GetDirectoryInput struct {
	UserID string
}

// GetDirectoryUseCase builds the per-user chat list with last message and
// derived unread count. Ordering is recomputed on every request, never assumed
// monotonic from a previous response.
type GetDirectoryUseCase struct {
	Repo repository.ChatRepository
}

func NewGetDirectoryUseCase(repo repository.ChatRepository) *GetDirectoryUseCase {
	return &GetDirectoryUseCase{Repo: repo}
}

func (uc *GetDirectoryUseCase) Execute(ctx context.Context, in GetDirectoryInput) ([]repository.DirectoryEntry, error) {
	if in.UserID == "" {
		return nil, chat.ErrInvalidInput
	}

	entries, err := uc.Repo.ListDirectory(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	SortDirectory(entries)
	return entries, nil
}

// SortDirectory orders chats with messages by last-message time descending,
// then all empty chats by chat-creation time descending. Identical timestamps
// fall back to id descending so the order is stable across requests.
func SortDirectory(entries []repository.DirectoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.LastMessage != nil && b.LastMessage == nil:
			return true
		case a.LastMessage == nil && b.LastMessage != nil:
			return false
		case a.LastMessage != nil && b.LastMessage != nil:
			if !a.LastMessage.CreatedAt.Equal(b.LastMessage.CreatedAt) {
				return a.LastMessage.CreatedAt.After(b.LastMessage.CreatedAt)
			}
			return a.LastMessage.ID > b.LastMessage.ID
		default:
			if !a.Chat.CreatedAt.Equal(b.Chat.CreatedAt) {
				return a.Chat.CreatedAt.After(b.Chat.CreatedAt)
			}
			return a.Chat.ID > b.Chat.ID
		}
	})
}
