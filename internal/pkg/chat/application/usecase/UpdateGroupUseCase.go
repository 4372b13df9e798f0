package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// UpdateGroupInput renames a group and/or swaps its avatar. Nil fields are
// left unchanged.
type UpdateGroupInput struct {
	ChatID          string
	RequesterUserID string
	Name            *string
	ImageURL        *string
}

// UpdateGroupUseCase applies admin-only group metadata changes and announces
// them to the room.
type UpdateGroupUseCase struct {
	Repo     repository.ChatRepository
	Notifier *notifier.Notifier
}

func NewUpdateGroupUseCase(repo repository.ChatRepository, n *notifier.Notifier) *UpdateGroupUseCase {
	return &UpdateGroupUseCase{Repo: repo, Notifier: n}
}

func (uc *UpdateGroupUseCase) Execute(ctx context.Context, in UpdateGroupInput) (*chat.Chat, error) {
	if in.ChatID == "" || in.RequesterUserID == "" {
		return nil, chat.ErrInvalidInput
	}
	if in.Name == nil && in.ImageURL == nil {
		return nil, chat.ErrInvalidInput
	}
	if in.Name != nil && *in.Name == "" {
		return nil, chat.ErrInvalidInput
	}

	c, err := requireGroupAdmin(ctx, uc.Repo, in.ChatID, in.RequesterUserID)
	if err != nil {
		return nil, err
	}

	if uc.Notifier != nil {
		unlock := uc.Notifier.LockChat(in.ChatID)
		defer unlock()
	}

	if err := uc.Repo.UpdateGroup(ctx, in.ChatID, in.Name, in.ImageURL); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if in.Name != nil {
		c.Name = in.Name
	}
	if in.ImageURL != nil {
		c.ImageURL = in.ImageURL
	}

	if uc.Notifier != nil {
		uc.Notifier.Broadcast(in.ChatID, event.GroupUpdated(in.ChatID, c.Name, c.ImageURL), in.RequesterUserID)
	}
	return c, nil
}

// requireGroupAdmin loads the chat and gates group-admin-only mutations.
func requireGroupAdmin(ctx context.Context, repo repository.ChatRepository, chatID, userID string) (*chat.Chat, error) {
	c, err := repo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !c.IsGroup() {
		return nil, chat.ErrInvalidInput
	}
	if !c.IsAdmin(userID) {
		return nil, chat.ErrForbidden
	}
	return c, nil
}
