package usecase

import (
	"context"
	"fmt"

	cacheport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/cache/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// CreateOneToOneChatInput identifies the unordered user pair to connect.
type CreateOneToOneChatInput struct {
	UserID      string
	RecipientID string
}

// CreateOneToOneChatUseCase returns the existing direct chat for the pair or
// creates it. Idempotent under concurrent calls from both sides: the store's
// unique pair constraint makes the race loser adopt the winner's chat.
type CreateOneToOneChatUseCase struct {
	Repo   repository.ChatRepository
	Router *realtime.Router
	Cache  cacheport.Cache // optional; suggested-users invalidation
}

func NewCreateOneToOneChatUseCase(repo repository.ChatRepository, router *realtime.Router, cache cacheport.Cache) *CreateOneToOneChatUseCase {
	return &CreateOneToOneChatUseCase{Repo: repo, Router: router, Cache: cache}
}

func (uc *CreateOneToOneChatUseCase) Execute(ctx context.Context, in CreateOneToOneChatInput) (*chat.Chat, error) {
	if in.UserID == "" || in.RecipientID == "" || in.UserID == in.RecipientID {
		return nil, chat.ErrInvalidInput
	}

	c, created, err := uc.Repo.CreateOneToOne(ctx, in.UserID, in.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if created {
		// Subscribe any live sessions of both sides before the first message
		// can be broadcast into the room.
		if uc.Router != nil {
			uc.Router.JoinUser(c.ID, in.UserID)
			uc.Router.JoinUser(c.ID, in.RecipientID)
		}
		if uc.Cache != nil {
			_, _ = uc.Cache.Del(ctx, suggestedUsersKey(in.UserID), suggestedUsersKey(in.RecipientID))
		}
	}
	return c, nil
}
