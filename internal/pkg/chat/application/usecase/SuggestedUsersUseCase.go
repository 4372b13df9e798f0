package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cacheport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/cache/port"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

const suggestedUsersTTL = 5 * time.Minute

func suggestedUsersKey(userID string) string {
	return "chat:suggested:" + userID
}

// SuggestedUsersInput identifies the caller.
type SuggestedUsersInput struct {
	UserID string
}

// SuggestedUsersUseCase returns prior direct-chat partners, used to seed the
// "new message" picker. The projection is cheap but hot, so it is cached with
// a short TTL and invalidated when the user opens a new one-on-one chat.
type SuggestedUsersUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // optional
}

func NewSuggestedUsersUseCase(repo repository.ChatRepository, cache cacheport.Cache) *SuggestedUsersUseCase {
	return &SuggestedUsersUseCase{Repo: repo, Cache: cache}
}

func (uc *SuggestedUsersUseCase) Execute(ctx context.Context, in SuggestedUsersInput) ([]string, error) {
	if in.UserID == "" {
		return nil, chat.ErrInvalidInput
	}

	if uc.Cache != nil {
		if cached, err := uc.Cache.Get(ctx, suggestedUsersKey(in.UserID)); err == nil {
			var ids []string
			if json.Unmarshal([]byte(cached), &ids) == nil {
				return ids, nil
			}
		} else if !errors.Is(err, cacheport.ErrMiss) {
			// Cache trouble is not fatal; fall through to the store.
		}
	}

	ids, err := uc.Repo.ListOneToOnePeers(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if encoded, err := json.Marshal(ids); err == nil {
			_ = uc.Cache.Set(ctx, suggestedUsersKey(in.UserID), string(encoded), suggestedUsersTTL)
		}
	}
	return ids, nil
}
