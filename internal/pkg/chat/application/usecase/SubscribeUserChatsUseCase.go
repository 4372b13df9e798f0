package usecase

import (
	"context"
	"fmt"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// SubscribeUserChatsInput attaches a fresh connection to the rooms of every
// chat its user participates in.
type SubscribeUserChatsInput struct {
	Conn *realtime.Connection
}

// SubscribeUserChatsUseCase resolves the user's memberships and joins the
// session to each room. Membership changes after this point flow through the
// add/remove use cases, which keep the registry in step with the store.
type SubscribeUserChatsUseCase struct {
	Repo   repository.ChatRepository
	Router *realtime.Router
}

func NewSubscribeUserChatsUseCase(repo repository.ChatRepository, router *realtime.Router) *SubscribeUserChatsUseCase {
	return &SubscribeUserChatsUseCase{Repo: repo, Router: router}
}

func (uc *SubscribeUserChatsUseCase) Execute(ctx context.Context, in SubscribeUserChatsInput) error {
	if in.Conn == nil || in.Conn.UserID == "" {
		return chat.ErrInvalidInput
	}

	chatIDs, err := uc.Repo.ListChatIDsForUser(ctx, in.Conn.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	for _, id := range chatIDs {
		uc.Router.Join(id, in.Conn)
	}
	return nil
}
