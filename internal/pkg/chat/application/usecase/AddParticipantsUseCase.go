package usecase

import (
	"context"
	"fmt"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// AddParticipantsInput invites one or more users into a group chat.
type AddParticipantsInput struct {
	ChatID          string
	RequesterUserID string
	UserIDs         []string
}

// AddParticipantsUseCase adds members to a group (admin only). New members'
// live sessions are subscribed to the room before the announcement goes out,
// so their first delivered event is the one announcing themselves.
type AddParticipantsUseCase struct {
	Repo     repository.ChatRepository
	Router   *realtime.Router
	Notifier *notifier.Notifier
}

func NewAddParticipantsUseCase(repo repository.ChatRepository, router *realtime.Router, n *notifier.Notifier) *AddParticipantsUseCase {
	return &AddParticipantsUseCase{Repo: repo, Router: router, Notifier: n}
}

func (uc *AddParticipantsUseCase) Execute(ctx context.Context, in AddParticipantsInput) ([]string, error) {
	if in.ChatID == "" || in.RequesterUserID == "" {
		return nil, chat.ErrInvalidInput
	}
	ids := chat.DedupeUserIDs(in.UserIDs)
	if len(ids) == 0 {
		return nil, chat.ErrInvalidInput
	}

	if _, err := requireGroupAdmin(ctx, uc.Repo, in.ChatID, in.RequesterUserID); err != nil {
		return nil, err
	}

	if uc.Notifier != nil {
		unlock := uc.Notifier.LockChat(in.ChatID)
		defer unlock()
	}

	added, err := uc.Repo.AddParticipants(ctx, in.ChatID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for _, uid := range added {
		if uc.Router != nil {
			uc.Router.JoinUser(in.ChatID, uid)
		}
		if uc.Notifier != nil {
			uc.Notifier.Broadcast(in.ChatID, event.ParticipantAdded(in.ChatID, uid), in.RequesterUserID)
		}
	}
	return added, nil
}
