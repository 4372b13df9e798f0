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

// CreateGroupChatInput carries the admin, group name, optional avatar URL and
// the invited participant set.
type CreateGroupChatInput struct {
	AdminUserID    string
	Name           string
	ImageURL       *string
	ParticipantIDs []string
}

// CreateGroupChatUseCase provisions a society group chat. The admin is always
// added to the participant set even when omitted from input; after
// de-duplication the set must still contain at least one non-admin member.
type CreateGroupChatUseCase struct {
	Repo     repository.ChatRepository
	Router   *realtime.Router
	Notifier *notifier.Notifier
}

func NewCreateGroupChatUseCase(repo repository.ChatRepository, router *realtime.Router, n *notifier.Notifier) *CreateGroupChatUseCase {
	return &CreateGroupChatUseCase{Repo: repo, Router: router, Notifier: n}
}

func (uc *CreateGroupChatUseCase) Execute(ctx context.Context, in CreateGroupChatInput) (*chat.Chat, error) {
	if in.AdminUserID == "" || in.Name == "" {
		return nil, chat.ErrInvalidInput
	}

	members := chat.DedupeUserIDs(append([]string{in.AdminUserID}, in.ParticipantIDs...))
	if len(members) < 2 {
		return nil, chat.ErrInvalidInput
	}

	c, err := uc.Repo.CreateGroup(ctx, in.AdminUserID, in.Name, in.ImageURL, members)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for _, uid := range members {
		if uc.Router != nil {
			uc.Router.JoinUser(c.ID, uid)
		}
		if uc.Notifier != nil && uid != in.AdminUserID {
			// The event carries no chat metadata; a connected invitee's cache
			// refetches its chat list to pick the new group up.
			uc.Notifier.NotifyUser(uid, event.ParticipantAdded(c.ID, uid))
		}
	}
	return c, nil
}
