package usecase

import (
	"context"
	"fmt"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// MarkChatReadInput acknowledges every unread message in a chat for a reader.
type MarkChatReadInput struct {
	ChatID string
	UserID string
}

// MarkChatReadUseCase records read receipts for all foreign-authored unread
// messages in one transaction. Receipts are monotonic (nothing ever removes a
// user from a read-by set), which makes the call idempotent: a second call in
// a row marks nothing and broadcasts nothing.
type MarkChatReadUseCase struct {
	Repo     repository.ChatRepository
	Notifier *notifier.Notifier
}

func NewMarkChatReadUseCase(repo repository.ChatRepository, n *notifier.Notifier) *MarkChatReadUseCase {
	return &MarkChatReadUseCase{Repo: repo, Notifier: n}
}

func (uc *MarkChatReadUseCase) Execute(ctx context.Context, in MarkChatReadInput) (int, error) {
	if in.ChatID == "" || in.UserID == "" {
		return 0, chat.ErrInvalidInput
	}

	isMember, err := uc.Repo.IsParticipant(ctx, in.ChatID, in.UserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isMember {
		return 0, chat.ErrNotParticipant
	}

	if uc.Notifier != nil {
		unlock := uc.Notifier.LockChat(in.ChatID)
		defer unlock()
	}

	marked, err := uc.Repo.MarkRead(ctx, in.ChatID, in.UserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if marked > 0 && uc.Notifier != nil {
		// Senders use this to advance their read-by indicators; the reader's
		// other devices use it to clear their local unread counters.
		uc.Notifier.Broadcast(in.ChatID, event.ChatRead(in.ChatID, in.UserID))
	}
	return marked, nil
}
