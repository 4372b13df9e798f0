package usecase

import (
	"context"
	"errors"
	"testing"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
)

func TestCreateOneToOneChatIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	uc := NewCreateOneToOneChatUseCase(repo, nil, nil)
	ctx := context.Background()

	first, err := uc.Execute(ctx, CreateOneToOneChatInput{UserID: "alice", RecipientID: "bob"})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	// Same pair again, from the other side.
	second, err := uc.Execute(ctx, CreateOneToOneChatInput{UserID: "bob", RecipientID: "alice"})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("pair resolved to two chats: %s and %s", first.ID, second.ID)
	}
	if len(repo.chats) != 1 {
		t.Errorf("store holds %d chats, want 1", len(repo.chats))
	}
}

func TestCreateOneToOneChatValidation(t *testing.T) {
	t.Parallel()

	uc := NewCreateOneToOneChatUseCase(newFakeRepo(), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateOneToOneChatInput
	}{
		{"missing user", CreateOneToOneChatInput{RecipientID: "bob"}},
		{"missing recipient", CreateOneToOneChatInput{UserID: "alice"}},
		{"self chat", CreateOneToOneChatInput{UserID: "alice", RecipientID: "alice"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := uc.Execute(ctx, tc.in); !errors.Is(err, chat.ErrInvalidInput) {
				t.Errorf("Execute() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
