package chat

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNewMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		in          Message
		wantErr     error
		wantContent *string
	}{
		{
			name:        "plain text",
			in:          Message{ChatID: "c1", AuthorID: "u1", Content: strPtr("hello")},
			wantContent: strPtr("hello"),
		},
		{
			name:        "content is trimmed",
			in:          Message{ChatID: "c1", AuthorID: "u1", Content: strPtr("  hi  ")},
			wantContent: strPtr("hi"),
		},
		{
			name:    "whitespace only and no attachments",
			in:      Message{ChatID: "c1", AuthorID: "u1", Content: strPtr("   ")},
			wantErr: ErrEmptyMessage,
		},
		{
			name:    "nil content and no attachments",
			in:      Message{ChatID: "c1", AuthorID: "u1"},
			wantErr: ErrEmptyMessage,
		},
		{
			name: "attachment only is valid",
			in: Message{ChatID: "c1", AuthorID: "u1", Attachments: []Attachment{
				{URL: "/uploads/a.png", Kind: AttachmentKindImage},
			}},
		},
		{
			name:    "missing chat id",
			in:      Message{AuthorID: "u1", Content: strPtr("x")},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing author id",
			in:      Message{ChatID: "c1", Content: strPtr("x")},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewMessage(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("NewMessage() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMessage() unexpected error: %v", err)
			}
			if got.CreatedAt.IsZero() {
				t.Error("NewMessage() did not default CreatedAt")
			}
			if tc.wantContent != nil {
				if got.Content == nil || *got.Content != *tc.wantContent {
					t.Errorf("NewMessage() content = %v, want %q", got.Content, *tc.wantContent)
				}
			}
		})
	}
}

func TestReadByUser(t *testing.T) {
	t.Parallel()

	m := Message{ReadBy: []string{"u2", "u3"}}
	if !m.ReadByUser("u2") {
		t.Error("ReadByUser(u2) = false, want true")
	}
	if m.ReadByUser("u1") {
		t.Error("ReadByUser(u1) = true, want false")
	}
}
