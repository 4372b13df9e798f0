package chat

import (
	"strings"
	"time"
)

// AttachmentKind classifies the media behind an attachment URL.
type AttachmentKind int16

const (
	AttachmentKindImage    AttachmentKind = 0
	AttachmentKindVideo    AttachmentKind = 1
	AttachmentKindAudio    AttachmentKind = 2
	AttachmentKindDocument AttachmentKind = 3
)

// Attachment is a file reference carried by a message. Bytes live in the
// external storage service; only the resolved URL is persisted. Lifecycle is
// tied to the owning message: deleting the message deletes the attachment row
// and queues a best-effort purge of the backing file.
type Attachment struct {
	ID        string         `db:"id" json:"id"`
	MessageID string         `db:"message_id" json:"messageId"`
	URL       string         `db:"url" json:"url"`
	Kind      AttachmentKind `db:"kind" json:"kind"`
	Name      *string        `db:"name" json:"name"`
	Size      *int64         `db:"size" json:"size"`
}

// Message is an immutable log entry in a chat. Only the read-by set may grow
// after creation; deletion is a hard delete.
type Message struct {
	ID          string       `db:"id" json:"id"`
	ChatID      string       `db:"chat_id" json:"chatId"`
	AuthorID    string       `db:"author_id" json:"authorId"`
	Content     *string      `db:"content" json:"content"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	Attachments []Attachment `json:"attachments"`
	// ReadBy holds user ids (never the author) that acknowledged the message.
	ReadBy []string `json:"readBy"`
}

// ReadByUser reports whether userID acknowledged the message.
func (m Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// NewMessage validates and normalizes a message before persistence.
// A message with neither content nor attachments is rejected.
func NewMessage(m Message) (*Message, error) {
	if m.ChatID == "" || m.AuthorID == "" {
		return nil, ErrInvalidInput
	}

	if m.Content != nil {
		trimmed := strings.TrimSpace(*m.Content)
		if trimmed == "" {
			m.Content = nil
		} else {
			m.Content = &trimmed
		}
	}

	if m.Content == nil && len(m.Attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return &m, nil
}
