package repository

import (
	"context"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
)

// DirectoryEntry is one row of a user's chat list projection: the chat, its
// latest message (nil when the chat is empty) and the unread count derived for
// the requesting user. Unread is never stored; it is computed per request as
// count(messages where author != reader and reader not in read-by).
type DirectoryEntry struct {
	Chat        chat.Chat
	LastMessage *chat.Message
	UnreadCount int
}

// ChatRepository defines persistence operations for the chat store. All
// multi-statement operations run in a single transaction so invariants cannot
// be partially applied.
type ChatRepository interface {
	// Chat lifecycle
	GetChat(ctx context.Context, chatID string) (*chat.Chat, error)
	// CreateOneToOne returns the existing chat for the unordered pair or
	// creates it. Concurrent calls for the same pair converge on one chat;
	// the race loser receives the winner's chat and created=false.
	CreateOneToOne(ctx context.Context, userA, userB string) (c *chat.Chat, created bool, err error)
	CreateGroup(ctx context.Context, adminUserID, name string, imageURL *string, participantIDs []string) (*chat.Chat, error)
	UpdateGroup(ctx context.Context, chatID string, name, imageURL *string) error
	// DeleteChat cascades to messages and attachments and returns the backing
	// file URLs so callers can queue an asynchronous purge.
	DeleteChat(ctx context.Context, chatID string) (attachmentURLs []string, err error)

	// Participants
	IsParticipant(ctx context.Context, chatID, userID string) (bool, error)
	ListParticipantIDs(ctx context.Context, chatID string) ([]string, error)
	ListChatIDsForUser(ctx context.Context, userID string) ([]string, error)
	// AddParticipants inserts missing memberships and returns the ids actually
	// added (already-present users are skipped, not an error).
	AddParticipants(ctx context.Context, chatID string, userIDs []string) (added []string, err error)
	// RemoveParticipant is idempotent; removed=false means the user was
	// already absent.
	RemoveParticipant(ctx context.Context, chatID, userID string) (removed bool, err error)

	// Messages
	// SaveMessage persists the message and its attachments atomically. The
	// insert is gated on current participation so a concurrent removal cannot
	// slip a message in; returns chat.ErrNotParticipant in that case.
	SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error)
	GetMessage(ctx context.Context, messageID string) (*chat.Message, error)
	// ListMessages returns a page of messages newest-first from storage.
	ListMessages(ctx context.Context, chatID string, limit, offset int) ([]chat.Message, error)
	// DeleteMessage hard-deletes the message and its attachment rows and
	// returns the owning chat id plus the attachment URLs to purge.
	DeleteMessage(ctx context.Context, messageID string) (chatID string, attachmentURLs []string, err error)
	// MarkRead adds userID to the read-by set of every unread message in the
	// chat not authored by them, in one transaction. Receipts only ever grow;
	// a second call in a row marks zero messages.
	MarkRead(ctx context.Context, chatID, userID string) (marked int, err error)

	// Projections
	ListDirectory(ctx context.Context, userID string) ([]DirectoryEntry, error)
	// ListOneToOnePeers returns users the given user already shares a
	// one-on-one chat with, most recent chat first.
	ListOneToOnePeers(ctx context.Context, userID string) ([]string, error)
}
