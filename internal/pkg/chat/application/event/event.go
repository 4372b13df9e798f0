// Package event defines the realtime wire contract between the chat server
// and connected clients. Payloads are JSON; attachment bytes never travel over
// the realtime channel, only URLs resolved by the storage service.
package event

import chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"

// Server → client event types.
const (
	TypeMessageCreated     = "message-created"
	TypeMessageDeleted     = "message-deleted"
	TypeChatRead           = "chat-read"
	TypeParticipantAdded   = "participant-added"
	TypeParticipantRemoved = "participant-removed"
	TypeGroupLeft          = "group-left"
	TypeChatDeleted        = "chat-deleted"
	TypeGroupDeleted       = "group-deleted"
	TypeGroupUpdated       = "group-updated"
	TypeTypingStart        = "typing-start"
	TypeTypingStop         = "typing-stop"
	TypePresenceChanged    = "presence-changed"
	TypePresenceSnapshot   = "presence-snapshot"
)

// Client → server frame types.
const (
	TypeTyping     = "typing"
	TypeStopTyping = "stop-typing"
)

// Envelope is the single frame shape pushed to clients. Type selects which of
// the optional fields are meaningful; unused fields are omitted from the JSON.
type Envelope struct {
	Type      string        `json:"type"`
	ChatID    string        `json:"chatId,omitempty"`
	UserID    string        `json:"userId,omitempty"`
	MessageID string        `json:"messageId,omitempty"`
	Message   *chat.Message `json:"message,omitempty"`
	Name      *string       `json:"name,omitempty"`
	ImageURL  *string       `json:"imageUrl,omitempty"`
	Online    *bool         `json:"online,omitempty"`
	UserIDs   []string      `json:"userIds,omitempty"`
}

// MessageCreated announces a newly committed message to the chat's
// participants (minus the author's own sessions, which reconcile via the
// send response instead).
func MessageCreated(m *chat.Message) Envelope {
	return Envelope{Type: TypeMessageCreated, ChatID: m.ChatID, Message: m}
}

func MessageDeleted(chatID, messageID string) Envelope {
	return Envelope{Type: TypeMessageDeleted, ChatID: chatID, MessageID: messageID}
}

// ChatRead tells senders that readerID caught up on every unread message in
// the chat, so read-by indicators can advance.
func ChatRead(chatID, readerID string) Envelope {
	return Envelope{Type: TypeChatRead, ChatID: chatID, UserID: readerID}
}

func ParticipantAdded(chatID, userID string) Envelope {
	return Envelope{Type: TypeParticipantAdded, ChatID: chatID, UserID: userID}
}

func ParticipantRemoved(chatID, userID string) Envelope {
	return Envelope{Type: TypeParticipantRemoved, ChatID: chatID, UserID: userID}
}

func GroupLeft(chatID, userID string) Envelope {
	return Envelope{Type: TypeGroupLeft, ChatID: chatID, UserID: userID}
}

func ChatDeleted(chatID string) Envelope {
	return Envelope{Type: TypeChatDeleted, ChatID: chatID}
}

func GroupDeleted(chatID string) Envelope {
	return Envelope{Type: TypeGroupDeleted, ChatID: chatID}
}

func GroupUpdated(chatID string, name, imageURL *string) Envelope {
	return Envelope{Type: TypeGroupUpdated, ChatID: chatID, Name: name, ImageURL: imageURL}
}

func TypingStart(chatID, userID string) Envelope {
	return Envelope{Type: TypeTypingStart, ChatID: chatID, UserID: userID}
}

func TypingStop(chatID, userID string) Envelope {
	return Envelope{Type: TypeTypingStop, ChatID: chatID, UserID: userID}
}

func PresenceChanged(userID string, online bool) Envelope {
	return Envelope{Type: TypePresenceChanged, UserID: userID, Online: &online}
}

// PresenceSnapshot seeds a freshly connected client with the current online
// set, after which it follows presence-changed deltas.
func PresenceSnapshot(onlineUserIDs []string) Envelope {
	return Envelope{Type: TypePresenceSnapshot, UserIDs: onlineUserIDs}
}
