package chat

import "errors"

// Domain-level errors for chat behaviors. Controllers map these to HTTP
// statuses; use cases return them unwrapped so errors.Is works end to end.
var (
	ErrInvalidInput   = errors.New("chat: invalid input")
	ErrEmptyMessage   = errors.New("chat: empty message (no content or attachments)")
	ErrNotParticipant = errors.New("chat: user is not a participant in the chat")
	ErrForbidden      = errors.New("chat: operation requires chat admin")
	ErrNotFound       = errors.New("chat: not found")
)
