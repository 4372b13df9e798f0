package chat

import "time"

// ChatKind distinguishes direct threads from society group chats.
type ChatKind int16

const (
	ChatKindOneOnOne ChatKind = 0
	ChatKindGroup    ChatKind = 1
)

// Chat is a conversation between society members.
//
// Invariants enforced by the store:
//   - a ONE_ON_ONE chat has exactly 2 participants and at most one such chat
//     exists per unordered user pair (unique constraint on the normalized pair)
//   - a GROUP chat has exactly one admin, who is always a participant
type Chat struct {
	ID          string    `db:"id" json:"id"`
	Kind        ChatKind  `db:"kind" json:"kind"`
	Name        *string   `db:"name" json:"name"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	AdminUserID *string   `db:"admin_user_id" json:"adminUserId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// IsGroup reports whether the chat is a society group chat.
func (c Chat) IsGroup() bool { return c.Kind == ChatKindGroup }

// IsAdmin reports whether userID administers this chat. Always false for
// one-on-one chats, which have no admin.
func (c Chat) IsAdmin(userID string) bool {
	return c.AdminUserID != nil && *c.AdminUserID == userID
}

// PairKey normalizes an unordered user pair into the canonical (low, high)
// order used by the one-on-one uniqueness constraint.
func PairKey(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}
