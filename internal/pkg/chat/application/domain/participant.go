package chat

import "time"

// Participant captures a user's membership in a chat.
// Primary key: (ChatID, UserID). Presence and last-seen are properties of the
// user (shared across chats), tracked by the presence service, not stored here.
type Participant struct {
	ChatID   string    `db:"chat_id" json:"chatId"`
	UserID   string    `db:"user_id" json:"userId"`
	JoinedAt time.Time `db:"joined_at" json:"joinedAt"`
}

// DedupeUserIDs returns ids with duplicates and empty entries removed,
// preserving first-seen order.
func DedupeUserIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
