// Package presence tracks who is online and who is typing. All state is
// in-memory and rebuilt from live connections after a restart; it is kept off
// the transactional store on purpose so presence bookkeeping never adds
// contention to message delivery.
package presence

import "sync"

// Tracker holds per-user connection counts and per-chat typing sets.
// A user is online iff their connection count is > 0. Typing entries are
// mirrors of client start/stop signals; the server runs no timeout sweep,
// clients re-send typing on keystrokes and send stop-typing when idle.
type Tracker struct {
	mu          sync.Mutex
	connections map[string]int                 // userID -> open connection count
	typing      map[string]map[string]struct{} // chatID -> set of typing userIDs
}

// NewTracker constructs an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		connections: make(map[string]int),
		typing:      make(map[string]map[string]struct{}),
	}
}

// Connect records one more connection for the user and reports whether this
// was the 0→1 transition. Presence-changed is broadcast only on that edge so
// a second tab never flaps presence.
func (t *Tracker) Connect(userID string) (cameOnline bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connections[userID]++
	return t.connections[userID] == 1
}

// Disconnect records one connection going away and reports whether the user
// just went fully offline (1→0). A disconnecting user also stops typing
// everywhere.
func (t *Tracker) Disconnect(userID string) (wentOffline bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connections[userID] == 0 {
		return false
	}
	t.connections[userID]--
	if t.connections[userID] > 0 {
		return false
	}
	delete(t.connections, userID)
	for chatID, users := range t.typing {
		delete(users, userID)
		if len(users) == 0 {
			delete(t.typing, chatID)
		}
	}
	return true
}

// OnlineUsers returns the set of currently online user ids.
func (t *Tracker) OnlineUsers() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.connections))
	for id := range t.connections {
		out = append(out, id)
	}
	return out
}

// StartTyping marks the user as typing in the chat; reports whether the state
// actually changed (repeat keystroke signals are collapsed).
func (t *Tracker) StartTyping(chatID, userID string) (changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	users := t.typing[chatID]
	if users == nil {
		users = make(map[string]struct{})
		t.typing[chatID] = users
	}
	if _, ok := users[userID]; ok {
		return false
	}
	users[userID] = struct{}{}
	return true
}

// StopTyping clears the user's typing state in the chat; reports whether the
// user was typing. Also invoked when the user's message-created commits, since
// a sent message implies typing ended.
func (t *Tracker) StopTyping(chatID, userID string) (changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	users := t.typing[chatID]
	if _, ok := users[userID]; !ok {
		return false
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(t.typing, chatID)
	}
	return true
}

// TypingUsers returns who is currently typing in the chat.
func (t *Tracker) TypingUsers(chatID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.typing[chatID]))
	for id := range t.typing[chatID] {
		out = append(out, id)
	}
	return out
}

// ClearChat drops all typing state for a deleted chat.
func (t *Tracker) ClearChat(chatID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.typing, chatID)
}
