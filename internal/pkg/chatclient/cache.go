// Package chatclient implements the client-side chat cache and the optimistic
// send pipeline used by SocioHub front ends built in Go (the desktop agent and
// the integration harness). The cache mirrors server state from REST fetches
// and realtime events; locally-originated messages move through a
// Pending → Confirmed|Failed state machine keyed by a client-generated id.
package chatclient

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

// MessageStatus is the lifecycle state of a locally-originated message.
type MessageStatus int

const (
	StatusPending MessageStatus = iota
	StatusConfirmed
	StatusFailed
)

// LocalMessage is one timeline slot. For messages received from the server the
// status is always Confirmed and LocalID equals the server id. For optimistic
// sends LocalID is the client-generated id and survives confirmation, so
// reconciliation never depends on list position.
type LocalMessage struct {
	LocalID string
	Status  MessageStatus
	Message chat.Message
}

// Entry is the cached view of one chat.
type Entry struct {
	Chat        chat.Chat
	UnreadCount int
	LastMessage *chat.Message

	timeline     []LocalMessage // oldest-first
	loaded       bool           // history fetched at least once
	lastActivity time.Time
}

// Cache holds everything a connected client knows about its chats. All
// methods are safe for concurrent use; socket events and HTTP responses
// arrive on different goroutines.
type Cache struct {
	mu     sync.Mutex
	selfID string

	open    string // chat currently on screen, "" if none
	chats   map[string]*Entry
	pending map[string]string // localID -> chatID

	online map[string]struct{}
	typing map[string]map[string]struct{} // chatID -> userIDs
}

// NewCache constructs an empty cache for the given local user.
func NewCache(selfID string) *Cache {
	return &Cache{
		selfID:  selfID,
		chats:   make(map[string]*Entry),
		pending: make(map[string]string),
		online:  make(map[string]struct{}),
		typing:  make(map[string]map[string]struct{}),
	}
}

// LoadDirectory replaces the chat list with a fresh REST fetch. Timelines and
// pending messages of chats that survive the refresh are kept; chats missing
// from the response are evicted.
func (c *Cache) LoadDirectory(entries []repository.DirectoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Chat.ID] = struct{}{}
		cur := c.chats[e.Chat.ID]
		if cur == nil {
			cur = &Entry{}
			c.chats[e.Chat.ID] = cur
		}
		cur.Chat = e.Chat
		cur.UnreadCount = e.UnreadCount
		cur.LastMessage = e.LastMessage
		if e.LastMessage != nil && e.LastMessage.CreatedAt.After(cur.lastActivity) {
			cur.lastActivity = e.LastMessage.CreatedAt
		} else if e.LastMessage == nil && cur.lastActivity.IsZero() {
			cur.lastActivity = e.Chat.CreatedAt
		}
	}
	for id := range c.chats {
		if _, ok := seen[id]; !ok {
			c.evictLocked(id)
		}
	}
}

// LoadHistory installs a fetched message page for a chat. The server returns
// newest-first; the timeline is kept oldest-first, so the page is reversed.
// Pending and failed local messages are re-appended after the fetched page so
// an in-flight send is never dropped by a refresh.
func (c *Cache) LoadHistory(chatID string, newestFirst []chat.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.chats[chatID]
	if e == nil {
		return
	}

	timeline := make([]LocalMessage, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		m := newestFirst[i]
		timeline = append(timeline, LocalMessage{LocalID: m.ID, Status: StatusConfirmed, Message: m})
	}
	for _, lm := range e.timeline {
		if lm.Status != StatusConfirmed {
			timeline = append(timeline, lm)
		}
	}
	e.timeline = timeline
	e.loaded = true
}

// OpenChat marks a chat as the one on screen and reports whether the client
// should issue a markRead call (it has unread messages). The unread counter
// is cleared optimistically; the server receipt insert is idempotent.
func (c *Cache) OpenChat(chatID string) (markRead bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = chatID
	e := c.chats[chatID]
	if e == nil {
		return false
	}
	if e.UnreadCount > 0 {
		e.UnreadCount = 0
		return true
	}
	return false
}

// CloseChat clears the on-screen chat.
func (c *Cache) CloseChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = ""
}

// Submit inserts an optimistic pending message into the chat's timeline and
// bumps the chat to the top of the list. It returns the client-generated id
// used to reconcile the server response. The sender's own unread count is
// never touched.
func (c *Cache) Submit(chatID string, content *string, attachments []chat.Attachment) (localID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.chats[chatID]
	if e == nil {
		return ""
	}

	localID = uuid.NewString()
	now := time.Now()
	msg := chat.Message{
		ID:          localID,
		ChatID:      chatID,
		AuthorID:    c.selfID,
		Content:     content,
		Attachments: attachments,
		CreatedAt:   now,
	}
	e.timeline = append(e.timeline, LocalMessage{LocalID: localID, Status: StatusPending, Message: msg})
	e.lastActivity = now
	c.pending[localID] = chatID
	return localID
}

// Confirm resolves a pending message in place with its server-assigned
// identity and timestamps. The slot keeps its position and local id.
func (c *Cache) Confirm(localID string, server chat.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chatID, ok := c.pending[localID]
	if !ok {
		return
	}
	delete(c.pending, localID)

	e := c.chats[chatID]
	if e == nil {
		return
	}
	for i := range e.timeline {
		if e.timeline[i].LocalID == localID {
			e.timeline[i].Status = StatusConfirmed
			e.timeline[i].Message = server
			break
		}
	}
	if e.LastMessage == nil || !server.CreatedAt.Before(e.LastMessage.CreatedAt) {
		m := server
		e.LastMessage = &m
	}
	if server.CreatedAt.After(e.lastActivity) {
		e.lastActivity = server.CreatedAt
	}
}

// Fail marks a pending message as failed in place. The message stays visible
// so the user can see what did not send; there is no automatic retry.
func (c *Cache) Fail(localID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chatID, ok := c.pending[localID]
	if !ok {
		return
	}
	delete(c.pending, localID)

	e := c.chats[chatID]
	if e == nil {
		return
	}
	for i := range e.timeline {
		if e.timeline[i].LocalID == localID {
			e.timeline[i].Status = StatusFailed
			return
		}
	}
}

// Timeline returns the chat's messages oldest-first.
func (c *Cache) Timeline(chatID string) []LocalMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.chats[chatID]
	if e == nil {
		return nil
	}
	out := make([]LocalMessage, len(e.timeline))
	copy(out, e.timeline)
	return out
}

// DirectoryItem is one row of the rendered chat list.
type DirectoryItem struct {
	Chat        chat.Chat
	UnreadCount int
	LastMessage *chat.Message
}

// Directory returns the chat list ordered by most recent activity, including
// local pending sends, so a just-submitted message splices its chat to the
// top before the server confirms. Chats with no messages at all sort after
// every chat that has any, newest-created first, mirroring the server's
// directory ordering.
func (c *Cache) Directory() []DirectoryItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]DirectoryItem, 0, len(c.chats))
	activity := make(map[string]time.Time, len(c.chats))
	hasMessages := make(map[string]bool, len(c.chats))
	for id, e := range c.chats {
		items = append(items, DirectoryItem{Chat: e.Chat, UnreadCount: e.UnreadCount, LastMessage: e.LastMessage})
		activity[id] = e.lastActivity
		hasMessages[id] = e.LastMessage != nil || len(e.timeline) > 0
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Chat, items[j].Chat
		switch {
		case hasMessages[a.ID] && !hasMessages[b.ID]:
			return true
		case !hasMessages[a.ID] && hasMessages[b.ID]:
			return false
		case hasMessages[a.ID]:
			ai, aj := activity[a.ID], activity[b.ID]
			if !ai.Equal(aj) {
				return ai.After(aj)
			}
			return a.ID > b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})
	return items
}

// Unread returns the chat's local unread count.
func (c *Cache) Unread(chatID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.chats[chatID]; e != nil {
		return e.UnreadCount
	}
	return 0
}

// Online reports last-known presence for a user.
func (c *Cache) Online(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.online[userID]
	return ok
}

// TypingUsers returns who is currently typing in a chat.
func (c *Cache) TypingUsers(chatID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.typing[chatID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (c *Cache) evictLocked(chatID string) {
	delete(c.chats, chatID)
	delete(c.typing, chatID)
	for localID, id := range c.pending {
		if id == chatID {
			delete(c.pending, localID)
		}
	}
	if c.open == chatID {
		c.open = ""
	}
}
