package chatclient

import (
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
)

// Effect tells the caller what follow-up network work an event requires.
// Event payloads are not guaranteed to carry full chat metadata, so some
// events can only be resolved by going back to REST.
type Effect struct {
	// RefetchDirectory is set when an event referenced a chat the cache does
	// not know (e.g. the user was just added as a participant). The caller
	// should re-fetch the chat list rather than synthesize a partial chat.
	RefetchDirectory bool

	// MarkReadChatID is set when a message arrived in the chat currently on
	// screen; the caller should issue a markRead call so server state matches
	// what the user is looking at.
	MarkReadChatID string
}

// ApplyEvent merges one realtime event into the cache and returns any
// required follow-up. Unknown event types are ignored so the client keeps
// working against newer servers.
func (c *Cache) ApplyEvent(ev event.Envelope) Effect {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case event.TypeMessageCreated:
		return c.applyMessageCreated(ev)

	case event.TypeMessageDeleted:
		c.applyMessageDeleted(ev.ChatID, ev.MessageID)

	case event.TypeChatRead:
		c.applyChatRead(ev.ChatID, ev.UserID)

	case event.TypeParticipantAdded:
		// The payload has no chat metadata; refetch resolves both roster and,
		// when the added user is us, the chat itself.
		return Effect{RefetchDirectory: true}

	case event.TypeParticipantRemoved, event.TypeGroupLeft:
		if ev.UserID == c.selfID {
			c.evictLocked(ev.ChatID)
		}

	case event.TypeChatDeleted, event.TypeGroupDeleted:
		c.evictLocked(ev.ChatID)

	case event.TypeGroupUpdated:
		if e := c.chats[ev.ChatID]; e != nil {
			if ev.Name != nil {
				e.Chat.Name = ev.Name
			}
			if ev.ImageURL != nil {
				e.Chat.ImageURL = ev.ImageURL
			}
		}

	case event.TypeTypingStart:
		set := c.typing[ev.ChatID]
		if set == nil {
			set = make(map[string]struct{})
			c.typing[ev.ChatID] = set
		}
		set[ev.UserID] = struct{}{}

	case event.TypeTypingStop:
		if set := c.typing[ev.ChatID]; set != nil {
			delete(set, ev.UserID)
			if len(set) == 0 {
				delete(c.typing, ev.ChatID)
			}
		}

	case event.TypePresenceChanged:
		if ev.Online != nil && *ev.Online {
			c.online[ev.UserID] = struct{}{}
		} else {
			delete(c.online, ev.UserID)
			// An offline user cannot be typing anywhere.
			for chatID, set := range c.typing {
				delete(set, ev.UserID)
				if len(set) == 0 {
					delete(c.typing, chatID)
				}
			}
		}

	case event.TypePresenceSnapshot:
		c.online = make(map[string]struct{}, len(ev.UserIDs))
		for _, id := range ev.UserIDs {
			c.online[id] = struct{}{}
		}
	}
	return Effect{}
}

func (c *Cache) applyMessageCreated(ev event.Envelope) Effect {
	if ev.Message == nil {
		return Effect{}
	}
	m := *ev.Message

	e := c.chats[m.ChatID]
	if e == nil {
		return Effect{RefetchDirectory: true}
	}

	// A message from the author clears their typing indicator.
	if set := c.typing[m.ChatID]; set != nil {
		delete(set, m.AuthorID)
		if len(set) == 0 {
			delete(c.typing, m.ChatID)
		}
	}

	// The author's own sessions reconcile through Confirm; events may still
	// reach them, so drop duplicates by server id.
	for i := range e.timeline {
		if e.timeline[i].Message.ID == m.ID {
			return Effect{}
		}
	}

	e.timeline = append(e.timeline, LocalMessage{LocalID: m.ID, Status: StatusConfirmed, Message: m})
	last := m
	e.LastMessage = &last
	if m.CreatedAt.After(e.lastActivity) {
		e.lastActivity = m.CreatedAt
	}

	if m.AuthorID == c.selfID {
		return Effect{}
	}
	if c.open == m.ChatID {
		return Effect{MarkReadChatID: m.ChatID}
	}
	e.UnreadCount++
	return Effect{}
}

func (c *Cache) applyMessageDeleted(chatID, messageID string) {
	e := c.chats[chatID]
	if e == nil {
		return
	}
	for i := range e.timeline {
		if e.timeline[i].Message.ID == messageID {
			e.timeline = append(e.timeline[:i], e.timeline[i+1:]...)
			break
		}
	}
	if e.LastMessage != nil && e.LastMessage.ID == messageID {
		e.LastMessage = nil
		for i := len(e.timeline) - 1; i >= 0; i-- {
			if e.timeline[i].Status == StatusConfirmed {
				m := e.timeline[i].Message
				e.LastMessage = &m
				break
			}
		}
	}
}

// applyChatRead folds a reader into the read-by sets of our own messages so
// read indicators update for the sender. The reader's own devices clear their
// unread counter through OpenChat, not here.
func (c *Cache) applyChatRead(chatID, readerID string) {
	e := c.chats[chatID]
	if e == nil || readerID == c.selfID {
		return
	}
	for i := range e.timeline {
		lm := &e.timeline[i]
		if lm.Status != StatusConfirmed || lm.Message.AuthorID != c.selfID {
			continue
		}
		if !lm.Message.ReadByUser(readerID) {
			lm.Message.ReadBy = append(lm.Message.ReadBy, readerID)
		}
	}
}
