// Package notifier fans authoritative chat events out to connected sessions
// and feeds the external push-notification sink for everyone else. Delivery is
// at-least-once per connected session, best-effort otherwise: a disconnected
// client reconciles through the next REST fetch, never through a durable outbox.
package notifier

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	qport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/presence"
)

// PushTaskType is the queue task that forwards a message notification to the
// external push gateway for participants with no live session.
const PushTaskType = "chat:push_notification"

// PushTaskPayload is the JSON payload for PushTaskType.
type PushTaskPayload struct {
	ChatID    string   `json:"chatId"`
	MessageID string   `json:"messageId"`
	AuthorID  string   `json:"authorId"`
	Preview   string   `json:"preview"`
	UserIDs   []string `json:"userIds"`
}

// Notifier publishes events over the realtime router. It owns a per-chat
// guard so message events leave in the exact order their mutations committed;
// cross-chat ordering is intentionally unconstrained.
type Notifier struct {
	router *realtime.Router
	typing *presence.Tracker
	queue  qport.Client // nil disables push fan-out (tests, worker-less runs)
	log    zerolog.Logger

	mu     sync.Mutex
	guards map[string]*sync.Mutex
}

func New(router *realtime.Router, typing *presence.Tracker, queue qport.Client, log zerolog.Logger) *Notifier {
	return &Notifier{
		router: router,
		typing: typing,
		queue:  queue,
		log:    log,
		guards: make(map[string]*sync.Mutex),
	}
}

// LockChat serializes persist+emit sections for one chat and returns the
// unlock func. Holding the guard across the store commit and the broadcast
// keeps emission order equal to commit order within the chat.
func (n *Notifier) LockChat(chatID string) func() {
	n.mu.Lock()
	g := n.guards[chatID]
	if g == nil {
		g = &sync.Mutex{}
		n.guards[chatID] = g
	}
	n.mu.Unlock()

	g.Lock()
	return g.Unlock
}

// Broadcast pushes ev to every session subscribed to the chat, skipping
// sessions of the excluded users. Zero deliveries is not an error.
func (n *Notifier) Broadcast(chatID string, ev event.Envelope, exclude ...string) {
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Error().Err(err).Str("type", ev.Type).Msg("encode realtime event")
		return
	}
	n.router.Broadcast(chatID, payload, exclude...)
}

// BroadcastAll pushes ev to every connected session except the excluded
// user's. Used for presence announcements.
func (n *Notifier) BroadcastAll(ev event.Envelope, excludeUserID string) {
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Error().Err(err).Str("type", ev.Type).Msg("encode realtime event")
		return
	}
	n.router.BroadcastAll(payload, excludeUserID)
}

// NotifyUser pushes ev to every live session of one user.
func (n *Notifier) NotifyUser(userID string, ev event.Envelope) {
	payload, err := json.Marshal(ev)
	if err != nil {
		n.log.Error().Err(err).Str("type", ev.Type).Msg("encode realtime event")
		return
	}
	if !n.router.NotifyUser(userID, payload) {
		// Best-effort only; the user reconciles over REST on reconnect.
		n.log.Debug().Str("user_id", userID).Str("type", ev.Type).Msg("no live session for event")
	}
}

// MessageCreated announces a committed message to the chat's participants
// except the author, clears the author's typing state, and queues a push
// notification for participants with no live connection.
func (n *Notifier) MessageCreated(ctx context.Context, m *chat.Message, participantIDs []string) {
	if n.typing.StopTyping(m.ChatID, m.AuthorID) {
		n.Broadcast(m.ChatID, event.TypingStop(m.ChatID, m.AuthorID), m.AuthorID)
	}
	n.Broadcast(m.ChatID, event.MessageCreated(m), m.AuthorID)
	n.enqueuePush(ctx, m, participantIDs)
}

func (n *Notifier) enqueuePush(ctx context.Context, m *chat.Message, participantIDs []string) {
	if n.queue == nil {
		return
	}
	// The router's session registry is the delivery authority: anyone it can
	// reach got the broadcast, everyone else gets a push.
	offline := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if id == m.AuthorID || n.router.IsOnline(id) {
			continue
		}
		offline = append(offline, id)
	}
	if len(offline) == 0 {
		return
	}

	preview := ""
	if m.Content != nil {
		preview = *m.Content
	}
	payload, err := json.Marshal(PushTaskPayload{
		ChatID:    m.ChatID,
		MessageID: m.ID,
		AuthorID:  m.AuthorID,
		Preview:   preview,
		UserIDs:   offline,
	})
	if err != nil {
		n.log.Error().Err(err).Msg("encode push payload")
		return
	}
	if _, err := n.queue.Enqueue(ctx, qport.Task{Type: PushTaskType, Payload: payload}, qport.EnqueueOption{Queue: "chat"}); err != nil {
		// Push is a fire-and-forget sink; never fail the send over it.
		n.log.Warn().Err(err).Str("chat_id", m.ChatID).Msg("enqueue push notification")
	}
}
