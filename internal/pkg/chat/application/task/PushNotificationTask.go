package task

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	qport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
)

// PushSender forwards a message notification to the external push gateway.
// The gateway itself (FCM, APNs, email digest) is outside this codebase.
type PushSender interface {
	SendMessagePush(ctx context.Context, userIDs []string, chatID, authorID, preview string) error
}

// RegisterPushNotificationTask binds the push fan-out handler to the worker.
// Delivery is fire-and-forget from the chat core's point of view: errors are
// logged and retried by the queue, never surfaced to a sender.
func RegisterPushNotificationTask(srv qport.Server, sender PushSender, log zerolog.Logger) {
	srv.Register(notifier.PushTaskType, func(ctx context.Context, t qport.Task) error {
		var p notifier.PushTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			log.Error().Err(err).Msg("decode push payload")
			return nil
		}
		if len(p.UserIDs) == 0 {
			return nil
		}
		if err := sender.SendMessagePush(ctx, p.UserIDs, p.ChatID, p.AuthorID, p.Preview); err != nil {
			log.Warn().Err(err).Str("chat_id", p.ChatID).Int("recipients", len(p.UserIDs)).Msg("push notification send")
			return err
		}
		return nil
	})
}

// LogPushSender is the default PushSender when no gateway is configured: it
// records the would-be notification and succeeds.
type LogPushSender struct {
	Log zerolog.Logger
}

func (s LogPushSender) SendMessagePush(ctx context.Context, userIDs []string, chatID, authorID, preview string) error {
	s.Log.Info().
		Str("chat_id", chatID).
		Str("author_id", authorID).
		Int("recipients", len(userIDs)).
		Msg("push notification (no gateway configured)")
	return nil
}
