package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/event"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/presence"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
	repoAdapter "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// ChatSocketController owns the websocket endpoint. A session's lifecycle:
// upgrade, presence connect (0→1 broadcasts presence-changed), snapshot of
// currently-online users, subscription to every chat room the user belongs
// to, then a read loop that only accepts typing signals. All state mutations
// arrive over REST; the socket is a delivery channel plus typing relay.
type ChatSocketController struct {
	router      *realtime.Router
	presence    *presence.Tracker
	notifier    *notifier.Notifier
	repo        repository.ChatRepository
	subscribeUC *usecase.SubscribeUserChatsUseCase
	log         zerolog.Logger
}

func NewChatSocketController(pool *pgxpool.Pool, router *realtime.Router, tracker *presence.Tracker, n *notifier.Notifier, log zerolog.Logger) *ChatSocketController {
	repo := repoAdapter.NewPgChatRepository(pool)
	return &ChatSocketController{
		router:      router,
		presence:    tracker,
		notifier:    n,
		repo:        repo,
		subscribeUC: usecase.NewSubscribeUserChatsUseCase(repo, router),
		log:         log,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The gateway in front of this service enforces origins.
		return true
	},
}

// clientFrame is the only inbound shape: typing signals. Anything else is
// ignored so that protocol additions on the client never kill old servers.
type clientFrame struct {
	Type   string `json:"type"`
	ChatID string `json:"chatId"`
}

const socketReadTimeout = 60 * time.Second

func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()

		ctl.router.Attach(conn)
		if ctl.presence.Connect(userID) {
			ctl.notifier.BroadcastAll(event.PresenceChanged(userID, true), userID)
		}
		_ = conn.SendJSON(event.PresenceSnapshot(ctl.presence.OnlineUsers()))

		subCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		err = ctl.subscribeUC.Execute(subCtx, usecase.SubscribeUserChatsInput{Conn: conn})
		cancel()
		if err != nil {
			ctl.log.Warn().Err(err).Str("user_id", userID).Msg("chat subscription failed, closing socket")
			ctl.teardown(conn)
			return
		}

		defer ctl.teardown(conn)

		ws.SetReadLimit(1 << 16)
		_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame clientFrame
			if err := json.Unmarshal(data, &frame); err != nil || frame.ChatID == "" {
				continue
			}

			switch frame.Type {
			case event.TypeTyping:
				ctl.handleTyping(c.Request.Context(), userID, frame.ChatID, true)
			case event.TypeStopTyping:
				ctl.handleTyping(c.Request.Context(), userID, frame.ChatID, false)
			}
		}
	}
}

// handleTyping relays a typing signal to the chat's other participants.
// Membership is checked against the store so a removed participant cannot
// keep a stale socket typing into the room.
func (ctl *ChatSocketController) handleTyping(parent context.Context, userID, chatID string, start bool) {
	ctx, cancel := context.WithTimeout(parent, 5*time.Second)
	defer cancel()

	ok, err := ctl.repo.IsParticipant(ctx, chatID, userID)
	if err != nil || !ok {
		return
	}

	if start {
		if ctl.presence.StartTyping(chatID, userID) {
			ctl.notifier.Broadcast(chatID, event.TypingStart(chatID, userID), userID)
		}
		return
	}
	if ctl.presence.StopTyping(chatID, userID) {
		ctl.notifier.Broadcast(chatID, event.TypingStop(chatID, userID), userID)
	}
}

func (ctl *ChatSocketController) teardown(conn *realtime.Connection) {
	ctl.router.Detach(conn)
	if ctl.presence.Disconnect(conn.UserID) {
		ctl.notifier.BroadcastAll(event.PresenceChanged(conn.UserID, false), conn.UserID)
	}
	conn.Close(websocket.CloseNormalClosure, "session closed")
}
