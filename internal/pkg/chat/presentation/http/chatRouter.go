package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	cacheport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/cache/port"
	qport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	storageport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/presence"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/presentation/controller"
)

// Deps bundles the shared infrastructure handed down from main.
type Deps struct {
	Pool     *pgxpool.Pool
	Router   *realtime.Router
	Presence *presence.Tracker
	Notifier *notifier.Notifier
	Cache    cacheport.Cache
	Queue    qport.Client
	Store    storageport.BlobStore
	Log      zerolog.Logger
}

// RegisterRoutes registers the chat endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
// Every route requires a resolved identity.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	directoryCtl := controller.NewDirectoryController(d.Pool)
	suggestedCtl := controller.NewSuggestedUsersController(d.Pool, d.Cache)
	createDirectCtl := controller.NewCreateOneToOneChatController(d.Pool, d.Router, d.Cache)
	deleteDirectCtl := controller.NewDeleteOneToOneChatController(d.Pool, d.Router, d.Notifier, d.Presence, d.Queue, d.Log)
	createGroupCtl := controller.NewCreateGroupChatController(d.Pool, d.Router, d.Notifier, d.Store)
	updateGroupCtl := controller.NewUpdateGroupController(d.Pool, d.Notifier, d.Store)
	addParticipantCtl := controller.NewAddParticipantController(d.Pool, d.Router, d.Notifier)
	removeParticipantCtl := controller.NewRemoveParticipantController(d.Pool, d.Router, d.Notifier)
	leaveGroupCtl := controller.NewLeaveGroupController(d.Pool, d.Router, d.Notifier)
	deleteGroupCtl := controller.NewDeleteGroupController(d.Pool, d.Router, d.Notifier, d.Presence, d.Queue, d.Log)
	markReadCtl := controller.NewMarkChatReadController(d.Pool, d.Notifier)
	sendMsgCtl := controller.NewSendMessageController(d.Pool, d.Notifier, d.Store)
	getMsgCtl := controller.NewGetMessageController(d.Pool)
	deleteMsgCtl := controller.NewDeleteMessageController(d.Pool, d.Notifier, d.Queue, d.Log)
	socketCtl := controller.NewChatSocketController(d.Pool, d.Router, d.Presence, d.Notifier, d.Log)

	g.Use(controller.RequireUser())

	g.GET("/chats", directoryCtl.Handle())
	g.GET("/chats/suggested-users", suggestedCtl.Handle())
	g.POST("/chats/one-on-one/:recipientId", createDirectCtl.Handle())
	g.DELETE("/chats/one-on-one/:chatId", deleteDirectCtl.Handle())
	g.POST("/chats/group", createGroupCtl.Handle())
	g.PUT("/chats/group/:chatId", updateGroupCtl.Handle())
	g.POST("/chats/group/:chatId/participants", addParticipantCtl.Handle())
	g.POST("/chats/group/:chatId/participants/bulk", addParticipantCtl.HandleBulk())
	g.DELETE("/chats/group/:chatId/participants/:participantId", removeParticipantCtl.Handle())
	g.POST("/chats/group/:chatId/leave", leaveGroupCtl.Handle())
	g.DELETE("/chats/group/:chatId", deleteGroupCtl.Handle())
	g.POST("/chats/:chatId/read", markReadCtl.Handle())

	g.GET("/messages/:chatId", getMsgCtl.Handle())
	g.POST("/messages/:chatId", sendMsgCtl.Handle())
	g.DELETE("/messages/:messageId", deleteMsgCtl.Handle())

	g.GET("/chats/ws", socketCtl.Handle())
}
