package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	queueport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/presence"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// DeleteOneToOneChatController handles deletion of a direct chat by either
// participant.
type DeleteOneToOneChatController struct {
	UC *usecase.DeleteOneToOneChatUseCase
}

func NewDeleteOneToOneChatController(pool *pgxpool.Pool, router *realtime.Router, n *notifier.Notifier, typing *presence.Tracker, queue queueport.Client, log zerolog.Logger) *DeleteOneToOneChatController {
	repo := adapter.NewPgChatRepository(pool)
	return &DeleteOneToOneChatController{UC: usecase.NewDeleteOneToOneChatUseCase(repo, router, n, typing, queue, log)}
}

func (h *DeleteOneToOneChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.DeleteOneToOneChatInput{
			ChatID:          chatID,
			RequesterUserID: UserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
