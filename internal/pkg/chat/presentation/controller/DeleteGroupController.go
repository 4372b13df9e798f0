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

// DeleteGroupController handles admin deletion of a group chat.
type DeleteGroupController struct {
	UC *usecase.DeleteGroupUseCase
}

func NewDeleteGroupController(pool *pgxpool.Pool, router *realtime.Router, n *notifier.Notifier, typing *presence.Tracker, queue queueport.Client, log zerolog.Logger) *DeleteGroupController {
	repo := adapter.NewPgChatRepository(pool)
	return &DeleteGroupController{UC: usecase.NewDeleteGroupUseCase(repo, router, n, typing, queue, log)}
}

func (h *DeleteGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.DeleteGroupInput{
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
