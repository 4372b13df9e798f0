package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// LeaveGroupController handles a member leaving a group chat.
type LeaveGroupController struct {
	UC *usecase.LeaveGroupUseCase
}

func NewLeaveGroupController(pool *pgxpool.Pool, router *realtime.Router, n *notifier.Notifier) *LeaveGroupController {
	repo := adapter.NewPgChatRepository(pool)
	return &LeaveGroupController{UC: usecase.NewLeaveGroupUseCase(repo, router, n)}
}

func (h *LeaveGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.LeaveGroupInput{
			ChatID: chatID,
			UserID: UserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
