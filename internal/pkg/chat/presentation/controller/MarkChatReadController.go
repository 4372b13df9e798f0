package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// MarkChatReadController records read receipts for every unread message in a
// chat on behalf of the caller.
type MarkChatReadController struct {
	UC *usecase.MarkChatReadUseCase
}

func NewMarkChatReadController(pool *pgxpool.Pool, n *notifier.Notifier) *MarkChatReadController {
	repo := adapter.NewPgChatRepository(pool)
	return &MarkChatReadController{UC: usecase.NewMarkChatReadUseCase(repo, n)}
}

func (h *MarkChatReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		marked, err := h.UC.Execute(ctx, usecase.MarkChatReadInput{
			ChatID: chatID,
			UserID: UserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"marked": marked})
	}
}
