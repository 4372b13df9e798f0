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

// RemoveParticipantController handles admin removal of a group member.
type RemoveParticipantController struct {
	UC *usecase.RemoveParticipantUseCase
}

func NewRemoveParticipantController(pool *pgxpool.Pool, router *realtime.Router, n *notifier.Notifier) *RemoveParticipantController {
	repo := adapter.NewPgChatRepository(pool)
	return &RemoveParticipantController{UC: usecase.NewRemoveParticipantUseCase(repo, router, n)}
}

func (h *RemoveParticipantController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		participantID := c.Param("participantId")
		if chatID == "" || participantID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId and participantId are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.RemoveParticipantInput{
			ChatID:          chatID,
			RequesterUserID: UserID(c),
			UserID:          participantID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
