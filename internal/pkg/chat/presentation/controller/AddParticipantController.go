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

// AddParticipantController serves both the single-add and bulk-add endpoints;
// the two routes share one use case so they share one controller.
type AddParticipantController struct {
	UC *usecase.AddParticipantsUseCase
}

func NewAddParticipantController(pool *pgxpool.Pool, router *realtime.Router, n *notifier.Notifier) *AddParticipantController {
	repo := adapter.NewPgChatRepository(pool)
	return &AddParticipantController{UC: usecase.NewAddParticipantsUseCase(repo, router, n)}
}

type addParticipantRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type addParticipantsBulkRequest struct {
	UserIDs []string `json:"userIds" binding:"required"`
}

// Handle adds a single participant.
func (h *AddParticipantController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addParticipantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.execute(c, []string{req.UserID})
	}
}

// HandleBulk adds many participants in one call.
func (h *AddParticipantController) HandleBulk() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addParticipantsBulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.execute(c, req.UserIDs)
	}
}

func (h *AddParticipantController) execute(c *gin.Context, userIDs []string) {
	chatID := c.Param("chatId")
	if chatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	added, err := h.UC.Execute(ctx, usecase.AddParticipantsInput{
		ChatID:          chatID,
		RequesterUserID: UserID(c),
		UserIDs:         userIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if added == nil {
		added = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}
