package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/cache/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// CreateOneToOneChatController handles get-or-create for direct chats (one
// controller per endpoint).
type CreateOneToOneChatController struct {
	UC *usecase.CreateOneToOneChatUseCase
}

func NewCreateOneToOneChatController(pool *pgxpool.Pool, router *realtime.Router, cache cacheport.Cache) *CreateOneToOneChatController {
	repo := adapter.NewPgChatRepository(pool)
	return &CreateOneToOneChatController{UC: usecase.NewCreateOneToOneChatUseCase(repo, router, cache)}
}

func (h *CreateOneToOneChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		recipientID := c.Param("recipientId")
		if recipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipientId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.CreateOneToOneChatInput{
			UserID:      UserID(c),
			RecipientID: recipientID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chat": chatJSON(*out)})
	}
}
