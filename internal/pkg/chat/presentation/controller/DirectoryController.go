package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// DirectoryController serves the caller's ordered chat list (one controller
// per endpoint).
type DirectoryController struct {
	UC *usecase.GetDirectoryUseCase
}

func NewDirectoryController(pool *pgxpool.Pool) *DirectoryController {
	repo := adapter.NewPgChatRepository(pool)
	return &DirectoryController{UC: usecase.NewGetDirectoryUseCase(repo)}
}

func (h *DirectoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		entries, err := h.UC.Execute(ctx, usecase.GetDirectoryInput{UserID: UserID(c)})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chats": directoryJSON(entries)})
	}
}
