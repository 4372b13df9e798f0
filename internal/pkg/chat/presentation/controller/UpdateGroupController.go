package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	storageport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// UpdateGroupController handles renames and avatar swaps for a group. The
// request is multipart so name and avatar can travel together; both fields
// are optional but at least one must be present.
type UpdateGroupController struct {
	UC    *usecase.UpdateGroupUseCase
	Store storageport.BlobStore
}

func NewUpdateGroupController(pool *pgxpool.Pool, n *notifier.Notifier, store storageport.BlobStore) *UpdateGroupController {
	repo := adapter.NewPgChatRepository(pool)
	return &UpdateGroupController{UC: usecase.NewUpdateGroupUseCase(repo, n), Store: store}
}

func (h *UpdateGroupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		var name *string
		if v, ok := c.GetPostForm("name"); ok {
			name = &v
		}

		var imageURL *string
		if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable avatar upload"})
				return
			}
			url, err := h.Store.Upload(ctx, fh.Filename, f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store avatar"})
				return
			}
			imageURL = &url
		}

		if name == nil && imageURL == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		out, err := h.UC.Execute(ctx, usecase.UpdateGroupInput{
			ChatID:          chatID,
			RequesterUserID: UserID(c),
			Name:            name,
			ImageURL:        imageURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chat": chatJSON(*out)})
	}
}
