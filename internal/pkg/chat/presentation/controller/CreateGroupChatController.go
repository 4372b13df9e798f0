package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	storageport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// CreateGroupChatController handles group creation from a multipart form:
// name, participants[], optional avatar file.
type CreateGroupChatController struct {
	UC    *usecase.CreateGroupChatUseCase
	Store storageport.BlobStore
}

func NewCreateGroupChatController(pool *pgxpool.Pool, router *realtime.Router, n *notifier.Notifier, store storageport.BlobStore) *CreateGroupChatController {
	repo := adapter.NewPgChatRepository(pool)
	return &CreateGroupChatController{
		UC:    usecase.NewCreateGroupChatUseCase(repo, router, n),
		Store: store,
	}
}

func (h *CreateGroupChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		participants := c.PostFormArray("participants[]")
		if len(participants) == 0 {
			participants = c.PostFormArray("participants")
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

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

		out, err := h.UC.Execute(ctx, usecase.CreateGroupChatInput{
			AdminUserID:    UserID(c),
			Name:           name,
			ImageURL:       imageURL,
			ParticipantIDs: participants,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"chat": chatJSON(*out)})
	}
}
