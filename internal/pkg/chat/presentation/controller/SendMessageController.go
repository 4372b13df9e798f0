package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	storageport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/port"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// SendMessageController handles the send-message endpoint only (one controller
// per endpoint). The request is multipart: a content field plus any number of
// attachment files. Attachments are uploaded before the message is persisted,
// so a failed persist leaves orphaned blobs at worst, never a message pointing
// at missing blobs.
type SendMessageController struct {
	UC    *usecase.SendMessageUseCase
	Store storageport.BlobStore
}

func NewSendMessageController(pool *pgxpool.Pool, n *notifier.Notifier, store storageport.BlobStore) *SendMessageController {
	repo := adapter.NewPgChatRepository(pool)
	return &SendMessageController{UC: usecase.NewSendMessageUseCase(repo, n), Store: store}
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var content *string
		if v, ok := c.GetPostForm("content"); ok {
			content = &v
		}

		var attachments []chat.Attachment
		if form, err := c.MultipartForm(); err == nil && form != nil {
			files := form.File["attachments[]"]
			if len(files) == 0 {
				files = form.File["attachments"]
			}
			attachments, err = uploadAttachments(ctx, h.Store, files)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store attachments"})
				return
			}
		}

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ChatID:      chatID,
			AuthorID:    UserID(c),
			Content:     content,
			Attachments: attachments,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": messageJSON(*msg)})
	}
}
