package controller

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	storageport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/port"
	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

func chatJSON(c chat.Chat) gin.H {
	return gin.H{
		"id":          c.ID,
		"kind":        c.Kind,
		"name":        c.Name,
		"imageUrl":    c.ImageURL,
		"adminUserId": c.AdminUserID,
		"createdAt":   c.CreatedAt,
	}
}

func messageJSON(m chat.Message) gin.H {
	attachments := make([]gin.H, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		attachments = append(attachments, gin.H{
			"id":   a.ID,
			"url":  a.URL,
			"kind": a.Kind,
			"name": a.Name,
			"size": a.Size,
		})
	}
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []string{}
	}
	return gin.H{
		"id":          m.ID,
		"chatId":      m.ChatID,
		"authorId":    m.AuthorID,
		"content":     m.Content,
		"createdAt":   m.CreatedAt,
		"attachments": attachments,
		"readBy":      readBy,
	}
}

func directoryJSON(entries []repository.DirectoryEntry) []gin.H {
	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		item := chatJSON(e.Chat)
		item["unreadCount"] = e.UnreadCount
		if e.LastMessage != nil {
			item["lastMessage"] = messageJSON(*e.LastMessage)
		} else {
			item["lastMessage"] = nil
		}
		out = append(out, item)
	}
	return out
}

// uploadAttachments streams multipart files to the blob store and returns
// attachment records carrying the resolved URLs.
func uploadAttachments(ctx context.Context, store storageport.BlobStore, files []*multipart.FileHeader) ([]chat.Attachment, error) {
	attachments := make([]chat.Attachment, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		url, err := store.Upload(ctx, fh.Filename, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		name := fh.Filename
		size := fh.Size
		attachments = append(attachments, chat.Attachment{
			URL:  url,
			Kind: attachmentKind(fh),
			Name: &name,
			Size: &size,
		})
	}
	return attachments, nil
}

// attachmentKind classifies by content type, falling back to the extension.
func attachmentKind(fh *multipart.FileHeader) chat.AttachmentKind {
	ct := fh.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "image/"):
		return chat.AttachmentKindImage
	case strings.HasPrefix(ct, "video/"):
		return chat.AttachmentKindVideo
	case strings.HasPrefix(ct, "audio/"):
		return chat.AttachmentKindAudio
	}
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return chat.AttachmentKindImage
	case ".mp4", ".mov", ".webm":
		return chat.AttachmentKindVideo
	case ".mp3", ".ogg", ".wav", ".m4a":
		return chat.AttachmentKindAudio
	}
	return chat.AttachmentKindDocument
}
