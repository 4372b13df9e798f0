package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/cache/port"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/usecase"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
)

// SuggestedUsersController returns the caller's prior direct-chat partners,
// used to seed the new-message picker.
type SuggestedUsersController struct {
	UC *usecase.SuggestedUsersUseCase
}

func NewSuggestedUsersController(pool *pgxpool.Pool, cache cacheport.Cache) *SuggestedUsersController {
	repo := adapter.NewPgChatRepository(pool)
	return &SuggestedUsersController{UC: usecase.NewSuggestedUsersUseCase(repo, cache)}
}

func (h *SuggestedUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		users, err := h.UC.Execute(ctx, usecase.SuggestedUsersInput{UserID: UserID(c)})
		if err != nil {
			respondError(c, err)
			return
		}
		if users == nil {
			users = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}
