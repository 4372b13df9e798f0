package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	cacheAdapter "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/cache/adapter"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/database"
	queueAdapter "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/adapter"
	"github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/realtime"
	storageAdapter "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/adapter"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/notifier"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/presence"
	"github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/task"
	repoAdapter "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/presentation/http"

	v1 "github.com/moaviak/sociohub-fyp-sub001/cmd/api/router/v1"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found or could not be loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := repoAdapter.Migrate(ctx, pool); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to apply chat schema")
	}
	cancel()
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer cache.Close()

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer queueClient.Close()

	store, err := storageAdapter.NewLocalDiskStoreFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	router := realtime.NewRouter()
	tracker := presence.NewTracker()
	notify := notifier.New(router, tracker, queueClient, log)

	queueServer, err := queueAdapter.NewAsynqServer(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue server")
	}
	task.RegisterPurgeAttachmentsTask(queueServer, store, log)
	task.RegisterPushNotificationTask(queueServer, task.LogPushSender{Log: log}, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	go func() {
		if err := queueServer.Run(workerCtx); err != nil {
			log.Error().Err(err).Msg("queue server stopped")
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.Static("/uploads", store.Dir())

	v1.RegisterRoutes(r, httpHandler.Deps{
		Pool:     pool,
		Router:   router,
		Presence: tracker,
		Notifier: notify,
		Cache:    cache,
		Queue:    queueClient,
		Store:    store,
		Log:      log,
	})

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("chat service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	router.Close()
	stopWorkers()
}
