package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	qport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/queue/port"
	storageport "github.com/moaviak/sociohub-fyp-sub001/internal/infrastructure/storage/port"
)

// PurgeAttachmentsTaskType is the queue task that deletes attachment blobs
// after their message or chat was hard-deleted. Purging is best-effort and
// asynchronous: the user-facing delete never waits on it.
const PurgeAttachmentsTaskType = "chat:purge_attachments"

// PurgeAttachmentsPayload is the JSON payload transported via the queue.
type PurgeAttachmentsPayload struct {
	URLs []string `json:"urls"`
}

// EnqueuePurge schedules blob deletion for the given URLs. Failures are
// logged and swallowed; they must never fail the operation that produced them.
func EnqueuePurge(ctx context.Context, client qport.Client, log zerolog.Logger, urls []string) {
	if client == nil || len(urls) == 0 {
		return
	}
	payload, err := json.Marshal(PurgeAttachmentsPayload{URLs: urls})
	if err != nil {
		log.Error().Err(err).Msg("encode purge payload")
		return
	}
	_, err = client.Enqueue(ctx, qport.Task{Type: PurgeAttachmentsTaskType, Payload: payload}, qport.EnqueueOption{
		Queue:    "chat",
		MaxRetry: 5,
	})
	if err != nil {
		log.Warn().Err(err).Int("urls", len(urls)).Msg("enqueue attachment purge")
	}
}

// RegisterPurgeAttachmentsTask binds the purge handler to the worker. Each URL
// is attempted independently; a single failing blob retries the task, and
// Delete treats already-gone blobs as success so retries stay idempotent.
func RegisterPurgeAttachmentsTask(srv qport.Server, store storageport.BlobStore, log zerolog.Logger) {
	srv.Register(PurgeAttachmentsTaskType, func(ctx context.Context, t qport.Task) error {
		var p PurgeAttachmentsPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying cannot help
			log.Error().Err(err).Msg("decode purge payload")
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		var firstErr error
		for _, url := range p.URLs {
			if err := store.Delete(ctx, url); err != nil {
				log.Warn().Err(err).Str("url", url).Msg("purge attachment blob")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return firstErr
	})
}
