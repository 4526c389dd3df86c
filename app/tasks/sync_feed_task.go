package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/registry"
)

// SyncFeedTask registers a configured feed in the database.
type SyncFeedTask struct {
	Task
	FeedConfig *registry.Config
	feedRepo   database.FeedRepository
}

func NewSyncFeedTask(feedConfig *registry.Config, feedRepo database.FeedRepository) *SyncFeedTask {
	return &SyncFeedTask{
		Task:       NewTask(TaskTypeSyncFeed, feedConfig.Name),
		FeedConfig: feedConfig,
		feedRepo:   feedRepo,
	}
}

func (t *SyncFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.feedRepo.UpsertFeed(ctx, t.FeedConfig.Name, t.FeedConfig.URL, t.FeedConfig.Type)
	if err != nil {
		return fmt.Errorf("failed to sync feed config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncFeed",
		"feed", t.FeedName,
		"duration", t.Duration())

	return nil
}
