package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/feed-reader/app/registry"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the HTTP API to queue feed updates.
// Example usage:
//
//	scheduler := NewScheduler(feedRegistry, feedRepo, itemRepo, fetcher, filterer, opts)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(scheduler.NewProcessFeedTask(feedConfig))
type TaskSchedulerInterface interface {
	Start() error
	Stop()
	EnqueueTask(task TaskInterface) error
	NewProcessFeedTask(feedConfig *registry.Config) *ProcessFeedTask
	RunOnce(ctx context.Context) int
}

// Fetcher retrieves raw feed documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}
