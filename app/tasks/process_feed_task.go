package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/feed"
	"github.com/lysyi3m/feed-reader/app/registry"
)

// ProcessFeedTask fetches one feed, parses it and stores the posts that
// are new and pass the filters, all in one transaction.
type ProcessFeedTask struct {
	Task
	FeedConfig *registry.Config
	fetcher    Fetcher
	filterer   *registry.Filterer
	feedRepo   database.FeedRepository
	itemRepo   database.ItemRepository
}

func NewProcessFeedTask(feedConfig *registry.Config, fetcher Fetcher, filterer *registry.Filterer,
	feedRepo database.FeedRepository, itemRepo database.ItemRepository) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:       NewTask(TaskTypeProcessFeed, feedConfig.Name),
		FeedConfig: feedConfig,
		fetcher:    fetcher,
		filterer:   filterer,
		feedRepo:   feedRepo,
		itemRepo:   itemRepo,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	parser, err := feed.ForDialect(t.FeedConfig.Type)
	if err != nil {
		return fmt.Errorf("failed to select parser: %w", err)
	}

	data, err := t.fetcher.Fetch(ctx, t.FeedConfig.URL, t.FeedConfig.Settings.GetTimeout())
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	posts, err := parser.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	if len(posts) == 0 {
		slog.Info("Task completed", "type", "ProcessFeed", "feed", t.FeedName, "duration", t.Duration(), "total", 0)
		return nil
	}

	fresh := make([]feed.Post, 0, len(posts))
	for _, post := range posts {
		exists, err := t.itemRepo.Exists(ctx, post.GUID)
		if err != nil {
			return fmt.Errorf("failed to check for existing item: %w", err)
		}
		if !exists {
			fresh = append(fresh, post)
		}
	}
	existing := len(posts) - len(fresh)

	kept, filtered := t.filterer.Run(fresh, t.FeedConfig)

	stored, err := t.itemRepo.StorePosts(ctx, t.FeedName, kept)
	if err != nil {
		return fmt.Errorf("failed to store items: %w", err)
	}

	if err := t.feedRepo.MarkFetched(ctx, t.FeedName, time.Now()); err != nil {
		return fmt.Errorf("failed to update feed fetch time: %w", err)
	}

	slog.Info("Task completed",
		"type", "ProcessFeed",
		"feed", t.FeedName,
		"duration", t.Duration(),
		"total", len(posts),
		"existing", existing,
		"filtered", filtered,
		"new", stored)

	return nil
}
