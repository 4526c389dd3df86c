package database

import (
	"context"
	"time"

	"github.com/lysyi3m/feed-reader/app/feed"
)

type FeedRepository interface {
	GetFeed(ctx context.Context, name string) (*Feed, error)
	GetFeeds(ctx context.Context) ([]Feed, error)
	GetFeedCount(ctx context.Context) (int, error)

	UpsertFeed(ctx context.Context, name, url, feedType string) error
	MarkFetched(ctx context.Context, name string, fetchedAt time.Time) error
}

type ItemRepository interface {
	Exists(ctx context.Context, guid string) (bool, error)
	StorePosts(ctx context.Context, feedName string, posts []feed.Post) (int, error)

	GetItems(ctx context.Context, feedName string, limit int) ([]Item, error)
	GetItemCount(ctx context.Context, feedName string) (int, error)
}

var (
	_ FeedRepository = (*SQLFeedRepository)(nil)
	_ ItemRepository = (*SQLItemRepository)(nil)
)
