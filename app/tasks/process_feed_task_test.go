package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/lysyi3m/feed-reader/app/feed"
	"github.com/lysyi3m/feed-reader/app/registry"
)

const testRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Already stored</title>
      <guid>old</guid>
    </item>
    <item>
      <title>All about Blockchain</title>
      <guid>buzz</guid>
    </item>
    <item>
      <title>Fresh post</title>
      <guid>new</guid>
      <pubDate>Tue, 03 Jun 2025 10:15:30 +0000</pubDate>
    </item>
  </channel>
</rss>`

func testConfig(feedType string) *registry.Config {
	return &registry.Config{
		Name:     "news",
		URL:      "https://example.com/rss",
		Type:     feedType,
		Settings: registry.Settings{Enabled: true},
	}
}

func TestProcessFeedTaskStoresNewPosts(t *testing.T) {
	ctx := context.Background()
	fetcher := &fakeFetcher{documents: map[string]string{"https://example.com/rss": testRSS}}
	feedRepo := newFakeFeedRepo()
	itemRepo := newFakeItemRepo("old")
	feedRepo.UpsertFeed(ctx, "news", "https://example.com/rss", "RSS")

	task := NewProcessFeedTask(testConfig("RSS"), fetcher, registry.NewFilterer([]string{"blockchain"}), feedRepo, itemRepo)
	task.Start()

	if err := task.Execute(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if _, ok := itemRepo.items["new"]; !ok {
		t.Error("Expected new post to be stored")
	}
	if _, ok := itemRepo.items["buzz"]; ok {
		t.Error("Expected buzz word post to be filtered out")
	}
	if len(itemRepo.items) != 2 {
		t.Errorf("Expected 2 stored items, got: %d", len(itemRepo.items))
	}
	if itemRepo.items["new"].PubDate != "2025-06-03 10:15:30" {
		t.Errorf("Expected normalized pub date, got: %s", itemRepo.items["new"].PubDate)
	}
	if _, ok := feedRepo.fetched["news"]; !ok {
		t.Error("Expected feed to be marked fetched")
	}
}

func TestProcessFeedTaskUnknownTypeSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}

	task := NewProcessFeedTask(testConfig("JSONFEED"), fetcher, registry.NewFilterer(nil), newFakeFeedRepo(), newFakeItemRepo())
	err := task.Execute(context.Background())

	if !errors.Is(err, feed.ErrUnknownDialect) {
		t.Errorf("Expected ErrUnknownDialect, got: %v", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("Expected no fetch for unknown dialect, got %d calls", fetcher.calls)
	}
}

func TestProcessFeedTaskFetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := &fakeFetcher{errs: map[string]error{"https://example.com/rss": fetchErr}}

	task := NewProcessFeedTask(testConfig("RSS"), fetcher, registry.NewFilterer(nil), newFakeFeedRepo(), newFakeItemRepo())
	err := task.Execute(context.Background())

	if !errors.Is(err, fetchErr) {
		t.Errorf("Expected fetch error to be wrapped, got: %v", err)
	}
}

func TestProcessFeedTaskMalformedDocument(t *testing.T) {
	fetcher := &fakeFetcher{documents: map[string]string{"https://example.com/rss": "<rss><channel>"}}
	itemRepo := newFakeItemRepo()

	task := NewProcessFeedTask(testConfig("RSS"), fetcher, registry.NewFilterer(nil), newFakeFeedRepo(), itemRepo)
	err := task.Execute(context.Background())

	if !errors.Is(err, feed.ErrMalformedDocument) {
		t.Errorf("Expected ErrMalformedDocument, got: %v", err)
	}
	if itemRepo.storeCalls != 0 {
		t.Error("Expected nothing to be stored")
	}
}

func TestProcessFeedTaskEmptyFeed(t *testing.T) {
	fetcher := &fakeFetcher{documents: map[string]string{"https://example.com/rss": "<rss><channel/></rss>"}}
	feedRepo := newFakeFeedRepo()
	itemRepo := newFakeItemRepo()

	task := NewProcessFeedTask(testConfig("RSS"), fetcher, registry.NewFilterer(nil), feedRepo, itemRepo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if itemRepo.storeCalls != 0 {
		t.Error("Expected no store call for an empty feed")
	}
}

func TestProcessFeedTaskCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	task := NewProcessFeedTask(testConfig("RSS"), fetcher, registry.NewFilterer(nil), newFakeFeedRepo(), newFakeItemRepo())

	if err := task.Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if fetcher.calls != 0 {
		t.Error("Expected no fetch after cancellation")
	}
}
