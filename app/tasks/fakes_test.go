package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/feed"
)

type fakeFetcher struct {
	mu        sync.Mutex
	documents map[string]string
	errs      map[string]error
	calls     int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	document, ok := f.documents[url]
	if !ok {
		return nil, fmt.Errorf("no document for %s", url)
	}
	return []byte(document), nil
}

type fakeFeedRepo struct {
	mu      sync.Mutex
	feeds   map[string]*database.Feed
	fetched map[string]time.Time
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{
		feeds:   make(map[string]*database.Feed),
		fetched: make(map[string]time.Time),
	}
}

func (r *fakeFeedRepo) GetFeed(ctx context.Context, name string) (*database.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feeds[name], nil
}

func (r *fakeFeedRepo) GetFeeds(ctx context.Context) ([]database.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	feeds := make([]database.Feed, 0, len(r.feeds))
	for _, f := range r.feeds {
		feeds = append(feeds, *f)
	}
	return feeds, nil
}

func (r *fakeFeedRepo) GetFeedCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.feeds), nil
}

func (r *fakeFeedRepo) UpsertFeed(ctx context.Context, name, url, feedType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds[name] = &database.Feed{Name: name, URL: url, Type: feedType}
	return nil
}

func (r *fakeFeedRepo) MarkFetched(ctx context.Context, name string, fetchedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feeds[name]; !ok {
		return fmt.Errorf("feed '%s' not found", name)
	}
	r.fetched[name] = fetchedAt
	return nil
}

type fakeItemRepo struct {
	mu         sync.Mutex
	items      map[string]feed.Post
	storeCalls int
}

func newFakeItemRepo(existing ...string) *fakeItemRepo {
	repo := &fakeItemRepo{items: make(map[string]feed.Post)}
	for _, guid := range existing {
		repo.items[guid] = feed.Post{GUID: guid}
	}
	return repo
}

func (r *fakeItemRepo) Exists(ctx context.Context, guid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[guid]
	return ok, nil
}

func (r *fakeItemRepo) StorePosts(ctx context.Context, feedName string, posts []feed.Post) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeCalls++
	inserted := 0
	for _, post := range posts {
		if _, ok := r.items[post.GUID]; !ok {
			r.items[post.GUID] = post
			inserted++
		}
	}
	return inserted, nil
}

func (r *fakeItemRepo) GetItems(ctx context.Context, feedName string, limit int) ([]database.Item, error) {
	return nil, nil
}

func (r *fakeItemRepo) GetItemCount(ctx context.Context, feedName string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}
