package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SQLFeedRepository struct {
	db *sql.DB
}

func NewFeedRepository(db *sql.DB) *SQLFeedRepository {
	return &SQLFeedRepository{db: db}
}

func (r *SQLFeedRepository) UpsertFeed(ctx context.Context, name, url, feedType string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (name, url, feed_type)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			url = excluded.url,
			feed_type = excluded.feed_type,
			updated_at = CURRENT_TIMESTAMP
	`, name, url, feedType)
	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}

	return nil
}

func (r *SQLFeedRepository) MarkFetched(ctx context.Context, name string, fetchedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE feeds
		SET last_fetched_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, fetchedAt.UTC(), name)
	if err != nil {
		return fmt.Errorf("failed to mark feed fetched: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("feed '%s' not found", name)
	}

	return nil
}

// GetFeed returns nil without error when the feed is not registered.
func (r *SQLFeedRepository) GetFeed(ctx context.Context, name string) (*Feed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, url, feed_type, last_fetched_at, created_at, updated_at
		FROM feeds
		WHERE name = ?
	`, name)

	feed, err := scanFeed(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return feed, nil
}

func (r *SQLFeedRepository) GetFeeds(ctx context.Context) ([]Feed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, url, feed_type, last_fetched_at, created_at, updated_at
		FROM feeds
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get feeds: %w", err)
	}
	defer rows.Close()

	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}

	return feeds, nil
}

func (r *SQLFeedRepository) GetFeedCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feeds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feeds: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*Feed, error) {
	var feed Feed
	var lastFetchedAt sql.NullTime

	err := row.Scan(&feed.Name, &feed.URL, &feed.Type, &lastFetchedAt, &feed.CreatedAt, &feed.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastFetchedAt.Valid {
		feed.LastFetchedAt = &lastFetchedAt.Time
	}

	return &feed, nil
}
