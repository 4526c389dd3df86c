package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lysyi3m/feed-reader/app/feed"
)

type SQLItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *SQLItemRepository {
	return &SQLItemRepository{db: db}
}

func (r *SQLItemRepository) Exists(ctx context.Context, guid string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feed_items WHERE guid = ?`, guid).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return count != 0, nil
}

// StorePosts inserts posts in a single transaction. Posts whose guid is
// already stored are skipped; the number of inserted rows is returned.
func (r *SQLItemRepository) StorePosts(ctx context.Context, feedName string, posts []feed.Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO feed_items (feed_name, guid, link, author, title, description, pub_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (guid) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, post := range posts {
		result, err := stmt.ExecContext(ctx, feedName, post.GUID,
			nullString(post.Link), nullString(post.Author), nullString(post.Title),
			nullString(post.Description), post.PubDate)
		if err != nil {
			return 0, fmt.Errorf("failed to store item %s: %w", post.GUID, err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			inserted += int(rows)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit items: %w", err)
	}

	return inserted, nil
}

// GetItems returns the newest items of a feed; limit <= 0 returns all.
func (r *SQLItemRepository) GetItems(ctx context.Context, feedName string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, feed_name, guid, COALESCE(link, ''), COALESCE(author, ''),
		       COALESCE(title, ''), COALESCE(description, ''), pub_date, created_at
		FROM feed_items
		WHERE feed_name = ?
		ORDER BY pub_date DESC, id DESC
		LIMIT ?
	`, feedName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID, &item.FeedName, &item.GUID, &item.Link, &item.Author,
			&item.Title, &item.Description, &item.PubDate, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func (r *SQLItemRepository) GetItemCount(ctx context.Context, feedName string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feed_items WHERE feed_name = ?`, feedName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
