package database

import (
	"time"
)

type Feed struct {
	Name          string // Configuration feed identifier derived from filename
	URL           string
	Type          string // RSS or ATOM
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Item struct {
	ID          int64     `json:"id"`
	FeedName    string    `json:"feed_name"`
	GUID        string    `json:"guid"`
	Link        string    `json:"link,omitempty"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	PubDate     string    `json:"pub_date"`
	CreatedAt   time.Time `json:"created_at"`
}
