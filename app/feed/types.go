package feed

import (
	"time"
)

// PubDateLayout is the fixed rendering of Post.PubDate.
const PubDateLayout = "2006-01-02 15:04:05"

// Post is one normalized feed entry. Empty strings mean the source
// document did not provide the field; GUID and PubDate are always set.
type Post struct {
	GUID        string `json:"guid"`
	Link        string `json:"link,omitempty"`
	Author      string `json:"author,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	PubDate     string `json:"pub_date"`
}

// PublishedAt reads PubDate back as a wall-clock time in time.Local.
func (p Post) PublishedAt() (time.Time, error) {
	return time.ParseInLocation(PubDateLayout, p.PubDate, time.Local)
}
