package api

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/feed"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	SelfLink      rssLink   `xml:"atom:link"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Generator     string    `xml:"generator"`
	Items         []rssItem `xml:"item"`
}

type rssLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssItem struct {
	GUID        rssGUID `xml:"guid"`
	Title       string  `xml:"title,omitempty"`
	Link        string  `xml:"link,omitempty"`
	Description string  `xml:"description,omitempty"`
	Author      string  `xml:"author,omitempty"`
	PubDate     string  `xml:"pubDate,omitempty"`
}

// Generator renders stored items back into an RSS 2.0 document.
type Generator struct {
	version string
}

func NewGenerator(version string) *Generator {
	return &Generator{version: version}
}

func (g *Generator) Run(f database.Feed, items []database.Item, selfLink string) ([]byte, error) {
	lastBuildDate := time.Now().In(time.Local)
	if len(items) > 0 {
		if published, err := parsePubDate(items[0].PubDate); err == nil {
			lastBuildDate = published
		}
	}

	doc := rssDocument{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         f.Name,
			Link:          f.URL,
			Description:   fmt.Sprintf("Normalized %s feed from %s", f.Type, f.URL),
			SelfLink:      rssLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: lastBuildDate.Format(time.RFC1123Z),
			Generator:     "feed-reader/" + g.version,
			Items:         make([]rssItem, 0, len(items)),
		},
	}

	for _, item := range items {
		doc.Channel.Items = append(doc.Channel.Items, g.item(item))
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render RSS: %w", err)
	}

	return append([]byte(xml.Header), out...), nil
}

func (g *Generator) item(item database.Item) rssItem {
	out := rssItem{
		GUID:        rssGUID{IsPermaLink: isURL(item.GUID), Value: item.GUID},
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		Author:      item.Author,
	}

	if published, err := parsePubDate(item.PubDate); err == nil {
		out.PubDate = published.Format(time.RFC1123Z)
	}

	return out
}

func parsePubDate(value string) (time.Time, error) {
	return time.ParseInLocation(feed.PubDateLayout, value, time.Local)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
