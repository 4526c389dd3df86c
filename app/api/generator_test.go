package api

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/feed"
)

func TestGeneratorRun(t *testing.T) {
	defer func(loc *time.Location) { time.Local = loc }(time.Local)
	time.Local = time.UTC

	f := database.Feed{Name: "news", URL: "https://example.com/rss", Type: "RSS"}
	items := []database.Item{
		{GUID: "https://example.com/1", Title: "Fish & Chips", Link: "https://example.com/1", PubDate: "2025-06-03 10:15:30"},
		{GUID: "abc", Title: "Second", Author: "jane@example.com", PubDate: "not a date"},
	}

	out, err := NewGenerator("test").Run(f, items, "http://localhost:8080/feeds/news")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	xmlStr := string(out)
	if !strings.HasPrefix(xmlStr, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("Expected XML declaration")
	}
	if !strings.Contains(xmlStr, "Fish &amp; Chips") {
		t.Error("Expected escaped title")
	}
	if !strings.Contains(xmlStr, `<guid isPermaLink="true">https://example.com/1</guid>`) {
		t.Error("Expected permalink guid")
	}
	if !strings.Contains(xmlStr, `<guid isPermaLink="false">abc</guid>`) {
		t.Error("Expected non-permalink guid")
	}
	if !strings.Contains(xmlStr, "<pubDate>Tue, 03 Jun 2025 10:15:30 +0000</pubDate>") {
		t.Error("Expected RFC 1123 pubDate")
	}
	if !strings.Contains(xmlStr, "<lastBuildDate>Tue, 03 Jun 2025 10:15:30 +0000</lastBuildDate>") {
		t.Error("Expected lastBuildDate from newest item")
	}
	if !strings.Contains(xmlStr, `href="http://localhost:8080/feeds/news"`) {
		t.Error("Expected self link")
	}
}

func TestGeneratorOutputParsesBack(t *testing.T) {
	defer func(loc *time.Location) { time.Local = loc }(time.Local)
	time.Local = time.UTC

	items := []database.Item{
		{GUID: "g-1", Title: "One", Link: "https://example.com/1", Description: "<p>body</p>", PubDate: "2025-06-03 10:15:30"},
		{GUID: "g-2", Title: "Two", PubDate: "2025-06-02 09:00:00"},
	}

	out, err := NewGenerator("test").Run(database.Feed{Name: "news"}, items, "")
	if err != nil {
		t.Fatal(err)
	}

	var doc rssDocument
	if err := xml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Expected well-formed XML, got: %v", err)
	}

	parser, err := feed.ForDialect(feed.DialectRSS)
	if err != nil {
		t.Fatal(err)
	}
	posts, err := parser.Parse(out)
	if err != nil {
		t.Fatalf("Expected generated feed to parse, got: %v", err)
	}

	if len(posts) != len(items) {
		t.Fatalf("Expected %d posts, got: %d", len(items), len(posts))
	}
	for i, post := range posts {
		if post.GUID != items[i].GUID || post.Title != items[i].Title || post.PubDate != items[i].PubDate {
			t.Errorf("Expected post %d to match stored item, got: %+v", i, post)
		}
	}
	if posts[0].Description != "<p>body</p>" {
		t.Errorf("Expected description to survive escaping, got: %s", posts[0].Description)
	}
}
