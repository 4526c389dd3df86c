package registry

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/feed-reader/app/feed"
)

var filterFields = []string{"title", "description", "author", "link"}

// Filterer drops posts whose title mentions a buzz word, and applies the
// per-feed include/exclude rules.
type Filterer struct {
	buzzWords []string
}

func NewFilterer(buzzWords []string) *Filterer {
	words := make([]string, 0, len(buzzWords))
	for _, word := range buzzWords {
		if word = strings.TrimSpace(word); word != "" {
			words = append(words, word)
		}
	}
	return &Filterer{buzzWords: words}
}

// Run returns the posts that pass all filters and the number dropped.
func (f *Filterer) Run(posts []feed.Post, feedConfig *Config) ([]feed.Post, int) {
	kept := make([]feed.Post, 0, len(posts))
	for _, post := range posts {
		if excluded, _ := f.Check(post, feedConfig); excluded {
			continue
		}
		kept = append(kept, post)
	}
	return kept, len(posts) - len(kept)
}

func (f *Filterer) Check(post feed.Post, feedConfig *Config) (bool, string) {
	for _, word := range f.buzzWords {
		if f.matchesFilter(post.Title, word) {
			return true, fmt.Sprintf("Excluded by buzz word: title contains '%s'", word)
		}
	}

	if feedConfig == nil {
		return false, ""
	}

	for _, filter := range feedConfig.Filters {
		value := f.getFieldValue(post, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(post feed.Post, field string) string {
	switch field {
	case "title":
		return post.Title
	case "description":
		return post.Description
	case "author":
		return post.Author
	case "link":
		return post.Link
	default:
		return ""
	}
}
