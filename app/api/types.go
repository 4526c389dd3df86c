package api

import (
	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/feed"
	"github.com/lysyi3m/feed-reader/app/registry"
	"github.com/lysyi3m/feed-reader/app/tasks"
)

// maxDocumentSize bounds the body accepted by POST /parse.
const maxDocumentSize = 10 << 20

const defaultItemLimit = 50

type Handler struct {
	feedRepo     database.FeedRepository
	itemRepo     database.ItemRepository
	feedRegistry *registry.Registry
	scheduler    tasks.TaskSchedulerInterface
	generator    *Generator
}

type ParseResponse struct {
	Type  string      `json:"type"`
	Posts []feed.Post `json:"posts"`
	Total int         `json:"total"`
}
