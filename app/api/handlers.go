package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/feed-reader/app/cfg"
	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/feed"
	"github.com/lysyi3m/feed-reader/app/registry"
	"github.com/lysyi3m/feed-reader/app/tasks"
)

func NewHandler(feedRegistry *registry.Registry, feedRepo database.FeedRepository,
	itemRepo database.ItemRepository, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		feedRepo:     feedRepo,
		itemRepo:     itemRepo,
		feedRegistry: feedRegistry,
		scheduler:    scheduler,
		generator:    NewGenerator(cfg.GetVersion()),
	}
}

// GetFeed republishes the stored items of a feed as RSS 2.0.
func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	f, err := h.feedRepo.GetFeed(ctx, name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if f == nil {
		c.Status(http.StatusNotFound)
		return
	}

	items, err := h.itemRepo.GetItems(ctx, name, defaultItemLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	selfLink := fmt.Sprintf("%s://%s/feeds/%s", scheme, c.Request.Host, name)

	rss, err := h.generator.Run(*f, items, selfLink)
	if err != nil {
		slog.Error("RSS generation error", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Header("X-Feed-Name", name)
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(c.Request.Context()); err == nil {
		health["feeds"] = feedCount
	}

	health["loaded_configurations"] = h.feedRegistry.Count()

	c.JSON(http.StatusOK, health)
}

// ParseDocument parses the request body with the dialect named by the
// type query parameter, sniffing it from the document when omitted.
func (h *Handler) ParseDocument(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Failed to read document", "details": err.Error()})
		return
	}

	code := c.Query("type")
	if code == "" {
		code, err = feed.DetectDialect(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown feed dialect", "details": err.Error(), "supported": feed.Dialects()})
			return
		}
	}

	parser, err := feed.ForDialect(code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown feed dialect", "details": err.Error(), "supported": feed.Dialects()})
		return
	}

	posts, err := parser.Parse(data)
	if err != nil {
		if errors.Is(err, feed.ErrMalformedDocument) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Malformed feed document", "details": err.Error()})
			return
		}
		slog.Error("Parse error", "type", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse document"})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Type:  code,
		Posts: posts,
		Total: len(posts),
	})
}

func (h *Handler) APIListFeeds(c *gin.Context) {
	ctx := c.Request.Context()

	feeds, err := h.feedRepo.GetFeeds(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]map[string]interface{}, 0, len(feeds))

	for _, f := range feeds {
		feedInfo := map[string]interface{}{
			"name":            f.Name,
			"url":             f.URL,
			"type":            f.Type,
			"last_fetched_at": f.LastFetchedAt,
			"updated_at":      f.UpdatedAt,
		}

		if feedConfig, err := h.feedRegistry.Get(f.Name); err == nil {
			feedInfo["enabled"] = feedConfig.Settings.Enabled
			feedInfo["filters"] = len(feedConfig.Filters)
		}

		if itemCount, err := h.itemRepo.GetItemCount(ctx, f.Name); err == nil {
			feedInfo["item_count"] = itemCount
		}

		result = append(result, feedInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"feeds": result,
		"total": len(result),
	})
}

func (h *Handler) APIGetFeedItems(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	limit := defaultItemLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	f, err := h.feedRepo.GetFeed(ctx, name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found in database"})
		return
	}

	items, err := h.itemRepo.GetItems(ctx, name, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feed":  name,
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) APIRefreshFeed(c *gin.Context) {
	name := c.Param("name")

	feedConfig, err := h.feedRegistry.Get(name)
	if err != nil {
		slog.Error("Feed configuration not found", "feed", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	f, err := h.feedRepo.GetFeed(c.Request.Context(), name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found in database"})
		return
	}

	task := h.scheduler.NewProcessFeedTask(feedConfig)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing process task", "feed", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue process task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Feed update enqueued",
		"feed": gin.H{
			"name": name,
			"url":  feedConfig.URL,
			"type": feedConfig.Type,
		},
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}
