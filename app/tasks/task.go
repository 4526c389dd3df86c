package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeProcessFeed TaskType = "process_feed"
	TaskTypeSyncFeed    TaskType = "sync_feed"
)

const (
	DefaultMaxRetries = 3
	maxRetryDelay     = 30 * time.Second
)

// TaskInterface is a unit of work run by the scheduler's workers.
type TaskInterface interface {
	Execute(ctx context.Context) error
	Info() *Task
}

// Task carries the bookkeeping shared by every task type.
type Task struct {
	ID         string
	Type       TaskType
	FeedName   string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func NewTask(taskType TaskType, feedName string) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		FeedName:   feedName,
		MaxRetries: DefaultMaxRetries,
	}
}

func (t *Task) Info() *Task {
	return t
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) Duration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

// Retry records another attempt and returns how long to wait before it.
func (t *Task) Retry() time.Duration {
	t.RetryCount++
	return retryDelay(t.RetryCount)
}

// LogAttrs identifies the task in slog records.
func (t *Task) LogAttrs() []any {
	return []any{"type", string(t.Type), "feed", t.FeedName, "id", t.ID, "retry_count", t.RetryCount}
}

// retryDelay doubles per attempt, capped at 30 seconds.
func retryDelay(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	if retryCount > 6 {
		return maxRetryDelay
	}
	return min(time.Duration(1<<(retryCount-1))*time.Second, maxRetryDelay)
}
