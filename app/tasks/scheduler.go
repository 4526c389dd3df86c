package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/feed-reader/app/database"
	"github.com/lysyi3m/feed-reader/app/registry"
	"github.com/robfig/cron/v3"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	DefaultSchedule    = "@every 15m"
	DefaultWorkerCount = 5
	DefaultQueueSize   = 300
	taskTimeout        = 5 * time.Minute
)

type Options struct {
	Schedule    string // cron expression, e.g. "@every 15m" or "*/10 * * * *"
	WorkerCount int
	QueueSize   int
}

type Scheduler struct {
	feedRegistry *registry.Registry
	feedRepo     database.FeedRepository
	itemRepo     database.ItemRepository
	fetcher      Fetcher
	filterer     *registry.Filterer
	schedule     string
	workerCount  int
	cron         *cron.Cron
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	taskQueue    chan TaskInterface
}

func NewScheduler(feedRegistry *registry.Registry, feedRepo database.FeedRepository,
	itemRepo database.ItemRepository, fetcher Fetcher, filterer *registry.Filterer, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = DefaultWorkerCount
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}

	return &Scheduler{
		feedRegistry: feedRegistry,
		feedRepo:     feedRepo,
		itemRepo:     itemRepo,
		fetcher:      fetcher,
		filterer:     filterer,
		schedule:     opts.Schedule,
		workerCount:  opts.WorkerCount,
		cron:         cron.New(),
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, opts.QueueSize),
	}
}

// Start registers every configured feed, starts the workers, queues an
// immediate update and then one per schedule tick.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.enqueueTasks); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.schedule, err)
	}

	s.syncFeeds(s.ctx)

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.enqueueTasks()
	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// NewProcessFeedTask builds a process task wired to the scheduler's
// dependencies.
func (s *Scheduler) NewProcessFeedTask(feedConfig *registry.Config) *ProcessFeedTask {
	return NewProcessFeedTask(feedConfig, s.fetcher, s.filterer, s.feedRepo, s.itemRepo)
}

// RunOnce updates every enabled feed in turn without the worker pool. A
// failing feed is logged and skipped; the number of failures is returned.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.syncFeeds(ctx)

	failed := 0
	for _, feedConfig := range s.feedRegistry.Enabled() {
		task := s.NewProcessFeedTask(feedConfig)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			slog.Error("Feed update failed", "feed", feedConfig.Name, "url", feedConfig.URL, "error", err)
			failed++
		}
	}

	return failed
}

func (s *Scheduler) syncFeeds(ctx context.Context) {
	for _, feedConfig := range s.feedRegistry.All() {
		task := NewSyncFeedTask(feedConfig, s.feedRepo)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			slog.Warn("Failed to register feed", "feed", feedConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	feedConfigs := s.feedRegistry.Enabled()
	if len(feedConfigs) == 0 {
		slog.Debug("No enabled feed configurations found")
		return
	}

	slog.Debug("Scheduling feed updates", "count", len(feedConfigs))

	for _, feedConfig := range feedConfigs {
		if err := s.EnqueueTask(s.NewProcessFeedTask(feedConfig)); err != nil {
			slog.Warn("Failed to enqueue ProcessFeedTask", "feed", feedConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	info := task.Info()
	info.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", append(info.LogAttrs(), "worker_id", workerID, "error", err)...)

	if !info.CanRetry() {
		slog.Error("Task failed after maximum retries", append(info.LogAttrs(), "max_retries", info.MaxRetries, "last_error", err)...)
		return
	}

	delay := info.Retry()

	slog.Warn("Task retry scheduled", append(info.LogAttrs(), "max_retries", info.MaxRetries, "delay", delay.String())...)

	go func() {
		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", info.LogAttrs()...)
			return
		}
		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", append(info.LogAttrs(), "error", retryErr)...)
		}
	}()
}
