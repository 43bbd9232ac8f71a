package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
	"github.com/custodia-labs/timetable-cli/internal/logger"
)

var _ driving.Scheduler = (*Scheduler)(nil)

// DefaultCheckInterval is the longest the scheduler sleeps between checks.
const DefaultCheckInterval = time.Minute

// Scheduler re-crawls one timetable export at a fixed interval, backing off
// after failures.
type Scheduler struct {
	crawler driving.CrawlService
	tick    time.Duration

	mu       sync.Mutex
	job      domain.RecrawlJob
	onResult func(domain.RecrawlAttempt)
	stop     chan struct{}
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewScheduler creates a scheduler that crawls root every interval. The
// first crawl starts as soon as Start is called.
func NewScheduler(crawler driving.CrawlService, root domain.PageRef, interval time.Duration) *Scheduler {
	tick := DefaultCheckInterval
	if interval > 0 && interval < tick {
		tick = interval
	}
	return &Scheduler{
		crawler: crawler,
		tick:    tick,
		job:     domain.RecrawlJob{Root: root, Interval: interval},
		now:     time.Now,
	}
}

// OnResult registers fn to receive every attempt. It runs on the scheduler
// goroutine.
func (s *Scheduler) OnResult(fn func(domain.RecrawlAttempt)) {
	s.mu.Lock()
	s.onResult = fn
	s.mu.Unlock()
}

// Job returns a snapshot of the job state.
func (s *Scheduler) Job() domain.RecrawlJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

// Start blocks, crawling whenever the job is due, until Stop is called or
// ctx ends. Calling Start on a running scheduler returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	s.stop = stop
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		s.crawlIfDue(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
		}
	}
}

// Stop ends the loop and waits for an in-flight crawl to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop == nil {
		return nil
	}

	close(stop)
	s.wg.Wait()
	return nil
}

func (s *Scheduler) crawlIfDue(ctx context.Context) {
	s.mu.Lock()
	due := s.job.Due(s.now())
	root := s.job.Root
	s.mu.Unlock()
	if !due || ctx.Err() != nil {
		return
	}

	attempt := domain.RecrawlAttempt{Root: root, Started: s.now()}
	result, err := s.crawler.Crawl(ctx, root)
	attempt.Ended = s.now()
	if err != nil {
		attempt.Err = err.Error()
	} else {
		attempt.RunID = result.Run.ID
		attempt.Lessons = result.Run.Lessons
	}

	s.mu.Lock()
	s.job.Record(attempt)
	next, failures := s.job.NextStart, s.job.Failures
	onResult := s.onResult
	s.mu.Unlock()

	if err != nil {
		logger.Warn("scheduled crawl of %s failed (%d in a row), retrying at %s: %v",
			root, failures, next.Format(time.TimeOnly), err)
	} else {
		logger.Debug("scheduled crawl of %s stored run %s, next at %s", root, attempt.RunID, next.Format(time.TimeOnly))
	}
	if onResult != nil {
		onResult(attempt)
	}
}
