package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/timetable-cli/internal/core/domain"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driven"
	"github.com/custodia-labs/timetable-cli/internal/core/ports/driving"
	"github.com/custodia-labs/timetable-cli/internal/logger"
)

// Ensure CrawlOrchestrator implements the interface.
var _ driving.CrawlService = (*CrawlOrchestrator)(nil)

// CrawlOrchestrator drives a crawl: it fetches pages, hands them to the
// parser and follows the references the parser enqueues, until no page is
// left. Pages are visited concurrently, bounded by the worker count.
type CrawlOrchestrator struct {
	fetcher driven.PageFetcher
	parser  driven.PageParser
	store   driven.TimetableStore
	workers int

	// Status tracking
	mu     sync.RWMutex
	status *driving.CrawlStatus
}

// NewCrawlOrchestrator creates a new crawl orchestrator.
// The store is optional; without one, results are returned but not kept.
func NewCrawlOrchestrator(
	fetcher driven.PageFetcher,
	parser driven.PageParser,
	store driven.TimetableStore,
	workers int,
) *CrawlOrchestrator {
	if workers < 1 {
		workers = 1
	}
	return &CrawlOrchestrator{
		fetcher: fetcher,
		parser:  parser,
		store:   store,
		workers: workers,
	}
}

// crawl is the state of one running crawl.
type crawl struct {
	ctx    context.Context
	cancel context.CancelFunc
	ds     *domain.Dataset
	sem    chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	visited map[domain.PageRef]bool
	fatal   error
}

// Crawl visits every page reachable from root and stores the result.
//
// A page that fails to parse is logged and counted, and the crawl goes on.
// A page that cannot be fetched aborts the whole crawl.
func (o *CrawlOrchestrator) Crawl(ctx context.Context, root domain.PageRef) (*domain.CrawlResult, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root reference", domain.ErrInvalidInput)
	}
	if err := o.begin(root); err != nil {
		return nil, err
	}
	defer o.end()

	run := domain.CrawlRun{
		ID:        uuid.New().String(),
		Root:      root,
		StartedAt: time.Now(),
	}
	logger.Info("Starting crawl of %s", root)

	c := &crawl{
		ds:      domain.NewDataset(),
		sem:     make(chan struct{}, o.workers),
		visited: make(map[domain.PageRef]bool),
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	defer c.cancel()

	o.enqueue(c, root)
	c.wg.Wait()

	if c.fatal != nil {
		return nil, fmt.Errorf("crawl %s: %w", root, c.fatal)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("crawl %s: %w", root, err)
	}

	o.parser.Normalise(c.ds)
	tt := c.ds.Snapshot()

	status, _ := o.Status(ctx)
	run.FinishedAt = time.Now()
	run.Pages = status.PagesVisited
	run.FailedPages = status.PagesFailed
	run.UnrecognizedPages = status.PagesUnrecognized
	run.Lessons = len(tt.Lessons)

	if o.store != nil {
		if err := o.store.SaveRun(ctx, run, tt); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	logger.Info("Crawl complete: %d pages, %d lessons, %d failed, %d unrecognized",
		run.Pages, run.Lessons, run.FailedPages, run.UnrecognizedPages)
	return &domain.CrawlResult{Run: run, Timetable: tt}, nil
}

// enqueue schedules a visit unless the page was already scheduled.
func (o *CrawlOrchestrator) enqueue(c *crawl, ref domain.PageRef) {
	c.mu.Lock()
	if c.visited[ref] {
		c.mu.Unlock()
		return
	}
	c.visited[ref] = true
	c.mu.Unlock()

	o.updateStatus(func(s *driving.CrawlStatus) { s.PagesQueued++ })
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer o.updateStatus(func(s *driving.CrawlStatus) { s.PagesQueued-- })

		select {
		case c.sem <- struct{}{}:
		case <-c.ctx.Done():
			return
		}
		defer func() { <-c.sem }()

		o.visit(c, ref)
	}()
}

// visit fetches and processes one page.
func (o *CrawlOrchestrator) visit(c *crawl, ref domain.PageRef) {
	if c.ctx.Err() != nil {
		return
	}

	body, err := o.fetcher.Fetch(c.ctx, ref)
	if err != nil {
		c.mu.Lock()
		if c.fatal == nil && !errors.Is(err, context.Canceled) {
			c.fatal = err
		}
		c.mu.Unlock()
		c.cancel()
		return
	}

	logger.Debug("Processing %s", ref)
	dialect, err := o.parser.Process(c.ctx, domain.Page{Ref: ref, Body: body}, c.ds, func(next domain.PageRef) {
		o.enqueue(c, next)
	})
	if c.ctx.Err() != nil {
		return
	}

	o.updateStatus(func(s *driving.CrawlStatus) {
		s.PagesVisited++
		if err != nil {
			s.PagesFailed++
		}
	})
	switch {
	case err != nil:
		logger.Warn("Failed to process %s: %v", ref, err)
	case dialect == domain.DialectUnknown:
		logger.Warn("Skipping %s: %v", ref, domain.ErrUnrecognizedDialect)
		o.updateStatus(func(s *driving.CrawlStatus) { s.PagesUnrecognized++ })
	default:
		logger.Debug("Processed %s as %s", ref, dialect)
	}
}

// Status returns the progress of the running crawl.
func (o *CrawlOrchestrator) Status(_ context.Context) (*driving.CrawlStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.status == nil {
		// Not running - return idle status
		return &driving.CrawlStatus{}, nil
	}
	// Return a copy to avoid race conditions
	status := *o.status
	return &status, nil
}

// begin marks a crawl as running.
func (o *CrawlOrchestrator) begin(root domain.PageRef) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != nil {
		return fmt.Errorf("%w: %s", domain.ErrCrawlInProgress, o.status.Root)
	}
	o.status = &driving.CrawlStatus{Root: root, Running: true}
	return nil
}

// end clears the crawl status.
func (o *CrawlOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = nil
}

func (o *CrawlOrchestrator) updateStatus(fn func(*driving.CrawlStatus)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil {
		fn(o.status)
	}
}
