// Package worker runs periodic maintenance for the server: purging expired
// provider cache rows and forgetting idle rate limit buckets.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/cesargomez89/vibefinder/internal/logger"
)

// CachePurger drops expired cache rows. *store.DB satisfies it.
type CachePurger interface {
	PurgeExpiredCache() (int64, error)
}

// VisitorCleaner forgets idle callers. *ratelimit.Limiter satisfies it.
type VisitorCleaner interface {
	Cleanup() int
}

type Worker struct {
	ctx      context.Context
	Cache    CachePurger
	Visitors VisitorCleaner
	Logger   *logger.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	Interval time.Duration
}

// NewWorker returns a stopped worker. Either dependency may be nil.
func NewWorker(cache CachePurger, visitors VisitorCleaner, interval time.Duration, log *logger.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Worker{
		Cache:    cache,
		Visitors: visitors,
		Interval: interval,
		Logger:   log.WithComponent("worker"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *Worker) Start() {
	w.Logger.Info("Starting worker", "interval", w.Interval)

	w.wg.Add(1)
	go w.loop()
}

func (w *Worker) Stop() {
	w.Logger.Info("Stopping worker")
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs one maintenance pass.
func (w *Worker) RunOnce() {
	if w.Cache != nil {
		n, err := w.Cache.PurgeExpiredCache()
		if err != nil {
			w.Logger.Error("Failed to purge expired cache", "error", err)
		} else if n > 0 {
			w.Logger.Debug("Purged expired cache entries", "count", n)
		}
	}

	if w.Visitors != nil {
		if n := w.Visitors.Cleanup(); n > 0 {
			w.Logger.Debug("Forgot idle callers", "count", n)
		}
	}
}
