package worker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cesargomez89/vibefinder/internal/logger"
)

type fakePurger struct {
	calls atomic.Int32
	err   error
}

func (f *fakePurger) PurgeExpiredCache() (int64, error) {
	f.calls.Add(1)
	return 3, f.err
}

type fakeCleaner struct {
	calls atomic.Int32
}

func (f *fakeCleaner) Cleanup() int {
	f.calls.Add(1)
	return 1
}

func TestWorker_RunOnce(t *testing.T) {
	purger := &fakePurger{}
	cleaner := &fakeCleaner{}
	w := NewWorker(purger, cleaner, time.Minute, logger.Discard())

	w.RunOnce()

	if purger.calls.Load() != 1 {
		t.Errorf("purge calls = %d, want 1", purger.calls.Load())
	}
	if cleaner.calls.Load() != 1 {
		t.Errorf("cleanup calls = %d, want 1", cleaner.calls.Load())
	}
}

func TestWorker_PurgeErrorDoesNotStopCleanup(t *testing.T) {
	purger := &fakePurger{err: errors.New("disk gone")}
	cleaner := &fakeCleaner{}
	w := NewWorker(purger, cleaner, time.Minute, logger.Discard())

	w.RunOnce()

	if cleaner.calls.Load() != 1 {
		t.Errorf("cleanup calls = %d, want 1", cleaner.calls.Load())
	}
}

func TestWorker_NilDependencies(t *testing.T) {
	w := NewWorker(nil, nil, 0, logger.Discard())
	if w.Interval != 5*time.Minute {
		t.Errorf("Interval = %v, want default", w.Interval)
	}
	w.RunOnce()
}

func TestWorker_StartStop(t *testing.T) {
	purger := &fakePurger{}
	w := NewWorker(purger, nil, 10*time.Millisecond, logger.Discard())

	w.Start()
	deadline := time.Now().Add(2 * time.Second)
	for purger.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	if purger.calls.Load() == 0 {
		t.Fatal("worker never ran a maintenance pass")
	}
	after := purger.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if purger.calls.Load() != after {
		t.Error("worker kept running after Stop")
	}
}
