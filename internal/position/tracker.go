// ABOUTME: Shared tracking lifecycle for goroutine-driven position sources
// ABOUTME: Handles idempotent start/stop, last-fix tracking and status events

package position

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/apperr"
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/logging"
	"github.com/harper/trail/internal/models"
)

type tracker struct {
	bus    *bus.Bus
	logger *log.Logger

	mu      sync.Mutex
	opts    Options
	cancel  context.CancelFunc
	done    chan struct{}
	last    *models.Sample
	arrived chan struct{}
}

func newTracker(b *bus.Bus, logger *log.Logger) *tracker {
	return &tracker{
		bus:     b,
		logger:  logging.OrDefault(logger),
		opts:    DefaultOptions(),
		arrived: make(chan struct{}),
	}
}

// start runs fn on its own goroutine until it returns or stop is called.
// It is a no-op while already tracking.
func (t *tracker) start(ctx context.Context, opts Options, fn func(ctx context.Context)) {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.opts = opts
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	t.bus.Publish(TopicTrackingStatusChange, TrackingStatusChange{IsTracking: true})

	go func() {
		defer close(done)
		fn(runCtx)
		t.finish(done)
	}()
}

// finish clears tracking state if the run identified by done is still current.
func (t *tracker) finish(done chan struct{}) {
	t.mu.Lock()
	if t.done != done || t.cancel == nil {
		t.mu.Unlock()
		return
	}
	t.cancel()
	t.cancel = nil
	t.mu.Unlock()

	t.bus.Publish(TopicTrackingStatusChange, TrackingStatusChange{IsTracking: false})
}

func (t *tracker) stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	t.bus.Publish(TopicTrackingStatusChange, TrackingStatusChange{IsTracking: false})
}

func (t *tracker) tracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// wait returns a channel closed when the current run ends. Nil when never started.
func (t *tracker) wait() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// emit records s as the latest fix and publishes it.
func (t *tracker) emit(s models.Sample) {
	t.mu.Lock()
	cp := s
	t.last = &cp
	close(t.arrived)
	t.arrived = make(chan struct{})
	t.mu.Unlock()

	t.bus.Publish(TopicChanged, s)
}

// fail publishes err on TopicError.
func (t *tracker) fail(err *apperr.PositionSourceError) {
	t.logger.Warn("position source error", "code", err.Code, "err", err.Message)
	t.bus.Publish(TopicError, err)
}

// current returns the latest fix, waiting up to the configured timeout for one.
func (t *tracker) current(ctx context.Context) (models.Sample, error) {
	t.mu.Lock()
	if t.last != nil {
		s := *t.last
		t.mu.Unlock()
		return s, nil
	}
	arrived := t.arrived
	timeout := t.opts.Timeout
	t.mu.Unlock()

	if timeout <= 0 {
		timeout = DefaultOptions().Timeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-arrived:
		t.mu.Lock()
		s := *t.last
		t.mu.Unlock()
		return s, nil
	case <-timer.C:
		err := &apperr.PositionSourceError{Code: apperr.CodeTimeout, Message: "no position fix before timeout"}
		t.fail(err)
		return models.Sample{}, err
	case <-ctx.Done():
		return models.Sample{}, ctx.Err()
	}
}
