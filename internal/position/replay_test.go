// ABOUTME: Tests for the stored-path replay source
// ABOUTME: Covers ordering, restamping, pacing and early stop

package position

import (
	"context"
	"testing"
	"time"

	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/logging"
	"github.com/harper/trail/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayPath(gap time.Duration, n int) *models.Path {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := models.NewPath("replay", start)
	for i := 0; i < n; i++ {
		p.Points = append(p.Points, models.NewSample(float64(i), 0, start.Add(time.Duration(i)*gap)))
	}
	return p
}

func TestReplaySource_PublishesInOrder(t *testing.T) {
	b := bus.New(logging.Discard())
	rec := record(b)

	src := NewReplaySource(b, replayPath(time.Second, 4), logging.Discard())
	opts := DefaultOptions()
	opts.Speed = 1000
	require.NoError(t, src.StartTracking(context.Background(), opts))
	waitDone(t, src.Done())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.samples, 4)
	for i, s := range rec.samples {
		assert.Equal(t, float64(i), s.Latitude)
		assert.Zero(t, s.Timestamp)
	}
	assert.Equal(t, []bool{true, false}, rec.tracking)
}

func TestReplaySource_StopEarly(t *testing.T) {
	b := bus.New(logging.Discard())
	first := make(chan struct{}, 1)
	bus.On(b, TopicChanged, func(models.Sample) {
		select {
		case first <- struct{}{}:
		default:
		}
	})

	src := NewReplaySource(b, replayPath(time.Hour, 3), logging.Discard())
	opts := DefaultOptions()
	opts.Speed = 1
	require.NoError(t, src.StartTracking(context.Background(), opts))

	select {
	case <-first:
	case <-time.After(5 * time.Second):
		t.Fatal("no sample replayed")
	}
	src.StopTracking()
	waitDone(t, src.Done())

	s, err := src.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Latitude)
}

func TestReplaySource_EmptyPath(t *testing.T) {
	b := bus.New(logging.Discard())
	src := NewReplaySource(b, models.NewPath("empty", time.Now()), logging.Discard())

	assert.False(t, src.IsSupported())
	assert.Error(t, src.StartTracking(context.Background(), DefaultOptions()))
}

func TestGap(t *testing.T) {
	a := models.Sample{Timestamp: 1000}
	b := models.Sample{Timestamp: 3000}

	assert.Equal(t, time.Second, gap(a, b, 2))
	assert.Equal(t, time.Duration(0), gap(b, a, 2))
	assert.Equal(t, time.Duration(0), gap(models.Sample{}, b, 1))
}
