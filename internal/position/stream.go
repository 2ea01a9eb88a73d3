// ABOUTME: Position source reading newline-delimited JSON samples
// ABOUTME: Feeds recordings from stdin, a file, or a GPS daemon pipe

package position

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/apperr"
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/models"
)

// maxLineBytes caps a single JSON line.
const maxLineBytes = 1 << 20

// StreamSource publishes one sample per JSON line read from r.
// The stream ends tracking at EOF and cannot be restarted afterwards.
type StreamSource struct {
	*tracker
	r io.Reader

	mu       sync.Mutex
	consumed bool
}

// Compile-time check that StreamSource implements Source.
var _ Source = (*StreamSource)(nil)

// NewStreamSource reads samples from r.
func NewStreamSource(b *bus.Bus, r io.Reader, logger *log.Logger) *StreamSource {
	return &StreamSource{tracker: newTracker(b, logger), r: r}
}

// IsSupported reports whether there is anything to read.
func (s *StreamSource) IsSupported() bool {
	return s.r != nil
}

// RequestPermission always grants access to a readable stream.
func (s *StreamSource) RequestPermission(_ context.Context) (bool, error) {
	if !s.IsSupported() {
		err := &apperr.PositionSourceError{Code: apperr.CodeNotSupported, Message: "no input stream"}
		s.fail(err)
		return false, err
	}
	s.bus.Publish(TopicPermissionChange, PermissionChange{Granted: true})
	return true, nil
}

// StartTracking begins reading lines in the background.
func (s *StreamSource) StartTracking(ctx context.Context, opts Options) error {
	if !s.IsSupported() {
		return &apperr.PositionSourceError{Code: apperr.CodeNotSupported, Message: "no input stream"}
	}
	if s.tracking() {
		return nil
	}

	s.mu.Lock()
	if s.consumed {
		s.mu.Unlock()
		return &apperr.PositionSourceError{Code: apperr.CodeStartFailed, Message: "input stream already consumed"}
	}
	s.consumed = true
	s.mu.Unlock()

	s.start(ctx, opts, s.read)
	return nil
}

// StopTracking stops publishing. A read blocked on the stream returns on its next line.
func (s *StreamSource) StopTracking() {
	s.stop()
}

// CurrentPosition returns the latest sample read.
func (s *StreamSource) CurrentPosition(ctx context.Context) (models.Sample, error) {
	return s.current(ctx)
}

// Done is closed when the background reader exits.
func (s *StreamSource) Done() <-chan struct{} {
	return s.wait()
}

func (s *StreamSource) read(ctx context.Context) {
	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		sample, err := ParseSample([]byte(text))
		if err != nil {
			s.fail(&apperr.PositionSourceError{
				Code:    apperr.CodePositionUnavailable,
				Message: fmt.Sprintf("line %d", line),
				Cause:   err,
			})
			continue
		}
		s.emit(sample)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		s.fail(&apperr.PositionSourceError{Code: apperr.CodePositionUnavailable, Message: "read input", Cause: err})
	}
}

// ParseSample decodes one JSON sample and checks its coordinates.
// Both {"latitude":..,"longitude":..} and the short {"lat":..,"lng":..} forms are accepted.
func ParseSample(data []byte) (models.Sample, error) {
	var raw struct {
		models.Sample
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
		Lon *float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Sample{}, fmt.Errorf("decode sample: %w", err)
	}
	s := raw.Sample
	if raw.Lat != nil {
		s.Latitude = *raw.Lat
	}
	if raw.Lng != nil {
		s.Longitude = *raw.Lng
	} else if raw.Lon != nil {
		s.Longitude = *raw.Lon
	}
	if err := models.ValidateCoordinates(s.Latitude, s.Longitude); err != nil {
		return models.Sample{}, err
	}
	return s, nil
}
