// ABOUTME: Prometheus collectors for recording sessions and stored paths
// ABOUTME: Fed entirely by bus subscriptions so the engine stays metrics-free

package metrics

import (
	"net/http"
	"sync"

	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/paths"
	"github.com/harper/trail/internal/recording"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Session outcomes.
const (
	OutcomeStarted   = "started"
	OutcomeCompleted = "completed"
	OutcomeCanceled  = "canceled"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// sessions counts sessions by outcome.
	// Labels: outcome (started, completed, canceled)
	sessions *prometheus.CounterVec

	// points counts ingested samples.
	points prometheus.Counter

	// distance records the total distance of each completed session.
	distance prometheus.Histogram

	// errors counts rejected samples and failed saves.
	errors prometheus.Counter

	// deleted counts stored paths removed.
	deleted prometheus.Counter
}

// New creates collectors registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trail",
			Subsystem: "recording",
			Name:      "sessions_total",
			Help:      "Recording sessions by outcome",
		}, []string{"outcome"}),
		points: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "trail",
			Subsystem: "recording",
			Name:      "points_total",
			Help:      "Position samples ingested into recordings",
		}),
		distance: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trail",
			Subsystem: "recording",
			Name:      "distance_meters",
			Help:      "Total distance of completed recordings in meters",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 25000, 50000, 100000},
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "trail",
			Subsystem: "recording",
			Name:      "errors_total",
			Help:      "Rejected samples and failed saves",
		}),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "trail",
			Subsystem: "paths",
			Name:      "deleted_total",
			Help:      "Stored paths deleted",
		}),
	}
}

// Attach subscribes the collectors to b. The returned func detaches them.
func (m *Metrics) Attach(b *bus.Bus) bus.Unsubscribe {
	unsubs := []bus.Unsubscribe{
		bus.On(b, recording.TopicStarted, func(*models.Path) {
			m.sessions.WithLabelValues(OutcomeStarted).Inc()
		}),
		bus.On(b, recording.TopicCompleted, func(p *models.Path) {
			m.sessions.WithLabelValues(OutcomeCompleted).Inc()
			m.distance.Observe(p.TotalDistance)
		}),
		bus.On(b, recording.TopicCanceled, func(*models.Path) {
			m.sessions.WithLabelValues(OutcomeCanceled).Inc()
		}),
		bus.On(b, recording.TopicPointAdded, func(recording.PointAdded) {
			m.points.Inc()
		}),
		b.Subscribe(recording.TopicError, func(any) {
			m.errors.Inc()
		}),
		bus.On(b, paths.TopicPathDeleted, func(paths.PathDeleted) {
			m.deleted.Inc()
		}),
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, u := range unsubs {
				u()
			}
		})
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
