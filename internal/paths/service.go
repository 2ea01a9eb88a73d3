// ABOUTME: Single entry point composing the recording engine, path store and bus
// ABOUTME: Validates every value crossing the surface and persists finished recordings

package paths

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/bus"
	"github.com/harper/trail/internal/logging"
	"github.com/harper/trail/internal/models"
	"github.com/harper/trail/internal/recording"
	"github.com/harper/trail/internal/schema"
	"github.com/harper/trail/internal/storage"
)

// Module names used in validation errors.
const (
	moduleCaller    = "caller"
	moduleEngine    = "recording"
	moduleStore     = "storage"
	modulePositions = "position"
)

// Option configures a Service.
type Option func(*Service)

// WithEngine uses an existing engine instead of building one.
func WithEngine(e *recording.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithEngineOptions passes options to the engine the service builds.
func WithEngineOptions(opts ...recording.Option) Option {
	return func(s *Service) { s.engineOpts = append(s.engineOpts, opts...) }
}

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// Service is the surface presentation code talks to.
type Service struct {
	bus        *bus.Bus
	store      storage.Store
	engine     *recording.Engine
	engineOpts []recording.Option
	schema     *schema.Validator
	logger     *log.Logger
}

// NewService wires an engine, store and bus together.
func NewService(b *bus.Bus, store storage.Store, opts ...Option) *Service {
	s := &Service{
		bus:    b,
		store:  store,
		schema: schema.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	if s.engine == nil {
		engineOpts := append([]recording.Option{
			recording.WithLogger(s.logger),
			recording.WithSampleCheck(s.checkSample),
		}, s.engineOpts...)
		s.engine = recording.New(b, engineOpts...)
	}
	return s
}

// Engine returns the underlying recording engine.
func (s *Service) Engine() *recording.Engine {
	return s.engine
}

// Bus returns the event bus the service publishes on.
func (s *Service) Bus() *bus.Bus {
	return s.bus
}

func (s *Service) checkSample(sample models.Sample) error {
	return s.schema.Check(&sample, schema.ShapeSample, schema.In(modulePositions, moduleEngine))
}

func (s *Service) checkPathOut(p *models.Path, from string) error {
	return s.schema.Check(p, schema.ShapePath, schema.Out(from, moduleCaller))
}

// StartRecording begins a session. A session already in progress is left
// untouched and (nil, nil) is returned.
func (s *Service) StartRecording() (*models.Path, error) {
	p, ok := s.engine.Start()
	if !ok {
		return nil, nil
	}
	if err := s.checkPathOut(p, moduleEngine); err != nil {
		return nil, err
	}
	return p, nil
}

// StopRecording finalizes the session and saves it. When the finalized path
// fails validation or saving, the error is published on recording/error and
// returned with the path so the caller can retry through SavePath. Returns
// (nil, nil) when idle.
func (s *Service) StopRecording(ctx context.Context) (*models.Path, error) {
	p := s.engine.Stop()
	if p == nil {
		return nil, nil
	}
	if err := s.checkPathOut(p, moduleEngine); err != nil {
		s.logger.Error("finalized recording is invalid", "path", p.ID, "err", err)
		s.bus.Publish(recording.TopicError, err)
		return p, err
	}

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		err = persistenceErr("save", err)
		s.logger.Error("failed to save recording", "path", p.ID, "err", err)
		s.bus.Publish(recording.TopicError, err)
		return p, err
	}
	s.bus.Publish(TopicPathSaved, saved.Clone())
	return saved, nil
}

// CancelRecording discards the session. Returns nil when idle.
func (s *Service) CancelRecording() *models.Path {
	return s.engine.Cancel()
}

// UpdateRecordingDetails edits the in-progress path. Returns (nil, nil) when idle.
func (s *Service) UpdateRecordingDetails(details models.Details) (*models.Path, error) {
	if err := s.schema.Check(&details, schema.ShapeDetails, schema.In(moduleCaller, moduleEngine)); err != nil {
		return nil, err
	}
	p := s.engine.UpdateDetails(details)
	if p == nil {
		return nil, nil
	}
	if err := s.checkPathOut(p, moduleEngine); err != nil {
		return nil, err
	}
	return p, nil
}

// GetCurrentStats returns live stats, or (nil, nil) when idle.
func (s *Service) GetCurrentStats() (*models.Stats, error) {
	stats := s.engine.CurrentStats()
	if stats == nil {
		return nil, nil
	}
	if err := s.schema.Check(stats, schema.ShapeStats, schema.Out(moduleEngine, moduleCaller)); err != nil {
		return nil, err
	}
	return stats, nil
}

// IsRecording reports whether a session is in progress.
func (s *Service) IsRecording() bool {
	return s.engine.IsRecording()
}

// GetAllPaths returns stored paths in storage order.
func (s *Service) GetAllPaths(ctx context.Context) ([]*models.Path, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.schema.CheckAll(all, schema.ShapePath, schema.Out(moduleStore, moduleCaller)); err != nil {
		return nil, err
	}
	return all, nil
}

// GetPathByID returns the stored path with id.
func (s *Service) GetPathByID(ctx context.Context, id string) (*models.Path, error) {
	if err := s.schema.CheckID(id, schema.In(moduleCaller, moduleStore)); err != nil {
		return nil, err
	}
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkPathOut(p, moduleStore); err != nil {
		return nil, err
	}
	return p, nil
}

// SavePath upserts a finalized path and publishes path/saved.
func (s *Service) SavePath(ctx context.Context, p *models.Path) (*models.Path, error) {
	if err := s.schema.Check(p, schema.ShapePath, schema.In(moduleCaller, moduleStore)); err != nil {
		return nil, err
	}
	saved, err := s.store.Save(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.checkPathOut(saved, moduleStore); err != nil {
		return nil, err
	}
	s.bus.Publish(TopicPathSaved, saved.Clone())
	return saved, nil
}

// DeletePath removes a stored path and publishes path/deleted.
func (s *Service) DeletePath(ctx context.Context, id string) (bool, error) {
	if err := s.schema.CheckID(id, schema.In(moduleCaller, moduleStore)); err != nil {
		return false, err
	}
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.logger.Info("path deleted", "path", id)
	s.bus.Publish(TopicPathDeleted, PathDeleted{ID: id})
	return ok, nil
}

// UpdatePathDetails edits a stored path and publishes path/updated.
func (s *Service) UpdatePathDetails(ctx context.Context, id string, details models.Details) (*models.Path, error) {
	c := schema.In(moduleCaller, moduleStore)
	if err := s.schema.CheckID(id, c); err != nil {
		return nil, err
	}
	if err := s.schema.Check(&details, schema.ShapeDetails, c); err != nil {
		return nil, err
	}
	p, err := s.store.UpdateDetails(ctx, id, details)
	if err != nil {
		return nil, err
	}
	if err := s.checkPathOut(p, moduleStore); err != nil {
		return nil, err
	}
	s.bus.Publish(TopicPathUpdated, p.Clone())
	return p, nil
}
