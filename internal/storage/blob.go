// ABOUTME: Store implementation over a single-value key-value backend
// ABOUTME: Handles upsert, delete, detail merges and corrupt-data recovery

package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/logging"
	"github.com/harper/trail/internal/models"
)

// BlobBackend holds the encoded collection as one value.
type BlobBackend interface {
	// Read returns the stored bytes, or nil when nothing has been written.
	Read(ctx context.Context) ([]byte, error)
	// Write atomically replaces the stored bytes with fn(current).
	// If fn returns an error nothing is written.
	Write(ctx context.Context, fn func(current []byte) ([]byte, error)) error
	Close() error
}

// BlobStore implements Store on top of a BlobBackend.
//
// Thread Safety: writes are serialized by a mutex, so interleaved Save calls
// from one process never lose updates.
type BlobStore struct {
	name    string
	backend BlobBackend
	logger  *log.Logger
	mu      sync.Mutex
}

// Compile-time check that BlobStore implements Store.
var _ Store = (*BlobStore)(nil)

// NewBlobStore wraps backend. name identifies the backend in log lines.
func NewBlobStore(name string, backend BlobBackend, logger *log.Logger) *BlobStore {
	return &BlobStore{
		name:    name,
		backend: backend,
		logger:  logging.OrDefault(logger),
	}
}

// errAbort stops a write without touching the stored value.
var errAbort = errors.New("abort write")

// decode returns the stored collection. Malformed data degrades to an empty
// collection; data from a newer schema is an error so it is never overwritten.
func (s *BlobStore) decode(data []byte) (*Collection, error) {
	c, err := DecodeCollection(data)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, ErrUnsupportedVersion) {
		return nil, err
	}
	s.logger.Warn("stored paths are unreadable, starting empty", "backend", s.name, "err", err)
	return &Collection{}, nil
}

func (s *BlobStore) load(ctx context.Context) (*Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.backend.Read(ctx)
	if err != nil {
		return nil, persistence("read", err)
	}
	c, err := s.decode(data)
	if err != nil {
		return nil, persistence("read", err)
	}
	return c, nil
}

// modify runs fn against the current collection and writes the result.
func (s *BlobStore) modify(ctx context.Context, op string, fn func(c *Collection) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var fnErr error
	err := s.backend.Write(ctx, func(current []byte) ([]byte, error) {
		c, err := s.decode(current)
		if err != nil {
			return nil, err
		}
		if fnErr = fn(c); fnErr != nil {
			return nil, errAbort
		}
		return c.Encode()
	})
	if fnErr != nil {
		return fnErr
	}
	return persistence(op, err)
}

// GetAll returns every stored path in insertion order.
func (s *BlobStore) GetAll(ctx context.Context) ([]*models.Path, error) {
	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Clones(), nil
}

// GetByID returns the path with id or a not-found error.
func (s *BlobStore) GetByID(ctx context.Context, id string) (*models.Path, error) {
	c, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := c.Find(id)
	if i < 0 {
		return nil, notFound(id)
	}
	return c.Paths[i].Clone(), nil
}

// Save upserts a finalized path.
func (s *BlobStore) Save(ctx context.Context, path *models.Path) (*models.Path, error) {
	if err := checkSavable(path); err != nil {
		return nil, err
	}
	stored := path.Clone()
	err := s.modify(ctx, "save", func(c *Collection) error {
		c.Upsert(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("path saved", "backend", s.name, "id", path.ID)
	return stored.Clone(), nil
}

// Delete removes the path with id.
func (s *BlobStore) Delete(ctx context.Context, id string) (bool, error) {
	err := s.modify(ctx, "delete", func(c *Collection) error {
		if !c.Remove(id) {
			return notFound(id)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Debug("path deleted", "backend", s.name, "id", id)
	return true, nil
}

// UpdateDetails merges the provided fields into the stored path.
func (s *BlobStore) UpdateDetails(ctx context.Context, id string, details models.Details) (*models.Path, error) {
	var updated *models.Path
	err := s.modify(ctx, "update", func(c *Collection) error {
		i := c.Find(id)
		if i < 0 {
			return notFound(id)
		}
		p := c.Paths[i].Clone()
		p.ApplyDetails(details)
		c.Paths[i] = p
		updated = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Close releases the backend.
func (s *BlobStore) Close() error {
	return s.backend.Close()
}
