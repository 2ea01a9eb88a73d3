// ABOUTME: Versioned encoding of the single "paths" collection
// ABOUTME: Shared by the key-value backends that store the collection as one value

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/harper/trail/internal/models"
)

// CollectionName is the name of the persisted path collection.
const CollectionName = "paths"

// envelope is the persisted layout: {"version":1,"paths":[...]}.
// A bare JSON array is read as version 0.
type envelope struct {
	Version int            `json:"version"`
	Paths   []*models.Path `json:"paths"`
}

// Collection is the decoded, ordered set of stored paths.
type Collection struct {
	Paths []*models.Path
}

// DecodeCollection parses persisted bytes. Empty input is an empty collection.
func DecodeCollection(data []byte) (*Collection, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Collection{}, nil
	}

	if data[0] == '[' {
		var legacy []*models.Path
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("decode legacy collection: %w", err)
		}
		return newCollection(legacy)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if env.Version > models.SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return newCollection(env.Paths)
}

func newCollection(paths []*models.Path) (*Collection, error) {
	out := make([]*models.Path, 0, len(paths))
	for i, p := range paths {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("decode collection: record %d has no id", i)
		}
		if p.Points == nil {
			p.Points = []models.Sample{}
		}
		out = append(out, p)
	}
	return &Collection{Paths: out}, nil
}

// Encode serializes the collection at the current schema version.
func (c *Collection) Encode() ([]byte, error) {
	paths := c.Paths
	if paths == nil {
		paths = []*models.Path{}
	}
	return json.Marshal(envelope{Version: models.SchemaVersion, Paths: paths})
}

// Find returns the index of the path with id, or -1.
func (c *Collection) Find(id string) int {
	for i, p := range c.Paths {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Upsert replaces the path with the same id in place, or appends it.
func (c *Collection) Upsert(p *models.Path) {
	if i := c.Find(p.ID); i >= 0 {
		c.Paths[i] = p
		return
	}
	c.Paths = append(c.Paths, p)
}

// Remove deletes the path with id and reports whether it was present.
func (c *Collection) Remove(id string) bool {
	i := c.Find(id)
	if i < 0 {
		return false
	}
	c.Paths = append(c.Paths[:i], c.Paths[i+1:]...)
	return true
}

// Clones returns deep copies of every path.
func (c *Collection) Clones() []*models.Path {
	out := make([]*models.Path, len(c.Paths))
	for i, p := range c.Paths {
		out[i] = p.Clone()
	}
	return out
}
