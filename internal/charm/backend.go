// ABOUTME: Path collection backend stored in Charm KV
// ABOUTME: Lets recorded paths sync across machines through a Charm server

package charm

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/storage"
)

// pathsKey holds the encoded path collection.
var pathsKey = []byte(storage.CollectionName)

// Backend adapts a Client to storage.BlobBackend.
type Backend struct {
	client *Client
}

// Compile-time check that Backend implements storage.BlobBackend.
var _ storage.BlobBackend = (*Backend)(nil)

// NewBackend wraps client.
func NewBackend(client *Client) *Backend {
	return &Backend{client: client}
}

// Open returns a Store backed by Charm KV.
func Open(cfg *Config, logger *log.Logger) (*storage.BlobStore, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return storage.NewBlobStore("charm", NewBackend(client), logger), nil
}

// Read returns the stored collection bytes.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.client.Get(pathsKey)
}

// Write replaces the collection inside one KV transaction.
func (b *Backend) Write(ctx context.Context, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.client.Update(pathsKey, fn)
}

// Close releases the client.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Client exposes the underlying client for sync and reset.
func (b *Backend) Client() *Client {
	return b.client
}
