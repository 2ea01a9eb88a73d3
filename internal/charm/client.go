// ABOUTME: Charm KV client wrapper using transactional Do API
// ABOUTME: Short-lived connections so several trail processes can share the database

package charm

import (
	"errors"
	"os"

	"github.com/charmbracelet/charm/kv"
)

const (
	// DBName is the name of the Charm KV database for trail data.
	DBName = "trail"

	// DefaultCharmHost is the default Charm server to use.
	DefaultCharmHost = "charm.2389.dev"
)

// Client holds configuration for KV operations.
// It does NOT hold a persistent connection: each operation opens the
// database, performs the operation, and closes it.
type Client struct {
	dbName   string
	autoSync bool
}

// Config holds client configuration options.
type Config struct {
	// CharmHost is the Charm server to use (default: charm.2389.dev).
	CharmHost string
	// AutoSync enables automatic sync after writes.
	AutoSync bool
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{
		CharmHost: host,
		AutoSync:  true,
	}
}

// NewClient creates a new client with the given config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.CharmHost == "" {
		cfg.CharmHost = DefaultCharmHost
	}

	// CHARM_HOST must be set before any KV operation opens the database.
	if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
		return nil, err
	}

	return &Client{
		dbName:   DBName,
		autoSync: cfg.AutoSync,
	}, nil
}

// NewTestClient creates a client for testing without network access.
func NewTestClient(dbName string) (*Client, error) {
	return &Client{
		dbName:   dbName,
		autoSync: false,
	}, nil
}

// Get retrieves a value by key. A missing key returns nil, nil.
func (c *Client) Get(key []byte) ([]byte, error) {
	var val []byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		var err error
		val, err = getKey(k, key)
		return err
	})
	return val, err
}

// Update replaces key with fn(current) in a single write transaction.
// When fn returns an error nothing is written.
func (c *Client) Update(key []byte, fn func(current []byte) ([]byte, error)) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		current, err := getKey(k, key)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if err := k.Set(key, next); err != nil {
			return err
		}
		if c.autoSync {
			return k.Sync()
		}
		return nil
	})
}

// Sync triggers a manual sync with the charm server.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Sync()
	})
}

// Reset clears all data (nuclear option).
func (c *Client) Reset() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Reset()
	})
}

// Close is a no-op; the Do API closes connections after each operation.
func (c *Client) Close() error {
	return nil
}

func getKey(k *kv.KV, key []byte) ([]byte, error) {
	val, err := k.Get(key)
	if errors.Is(err, kv.ErrMissingKey) {
		return nil, nil
	}
	return val, err
}
