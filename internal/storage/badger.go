// ABOUTME: BadgerDB backend holding the path collection on local disk
// ABOUTME: Default durable store; the collection lives under a single key

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
	"github.com/harper/trail/internal/logging"
)

// badgerKey is the key holding the encoded collection.
var badgerKey = []byte("trail:" + CollectionName)

// BadgerBackend stores the collection in a BadgerDB database.
type BadgerBackend struct {
	db *badger.DB
}

// Compile-time check that BadgerBackend implements BlobBackend.
var _ BlobBackend = (*BadgerBackend)(nil)

// badgerLogger adapts a charm logger to badger's Logger interface.
type badgerLogger struct {
	logger *log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// DefaultBadgerDir returns the default database directory.
func DefaultBadgerDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "trail", "paths.badger")
}

// OpenBadger opens (or creates) a Badger-backed store in dir.
func OpenBadger(dir string, logger *log.Logger) (*BlobStore, error) {
	if dir == "" {
		return nil, errors.New("badger directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithSyncWrites(true).WithNumVersionsToKeep(1)
	return openBadger(opts, logger)
}

// OpenBadgerInMemory opens a Badger-backed store that never touches disk.
func OpenBadgerInMemory(logger *log.Logger) (*BlobStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	return openBadger(opts, logger)
}

func openBadger(opts badger.Options, logger *log.Logger) (*BlobStore, error) {
	logger = logging.OrDefault(logger)
	opts = opts.WithLogger(&badgerLogger{logger: logger.WithPrefix("badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return NewBlobStore("badger", &BadgerBackend{db: db}, logger), nil
}

// Read returns the stored collection bytes.
func (b *BadgerBackend) Read(_ context.Context) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		data, err = readKey(txn)
		return err
	})
	return data, err
}

// Write replaces the collection inside one read-write transaction.
func (b *BadgerBackend) Write(_ context.Context, fn func(current []byte) ([]byte, error)) error {
	return b.db.Update(func(txn *badger.Txn) error {
		current, err := readKey(txn)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return txn.Set(badgerKey, next)
	})
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

// DB exposes the underlying database for maintenance and tests.
func (b *BadgerBackend) DB() *badger.DB {
	return b.db
}

func readKey(txn *badger.Txn) ([]byte, error) {
	item, err := txn.Get(badgerKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", badgerKey, err)
	}
	return item.ValueCopy(nil)
}
