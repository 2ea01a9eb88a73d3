// ABOUTME: SQLite storage implementation for recorded paths
// ABOUTME: One row per path, ordered by insertion sequence, using a pure Go driver

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/trail/internal/logging"
	"github.com/harper/trail/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Store with a local SQLite database.
type SQLiteDB struct {
	db     *sql.DB
	path   string
	logger *log.Logger
	mu     sync.Mutex
}

// Compile-time check that SQLiteDB implements Store.
var _ Store = (*SQLiteDB)(nil)

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "trail", "trail.db")
}

// NewSQLiteDB creates a new SQLite database at the given path.
// Creates the directory and database file if they don't exist.
func NewSQLiteDB(path string, logger *log.Logger) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteDB{db: db, path: path, logger: logging.OrDefault(logger)}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// migrate creates or updates the database schema.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS paths (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			version INTEGER NOT NULL,
			body TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Reset clears all data from the database.
func (s *SQLiteDB) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM paths")
	return persistence("reset", err)
}

// GetAll returns every stored path in insertion order.
// Rows that cannot be decoded are skipped with a warning.
func (s *SQLiteDB) GetAll(ctx context.Context) ([]*models.Path, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, version, body FROM paths ORDER BY seq")
	if err != nil {
		return nil, persistence("read", fmt.Errorf("query paths: %w", err))
	}
	defer func() { _ = rows.Close() }()

	paths := []*models.Path{}
	for rows.Next() {
		var id, body string
		var version int
		if err := rows.Scan(&id, &version, &body); err != nil {
			return nil, persistence("read", fmt.Errorf("scan path: %w", err))
		}
		p, err := decodeRow(version, body)
		if err != nil {
			s.logger.Warn("skipping unreadable path row", "backend", "sqlite", "id", id, "err", err)
			continue
		}
		paths = append(paths, p)
	}
	return paths, persistence("read", rows.Err())
}

// GetByID returns the path with id or a not-found error.
func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Path, error) {
	p, err := s.getByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteDB) getByID(ctx context.Context, q queryer, id string) (*models.Path, error) {
	var version int
	var body string
	err := q.QueryRowContext(ctx, "SELECT version, body FROM paths WHERE id = ?", id).Scan(&version, &body)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, persistence("read", fmt.Errorf("scan path: %w", err))
	}
	p, err := decodeRow(version, body)
	if err != nil {
		s.logger.Warn("stored path is unreadable", "backend", "sqlite", "id", id, "err", err)
		return nil, notFound(id)
	}
	return p, nil
}

// Save upserts a finalized path, keeping its original position in the order.
func (s *SQLiteDB) Save(ctx context.Context, path *models.Path) (*models.Path, error) {
	if err := checkSavable(path); err != nil {
		return nil, err
	}
	body, err := json.Marshal(path)
	if err != nil {
		return nil, persistence("save", fmt.Errorf("marshal path: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO paths (id, version, body) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version, body = excluded.body`,
		path.ID, models.SchemaVersion, string(body),
	)
	if err != nil {
		return nil, persistence("save", fmt.Errorf("upsert path: %w", err))
	}
	return path.Clone(), nil
}

// Delete removes the path with id.
func (s *SQLiteDB) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM paths WHERE id = ?", id)
	if err != nil {
		return false, persistence("delete", fmt.Errorf("delete path: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistence("delete", err)
	}
	if n == 0 {
		return false, notFound(id)
	}
	return true, nil
}

// UpdateDetails merges the provided fields into the stored path in one transaction.
func (s *SQLiteDB) UpdateDetails(ctx context.Context, id string, details models.Details) (*models.Path, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence("update", fmt.Errorf("begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	p, err := s.getByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	p.ApplyDetails(details)

	body, err := json.Marshal(p)
	if err != nil {
		return nil, persistence("update", fmt.Errorf("marshal path: %w", err))
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE paths SET version = ?, body = ? WHERE id = ?",
		models.SchemaVersion, string(body), id,
	); err != nil {
		return nil, persistence("update", fmt.Errorf("update path: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return nil, persistence("update", fmt.Errorf("commit: %w", err))
	}
	return p, nil
}

func decodeRow(version int, body string) (*models.Path, error) {
	if version > models.SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	var p models.Path
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("unmarshal path: %w", err)
	}
	if p.Points == nil {
		p.Points = []models.Sample{}
	}
	return &p, nil
}
