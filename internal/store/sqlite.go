package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

// SQLite is a write-through Repo: all reads are served from the in-memory
// index, every mutation is persisted as a JSON state blob keyed by user id.
// Known users are loaded once at open.
type SQLite struct {
	*Memory
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path, applies PRAGMAs,
// runs migrations and loads all persisted user state.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	s := &SQLite{Memory: NewMemory(), db: db}
	s.Memory.persist = s.save
	if err := s.loadAll(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load users: %w", err)
	}
	return s, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) loadAll(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, state FROM users`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, blob string
		if err := rows.Scan(&id, &blob); err != nil {
			return err
		}
		u := domain.NewUserState(id)
		if err := json.Unmarshal([]byte(blob), u); err != nil {
			return fmt.Errorf("decode state for %s: %w", id, err)
		}
		s.Memory.load(u)
	}
	return rows.Err()
}

func (s *SQLite) save(ctx context.Context, u *domain.UserState) error {
	blob, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			state      = excluded.state,
			updated_at = excluded.updated_at`,
		u.ID, string(blob), time.Now().UTC().Unix(),
	)
	return err
}

// Close releases the underlying database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}
