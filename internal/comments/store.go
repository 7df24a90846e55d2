// Package comments persists per-row annotations keyed by (kind, row key),
// where kind is "am" or "pm" depending on which side the note concerns.
package comments

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// KindValid reports whether a comment kind is one of the two tables the API
// exposes.
func KindValid(kind string) bool { return kind == "am" || kind == "pm" }

type Store struct {
	db *sql.DB
}

// Row is one stored comment. Comment is nil when the row has none.
type Row struct {
	ID      string  `json:"id"`
	Comment *string `json:"comment"`
}

// Open creates the store, bootstrapping the schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS tenancy_comments (
            kind       TEXT NOT NULL,
            id         TEXT NOT NULL,
            comment    TEXT NOT NULL,
            updated_at TIMESTAMP NOT NULL,
            PRIMARY KEY (kind, id)
        );
    `)
	if err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// List returns the stored comments among the given row keys.
func (s *Store) List(ctx context.Context, kind string, ids []string) ([]Row, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, kind)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, comment FROM tenancy_comments WHERE kind = ? AND id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var c string
		if err := rows.Scan(&r.ID, &c); err != nil {
			return nil, err
		}
		r.Comment = &c
		out = append(out, r)
	}
	return out, rows.Err()
}

// Upsert stores a comment for a row key. An empty comment deletes the row.
func (s *Store) Upsert(ctx context.Context, kind, id, comment string) error {
	if strings.TrimSpace(comment) == "" {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM tenancy_comments WHERE kind = ? AND id = ?`, kind, id)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO tenancy_comments (kind, id, comment, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (kind, id) DO UPDATE SET comment = excluded.comment, updated_at = excluded.updated_at
    `, kind, id, comment, time.Now().UTC())
	return err
}
