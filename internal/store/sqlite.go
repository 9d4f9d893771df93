package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
)

// SQLiteStore implements CatalogStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite catalogue at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// ListCodeBlocks returns every code block ordered by id.
func (s *SQLiteStore) ListCodeBlocks(ctx context.Context) ([]codeblock.CodeBlock, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, template, solution FROM code_blocks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []codeblock.CodeBlock
	for rows.Next() {
		var b codeblock.CodeBlock
		if err := rows.Scan(&b.ID, &b.Title, &b.Template, &b.Solution); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SeedCodeBlocks inserts blocks in one transaction if the table is empty.
func (s *SQLiteStore) SeedCodeBlocks(ctx context.Context, blocks []codeblock.CodeBlock) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM code_blocks`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO code_blocks (id, title, template, solution) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, b := range blocks {
		if _, err := stmt.ExecContext(ctx, b.ID, b.Title, b.Template, b.Solution); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(blocks), nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
