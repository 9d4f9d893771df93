package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
)

// ErrUnsupportedURL is returned by Open for a database URL it cannot handle.
var ErrUnsupportedURL = errors.New("unsupported database url")

const schema = `
CREATE TABLE IF NOT EXISTS code_blocks (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    template TEXT NOT NULL DEFAULT '',
    solution TEXT NOT NULL DEFAULT ''
);
`

// CatalogStore is the source of code block seed data.
// Edits made while the server runs are never written back.
type CatalogStore interface {
	// ListCodeBlocks returns every code block ordered by id.
	ListCodeBlocks(ctx context.Context) ([]codeblock.CodeBlock, error)
	// SeedCodeBlocks inserts blocks if the catalogue is empty and returns how many were inserted.
	SeedCodeBlocks(ctx context.Context, blocks []codeblock.CodeBlock) (int, error)
	// Close releases database resources.
	Close() error
}

// Open connects to the catalogue named by databaseURL.
// postgres:// and postgresql:// use PostgreSQL; sqlite:// and file: use SQLite.
func Open(ctx context.Context, databaseURL string) (CatalogStore, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgresStore(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return NewSQLiteStore(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "file:"):
		return NewSQLiteStore(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, redact(databaseURL))
	}
}

// LoadCodeBlocks seeds an empty catalogue with defaults and returns its contents.
func LoadCodeBlocks(ctx context.Context, s CatalogStore, defaults []codeblock.CodeBlock) ([]codeblock.CodeBlock, error) {
	n, err := s.SeedCodeBlocks(ctx, defaults)
	if err != nil {
		return nil, fmt.Errorf("seed code blocks: %w", err)
	}
	if n > 0 {
		slog.Info("catalogue seeded", "code_blocks", n)
	}

	blocks, err := s.ListCodeBlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list code blocks: %w", err)
	}
	return blocks, nil
}

func redact(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		if j := strings.Index(url, "://"); j >= 0 && j < i {
			return url[:j+3] + "***" + url[i:]
		}
	}
	return url
}
