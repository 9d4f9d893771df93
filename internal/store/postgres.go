package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
)

// PostgresStore implements CatalogStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// ListCodeBlocks returns every code block ordered by id.
func (s *PostgresStore) ListCodeBlocks(ctx context.Context) ([]codeblock.CodeBlock, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, template, solution FROM code_blocks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []codeblock.CodeBlock
	for rows.Next() {
		b, err := scanCodeBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SeedCodeBlocks inserts blocks in one transaction if the table is empty.
func (s *PostgresStore) SeedCodeBlocks(ctx context.Context, blocks []codeblock.CodeBlock) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM code_blocks`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, b := range blocks {
		batch.Queue(
			`INSERT INTO code_blocks (id, title, template, solution) VALUES ($1, $2, $3, $4)`,
			b.ID, b.Title, b.Template, b.Solution)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(blocks), nil
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanCodeBlock(row pgx.Row) (codeblock.CodeBlock, error) {
	var b codeblock.CodeBlock
	err := row.Scan(&b.ID, &b.Title, &b.Template, &b.Solution)
	return b, err
}
