package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
)

func getTestDatabaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}
	return url
}

func setupTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := getTestDatabaseURL(t)
	ctx := context.Background()

	s, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)

	// Clean up code_blocks table for test isolation
	_, err = s.pool.Exec(ctx, "DELETE FROM code_blocks")
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestPostgresStore_SeedAndList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n, err := s.SeedCodeBlocks(ctx, codeblock.DefaultBlocks())
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	blocks, err := s.ListCodeBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 6)
	assert.Equal(t, codeblock.DefaultBlocks(), blocks)
}

func TestPostgresStore_SeedOnlyOnce(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.SeedCodeBlocks(ctx, []codeblock.CodeBlock{{ID: 1, Title: "One", Solution: "1"}})
	require.NoError(t, err)

	n, err := s.SeedCodeBlocks(ctx, codeblock.DefaultBlocks())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	blocks, err := s.ListCodeBlocks(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "One", blocks[0].Title)
}

func TestPostgresStore_DuplicateSeedRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.SeedCodeBlocks(ctx, []codeblock.CodeBlock{
		{ID: 1, Title: "A"},
		{ID: 1, Title: "B"},
	})
	assert.Error(t, err)

	blocks, err := s.ListCodeBlocks(ctx)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
