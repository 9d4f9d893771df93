package codeblock

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry([]CodeBlock{
		{ID: 3, Title: "Third", Template: "c", Solution: "c"},
		{ID: 1, Title: "First", Template: "", Solution: "return 42;"},
		{ID: 2, Title: "Second", Template: "b", Solution: "bb"},
	})
	require.NoError(t, err)
	return r
}

func TestNewRegistry_DuplicateID(t *testing.T) {
	_, err := NewRegistry([]CodeBlock{
		{ID: 1, Title: "A"},
		{ID: 1, Title: "B"},
	})
	assert.Error(t, err)
}

func TestRegistry_ListKeepsCreationOrder(t *testing.T) {
	r := testRegistry(t)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].ID)
	assert.Equal(t, 1, list[1].ID)
	assert.Equal(t, 2, list[2].ID)
	assert.Equal(t, 3, r.Count())
}

func TestRegistry_Get(t *testing.T) {
	r := testRegistry(t)

	b, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "First", b.Title)
	assert.Equal(t, "return 42;", b.Solution)

	_, err = r.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	r := testRegistry(t)

	b, err := r.Get(2)
	require.NoError(t, err)
	b.Template = "mutated"

	again, err := r.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "b", again.Template)
}

func TestRegistry_ApplyEdit(t *testing.T) {
	r := testRegistry(t)

	b, err := r.ApplyEdit(1, "return 42;")
	require.NoError(t, err)
	assert.Equal(t, "return 42;", b.Template)

	stored, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "return 42;", stored.Template)

	_, err = r.ApplyEdit(999, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_ApplyEditIsIdempotent(t *testing.T) {
	r := testRegistry(t)

	first, err := r.ApplyEdit(1, "return 42;\n")
	require.NoError(t, err)
	second, err := r.ApplyEdit(1, "return 42;\n")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Matches(first), Matches(second))
	assert.True(t, Matches(second))
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := testRegistry(t)

	_, err := r.ApplyEdit(2, "first")
	require.NoError(t, err)
	_, err = r.ApplyEdit(2, "second")
	require.NoError(t, err)

	b, err := r.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "second", b.Template)
}

func TestSummary_OmitsSolution(t *testing.T) {
	b := CodeBlock{ID: 1, Title: "T", Template: "x", Solution: "secret"}

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	data, err = json.Marshal(b.Summary())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"T","template":"x"}`, string(data))
}

func TestDefaultBlocks(t *testing.T) {
	blocks := DefaultBlocks()
	require.Len(t, blocks, 6)

	r, err := NewRegistry(blocks)
	require.NoError(t, err)
	for i, s := range r.List() {
		assert.Equal(t, i+1, s.ID)
		assert.NotEmpty(t, s.Title)
	}

	// Blocks 2 and 5 ship already solved.
	assert.True(t, Matches(blocks[1]))
	assert.False(t, Matches(blocks[0]))
}
