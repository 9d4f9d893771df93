package codeblock

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNotFound is returned when a code block id is unknown.
var ErrNotFound = errors.New("code block not found")

// CodeBlock is a shared code buffer and the answer it is checked against.
type CodeBlock struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Template string `json:"template"`
	Solution string `json:"-"`
}

// Summary is the client-visible view of a code block. The solution is never included.
type Summary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Template string `json:"template"`
}

// Summary returns the client-visible view of the block.
func (b CodeBlock) Summary() Summary {
	return Summary{ID: b.ID, Title: b.Title, Template: b.Template}
}

// Registry holds every code block and its current template.
type Registry struct {
	blocks map[int]*CodeBlock
	order  []int // creation order
	mu     sync.RWMutex
}

// NewRegistry creates a registry from seed blocks, keeping their order.
func NewRegistry(seed []CodeBlock) (*Registry, error) {
	r := &Registry{
		blocks: make(map[int]*CodeBlock, len(seed)),
		order:  make([]int, 0, len(seed)),
	}
	for _, b := range seed {
		if _, exists := r.blocks[b.ID]; exists {
			return nil, fmt.Errorf("duplicate code block id %d", b.ID)
		}
		block := b
		r.blocks[b.ID] = &block
		r.order = append(r.order, b.ID)
	}
	return r, nil
}

// List returns all code blocks in creation order.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.blocks[id].Summary())
	}
	return out
}

// Get returns a copy of the code block with the given id.
func (r *Registry) Get(id int) (CodeBlock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blocks[id]
	if !ok {
		return CodeBlock{}, ErrNotFound
	}
	return *b, nil
}

// ApplyEdit overwrites the template of a code block. The most recent call wins.
func (r *Registry) ApplyEdit(id int, template string) (CodeBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[id]
	if !ok {
		return CodeBlock{}, ErrNotFound
	}
	b.Template = template
	slog.Debug("code block edited", "room", id, "bytes", len(template))
	return *b, nil
}

// Count returns the number of code blocks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
