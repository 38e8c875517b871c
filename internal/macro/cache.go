package macro

import (
	"sync"

	"github.com/vk/yxflow/internal/workflow"
	"golang.org/x/sync/singleflight"
)

// Entry is a resolved macro document, ready to be spliced.
type Entry struct {
	Reference string
	// Path is the canonical path of the file that satisfied the reference.
	Path string
	// Location names the search step that found it.
	Location string
	// Graph is the sub-workflow with its own macros already resolved.
	Graph *workflow.Graph
	// Paths holds Path and the paths of every macro expanded inside Graph.
	Paths []string
	// Outcomes are the resolutions performed inside Graph, with node IDs
	// in Graph's ID space.
	Outcomes []Outcome
}

// Cache maps reference strings to resolved entries. It is safe for
// concurrent use; the first entry stored for a reference wins.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	group   singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Get returns the entry for ref.
func (c *Cache) Get(ref string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ref]
	return e, ok
}

// Put stores e under ref unless an entry is already present, and returns
// the entry that ends up cached.
func (c *Cache) Put(ref string, e *Entry) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[ref]; ok {
		return existing
	}
	c.entries[ref] = e
	return e
}

// Len returns the number of cached references.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// once runs fn for ref unless a call for the same ref is already in
// flight, in which case it waits for and shares that call's result.
func (c *Cache) once(ref string, fn func() (result, error)) (result, error) {
	v, err, _ := c.group.Do(ref, func() (any, error) {
		return fn()
	})
	if err != nil {
		return result{}, err
	}
	return v.(result), nil
}
