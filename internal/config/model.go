package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths and translates it into
	// the format-agnostic model. Later files override earlier ones.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Resolver modes.
const (
	ModeBatch       = "batch"
	ModeInteractive = "interactive"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Resolver *Resolver
	// Tools extends the built-in plugin table, keyed by plugin identifier.
	Tools map[string]*ToolDefinition
}

// NewModel returns an empty model with batch resolution.
func NewModel() *Model {
	return &Model{
		Resolver: &Resolver{Mode: ModeBatch},
		Tools:    make(map[string]*ToolDefinition),
	}
}

// Resolver is the format-agnostic representation of a `resolver` block.
type Resolver struct {
	Mode       string
	SearchDirs []string
	Skip       []string
}

// Interactive reports whether the missing-macro handler may be consulted.
func (r *Resolver) Interactive() bool {
	return r != nil && r.Mode == ModeInteractive
}

// ToolDefinition maps a plugin identifier onto a tool kind.
type ToolDefinition struct {
	Plugin string
	// Kind is kept as the raw configured value; the registry checks it.
	Kind cty.Value
	Name string
	// Boundary marks macro Input/Output tools.
	Boundary bool
	// Source is where the definition came from, for error messages.
	Source string
}
