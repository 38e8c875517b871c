package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/yxflow/internal/workflow"
)

// ToolDefinition describes how a plugin identifier is classified.
type ToolDefinition struct {
	Plugin string
	Kind   workflow.Kind
	// Name is the human-readable tool name used as a fallback label.
	Name string
	// Boundary marks the Macro Input and Macro Output tools that define a
	// macro's anchors.
	Boundary bool
}

// Registry holds the tool definitions for a single application instance.
// It is populated during startup and read-only afterwards.
type Registry struct {
	definitions map[string]*ToolDefinition
}

// New creates a Registry seeded with the built-in plugin table.
func New() *Registry {
	r := &Registry{definitions: make(map[string]*ToolDefinition)}
	for _, def := range builtins {
		r.Register(def)
	}
	return r
}

// Register adds a built-in definition. Registering the same plugin twice
// is a programming error.
func (r *Registry) Register(def *ToolDefinition) {
	key := normalize(def.Plugin)
	if _, exists := r.definitions[key]; exists {
		panic(fmt.Sprintf("tool definition for plugin '%s' already registered", def.Plugin))
	}
	slog.Debug("Registering tool definition.", "plugin", def.Plugin, "kind", def.Kind)
	r.definitions[key] = def
}

// Lookup classifies a plugin identifier. The full identifier is tried
// first, then its last dotted segment, so that
// "AlteryxBasePluginsGui.Filter.Filter" finds the "Filter" entry. Unknown
// plugins yield KindOther named after that segment.
func (r *Registry) Lookup(plugin string) ToolDefinition {
	if def, ok := r.definitions[normalize(plugin)]; ok {
		return *def
	}
	short := shortName(plugin)
	if def, ok := r.definitions[normalize(short)]; ok {
		return *def
	}
	return ToolDefinition{Plugin: plugin, Kind: workflow.KindOther, Name: short}
}

// Len returns the number of known definitions.
func (r *Registry) Len() int { return len(r.definitions) }

// Plugins returns the registered plugin identifiers in sorted order.
func (r *Registry) Plugins() []string {
	out := make([]string, 0, len(r.definitions))
	for _, def := range r.definitions {
		out = append(out, def.Plugin)
	}
	sort.Strings(out)
	return out
}

func normalize(plugin string) string {
	return strings.ToLower(strings.TrimSpace(plugin))
}

func shortName(plugin string) string {
	plugin = strings.TrimSpace(plugin)
	if i := strings.LastIndexByte(plugin, '.'); i >= 0 {
		return plugin[i+1:]
	}
	return plugin
}
