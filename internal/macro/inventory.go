package macro

import (
	"slices"
	"sort"
	"sync"
)

// InventoryItem is one macro, keyed by file name, across a set of workflows.
type InventoryItem struct {
	Name      string   `json:"name" yaml:"name"`
	Found     bool     `json:"found" yaml:"found"`
	Path      string   `json:"path,omitempty" yaml:"path,omitempty"`
	Workflows []string `json:"workflows" yaml:"workflows"`
	Uses      int      `json:"uses" yaml:"uses"`
}

// Summary totals an inventory.
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Found   int `json:"found" yaml:"found"`
	Missing int `json:"missing" yaml:"missing"`
	Shared  int `json:"shared" yaml:"shared"`
	Uses    int `json:"uses" yaml:"uses"`
}

// Inventory collects the macros used by many workflows. It is safe for
// concurrent use.
type Inventory struct {
	mu    sync.Mutex
	items map[string]*InventoryItem
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make(map[string]*InventoryItem)}
}

// Add records every outcome of report under the given workflow name.
func (inv *Inventory) Add(workflow string, report *Report) {
	if report == nil {
		return
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, o := range report.Outcomes {
		name := baseName(o.Reference)
		if name == "" {
			continue
		}
		item, ok := inv.items[name]
		if !ok {
			item = &InventoryItem{Name: name}
			inv.items[name] = item
		}
		item.Uses++
		if !o.Missing() && !item.Found {
			item.Found = true
			item.Path = o.Path
		}
		if !slices.Contains(item.Workflows, workflow) {
			item.Workflows = append(item.Workflows, workflow)
			sort.Strings(item.Workflows)
		}
	}
}

// Macros returns a copy of every item, sorted by name.
func (inv *Inventory) Macros() []InventoryItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]InventoryItem, 0, len(inv.items))
	for _, item := range inv.items {
		c := *item
		c.Workflows = slices.Clone(item.Workflows)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Shared returns the macros used by more than one workflow.
func (inv *Inventory) Shared() []InventoryItem {
	return inv.filter(func(it InventoryItem) bool { return len(it.Workflows) > 1 })
}

// Missing returns the macros no workflow could resolve.
func (inv *Inventory) Missing() []InventoryItem {
	return inv.filter(func(it InventoryItem) bool { return !it.Found })
}

func (inv *Inventory) filter(keep func(InventoryItem) bool) []InventoryItem {
	var out []InventoryItem
	for _, it := range inv.Macros() {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Summary totals the inventory.
func (inv *Inventory) Summary() Summary {
	var s Summary
	for _, it := range inv.Macros() {
		s.Total++
		s.Uses += it.Uses
		if it.Found {
			s.Found++
		} else {
			s.Missing++
		}
		if len(it.Workflows) > 1 {
			s.Shared++
		}
	}
	return s
}
