package workflow

import (
	"path/filepath"
	"slices"

	"github.com/vk/yxflow/internal/nodeid"
)

// Metadata is the document-level information of a workflow.
type Metadata struct {
	Name        string
	Description string
	Author      string
	Version     string
	SourcePath  string
}

// Dir is the directory of the source document, or "" when unknown.
func (m Metadata) Dir() string {
	if m.SourcePath == "" {
		return ""
	}
	return filepath.Dir(m.SourcePath)
}

// Stats summarizes the size of a graph.
type Stats struct {
	Nodes  int
	Edges  int
	ByKind map[Kind]int
}

// Graph owns the nodes and edges of one workflow document.
type Graph struct {
	meta  Metadata
	nodes []Node
	index map[int]int
	edges []Edge
	in    map[int][]int
	out   map[int][]int
	diags []Diagnostic
}

// Metadata returns the document metadata.
func (g *Graph) Metadata() Metadata {
	return g.meta
}

// Len is the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node looks a node up by ID.
func (g *Graph) Node(id int) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns all nodes in ascending ID order.
func (g *Graph) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// IDs returns all node IDs in ascending order.
func (g *Graph) IDs() []int {
	ids := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// MaxID is the largest node ID, or -1 for an empty graph.
func (g *Graph) MaxID() int {
	if len(g.nodes) == 0 {
		return -1
	}
	return g.nodes[len(g.nodes)-1].ID
}

// Edges returns all edges in document order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// EdgesInto returns the edges terminating at id, in document order.
func (g *Graph) EdgesInto(id int) []Edge {
	return g.collect(g.in[id])
}

// EdgesFrom returns the edges originating at id, in document order.
func (g *Graph) EdgesFrom(id int) []Edge {
	return g.collect(g.out[id])
}

func (g *Graph) collect(idx []int) []Edge {
	edges := make([]Edge, 0, len(idx))
	for _, i := range idx {
		edges = append(edges, g.edges[i])
	}
	return edges
}

// Degree returns the number of incoming and outgoing edges of id.
func (g *Graph) Degree(id int) (in, out int) {
	return len(g.in[id]), len(g.out[id])
}

// UpstreamOf returns every node with an edge into id, once each, ordered by
// ascending ID.
func (g *Graph) UpstreamOf(id int) []Node {
	return g.neighbours(g.in[id], func(e Edge) int { return e.From })
}

// DownstreamOf returns every node fed by an edge out of id, once each,
// ordered by ascending ID.
func (g *Graph) DownstreamOf(id int) []Node {
	return g.neighbours(g.out[id], func(e Edge) int { return e.To })
}

func (g *Graph) neighbours(idx []int, end func(Edge) int) []Node {
	ids := make([]int, 0, len(idx))
	for _, i := range idx {
		ids = append(ids, end(g.edges[i]))
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodes[g.index[id]])
	}
	return nodes
}

// SourcesOf returns the nodes of the given kind in ascending ID order.
func (g *Graph) SourcesOf(kind Kind) []Node {
	var nodes []Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// ChildrenOf returns the members of a container in declaration order.
func (g *Graph) ChildrenOf(id int) []Node {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	children := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		if child, ok := g.Node(c); ok {
			children = append(children, child)
		}
	}
	return children
}

// Macros returns all macro reference nodes in ascending ID order.
func (g *Graph) Macros() []Node {
	return g.SourcesOf(KindMacro)
}

// UnresolvedMacros returns the macro nodes that have not reached a terminal state.
func (g *Graph) UnresolvedMacros() []Node {
	var nodes []Node
	for _, n := range g.nodes {
		if n.Kind == KindMacro && !n.Macro.State.Terminal() {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// MacroReferences returns the distinct reference strings used by the
// document, in first-use order.
func (g *Graph) MacroReferences() []string {
	var refs []string
	seen := make(map[string]bool)
	for _, n := range g.nodes {
		if n.Kind != KindMacro || n.Macro.Reference == "" || seen[n.Macro.Reference] {
			continue
		}
		seen[n.Macro.Reference] = true
		refs = append(refs, n.Macro.Reference)
	}
	return refs
}

// FindByOrigin locates a node by its provenance address, e.g. "tool[12].tool[3]".
func (g *Graph) FindByOrigin(raw string) (Node, bool, error) {
	addr, err := nodeid.Parse(raw)
	if err != nil {
		return Node{}, false, err
	}
	for _, n := range g.nodes {
		if n.Origin.Equal(addr) {
			return n, true, nil
		}
	}
	return Node{}, false, nil
}

// Diagnostics returns the non-fatal findings recorded while building the graph.
func (g *Graph) Diagnostics() []Diagnostic {
	return slices.Clone(g.diags)
}

// Stats counts nodes by kind and edges.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes), Edges: len(g.edges), ByKind: make(map[Kind]int)}
	for _, n := range g.nodes {
		s.ByKind[n.Kind]++
	}
	return s
}
