package workflow

import (
	"fmt"
	"slices"
	"sort"
)

// Builder accumulates nodes and edges and validates them into a Graph.
// It is not safe for concurrent use.
type Builder struct {
	meta  Metadata
	nodes []Node
	edges []Edge
	diags []Diagnostic
}

// NewBuilder starts a graph for a document with the given metadata.
func NewBuilder(meta Metadata) *Builder {
	return &Builder{meta: meta}
}

// AddNode records a node. Nodes may be added in any order.
func (b *Builder) AddNode(n Node) {
	b.nodes = append(b.nodes, n.clone())
}

// AddEdge records an edge. Endpoints are checked by Build.
func (b *Builder) AddEdge(e Edge) {
	b.edges = append(b.edges, e)
}

// Warn records a non-fatal finding about a node (or NoNode).
func (b *Builder) Warn(nodeID int, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
}

// Build validates the accumulated structure and returns the graph. It fails
// with a *StructuralError on duplicate IDs, dangling or self-looping edges,
// container references that do not name a container holding the node, and
// container cycles.
func (b *Builder) Build() (*Graph, error) {
	nodes := make([]Node, len(b.nodes))
	copy(nodes, b.nodes)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	g := &Graph{
		meta:  b.meta,
		nodes: nodes,
		index: make(map[int]int, len(nodes)),
		edges: make([]Edge, len(b.edges)),
		in:    make(map[int][]int),
		out:   make(map[int][]int),
		diags: append([]Diagnostic(nil), b.diags...),
	}
	copy(g.edges, b.edges)

	for i, n := range nodes {
		if _, dup := g.index[n.ID]; dup {
			return nil, structural(n.ID, "duplicate tool ID")
		}
		g.index[n.ID] = i
	}

	for i, e := range g.edges {
		if e.From == e.To {
			return nil, structural(e.From, "connection %s is a self-loop", e)
		}
		if _, ok := g.index[e.From]; !ok {
			return nil, structural(e.From, "connection %s has a dangling origin", e)
		}
		if _, ok := g.index[e.To]; !ok {
			return nil, structural(e.To, "connection %s has a dangling destination", e)
		}
		g.out[e.From] = append(g.out[e.From], i)
		g.in[e.To] = append(g.in[e.To], i)
	}

	if err := g.checkContainers(); err != nil {
		return nil, err
	}
	return g, nil
}

// checkContainers verifies that children and back-references mirror each
// other and that no container encloses itself.
func (g *Graph) checkContainers() error {
	for _, n := range g.nodes {
		if len(n.Children) > 0 && n.Kind != KindContainer {
			return structural(n.ID, "only containers may declare children")
		}
		for _, c := range n.Children {
			child, ok := g.Node(c)
			if !ok {
				return structural(n.ID, "container child %d does not exist", c)
			}
			if child.ContainerID != n.ID {
				return structural(c, "listed by container %d but references container %d", n.ID, child.ContainerID)
			}
		}
	}

	for _, n := range g.nodes {
		if !n.InContainer() {
			continue
		}
		parent, ok := g.Node(n.ContainerID)
		if !ok || parent.Kind != KindContainer {
			return structural(n.ID, "container reference %d is not a container", n.ContainerID)
		}
		if !slices.Contains(parent.Children, n.ID) {
			return structural(n.ID, "container %d does not list it as a child", n.ContainerID)
		}
	}

	for _, n := range g.nodes {
		if n.Kind != KindContainer {
			continue
		}
		seen := map[int]bool{n.ID: true}
		for cur := n; cur.InContainer(); {
			if seen[cur.ContainerID] {
				return structural(n.ID, "container cycle through %d", cur.ContainerID)
			}
			seen[cur.ContainerID] = true
			cur, _ = g.Node(cur.ContainerID)
		}
	}
	return nil
}
