package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// tool returns a bare node of the given kind outside any container.
func tool(id int, kind Kind) Node {
	return Node{ID: id, Kind: kind, ContainerID: NoNode, MacroParent: NoNode}
}

// link returns an edge between the default anchors.
func link(from, to int) Edge {
	return Edge{From: from, FromAnchor: DefaultOutputAnchor, To: to, ToAnchor: DefaultInputAnchor}
}

// mustBuild builds a graph from the given nodes and edges.
func mustBuild(t *testing.T, nodes []Node, edges []Edge) *Graph {
	t.Helper()
	b := NewBuilder(Metadata{Name: "test"})
	for _, n := range nodes {
		b.AddNode(n)
	}
	for _, e := range edges {
		b.AddEdge(e)
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func ids(nodes []Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
