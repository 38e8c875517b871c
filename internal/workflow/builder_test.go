package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_OrdersNodesByID(t *testing.T) {
	g := mustBuild(t, []Node{tool(30, KindOutput), tool(10, KindInput), tool(20, KindFilter)}, nil)

	assert.Equal(t, []int{10, 20, 30}, g.IDs())
	assert.Equal(t, 30, g.MaxID())
}

func TestBuild_StructuralErrors(t *testing.T) {
	container := tool(1, KindContainer)
	container.Children = []int{2}

	testCases := []struct {
		name   string
		nodes  []Node
		edges  []Edge
		errMsg string
	}{
		{
			name:   "duplicate ID",
			nodes:  []Node{tool(1, KindInput), tool(1, KindFilter)},
			errMsg: "duplicate tool ID",
		},
		{
			name:   "self loop",
			nodes:  []Node{tool(1, KindFilter)},
			edges:  []Edge{link(1, 1)},
			errMsg: "self-loop",
		},
		{
			name:   "dangling origin",
			nodes:  []Node{tool(1, KindFilter)},
			edges:  []Edge{link(9, 1)},
			errMsg: "dangling origin",
		},
		{
			name:   "dangling destination",
			nodes:  []Node{tool(1, KindFilter)},
			edges:  []Edge{link(1, 9)},
			errMsg: "dangling destination",
		},
		{
			name:   "child without back-reference",
			nodes:  []Node{container, tool(2, KindFilter)},
			errMsg: "references container -1",
		},
		{
			name: "back-reference to a non-container",
			nodes: []Node{tool(1, KindInput), func() Node {
				n := tool(2, KindFilter)
				n.ContainerID = 1
				return n
			}()},
			errMsg: "is not a container",
		},
		{
			name:   "children on a non-container",
			nodes:  []Node{func() Node { n := tool(1, KindFilter); n.Children = []int{2}; return n }(), tool(2, KindFilter)},
			errMsg: "only containers",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder(Metadata{})
			for _, n := range tc.nodes {
				b.AddNode(n)
			}
			for _, e := range tc.edges {
				b.AddEdge(e)
			}

			_, err := b.Build()

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStructural))
			assert.ErrorContains(t, err, tc.errMsg)
			var serr *StructuralError
			assert.True(t, errors.As(err, &serr))
		})
	}
}

func TestBuild_ContainerCycle(t *testing.T) {
	a := tool(1, KindContainer)
	a.Children = []int{2}
	a.ContainerID = 2
	b := tool(2, KindContainer)
	b.Children = []int{1}
	b.ContainerID = 1

	builder := NewBuilder(Metadata{})
	builder.AddNode(a)
	builder.AddNode(b)
	_, err := builder.Build()

	require.Error(t, err)
	assert.ErrorContains(t, err, "container cycle")
}

func TestBuild_ContainerMembership(t *testing.T) {
	c := tool(5, KindContainer)
	c.Children = []int{10, 11}
	x := tool(10, KindInput)
	x.ContainerID = 5
	y := tool(11, KindFilter)
	y.ContainerID = 5

	g := mustBuild(t, []Node{c, x, y}, []Edge{link(10, 11)})

	assert.Equal(t, []int{10, 11}, ids(g.ChildrenOf(5)))
	n, ok := g.Node(11)
	require.True(t, ok)
	assert.True(t, n.InContainer())
	assert.Equal(t, 5, n.ContainerID)
}

func TestBuild_DoesNotAliasInputs(t *testing.T) {
	c := tool(1, KindContainer)
	c.Children = []int{2}
	child := tool(2, KindInput)
	child.ContainerID = 1

	b := NewBuilder(Metadata{})
	b.AddNode(c)
	b.AddNode(child)
	c.Children[0] = 99

	g, err := b.Build()
	require.NoError(t, err)
	got, _ := g.Node(1)
	assert.Equal(t, []int{2}, got.Children)
}

func TestBuild_KeepsDiagnostics(t *testing.T) {
	b := NewBuilder(Metadata{})
	b.Warn(NoNode, "node record without ToolID skipped")
	b.Warn(4, "connection to unknown tool %d dropped", 9)

	g, err := b.Build()
	require.NoError(t, err)

	diags := g.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "node record without ToolID skipped", diags[0].String())
	assert.Equal(t, "tool 4: connection to unknown tool 9 dropped", diags[1].String())
}
