package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode(1)
	assert.Len(t, g.nodes, 1)
	n1, ok := g.nodes[1]
	require.True(t, ok)
	assert.Equal(t, 1, n1.id)
	assert.NotNil(t, n1.deps)
	assert.NotNil(t, n1.dependents)

	g.AddNode(1) // Test idempotency
	assert.Equal(t, 1, g.Len())

	g.AddNode(2)
	assert.Equal(t, 2, g.Len())
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode(1)
		g.AddNode(2)

		require.NoError(t, g.AddEdge(1, 2)) // 2 depends on 1
		require.NoError(t, g.AddEdge(1, 2)) // parallel edge collapses

		deps, err := g.Dependencies(2)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, deps)

		dependents, err := g.Dependents(1)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode(1)
		g.AddNode(2)

		assert.ErrorContains(t, g.AddEdge(99, 1), "source node not found")
		assert.ErrorContains(t, g.AddEdge(1, 99), "destination node not found")
		assert.ErrorContains(t, g.AddEdge(1, 1), "self-referential edge")

		_, err := g.Dependencies(99)
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestDetectCycles(t *testing.T) {
	build := func(t *testing.T, ids []int, edges [][2]int) *Graph {
		t.Helper()
		g := New()
		for _, id := range ids {
			g.AddNode(id)
		}
		for _, e := range edges {
			require.NoError(t, g.AddEdge(e[0], e[1]))
		}
		return g
	}

	tests := []struct {
		name    string
		ids     []int
		edges   [][2]int
		wantErr string
	}{
		{name: "empty graph"},
		{name: "no edges", ids: []int{1, 2, 3}},
		{
			name:  "valid dag with transitive edge",
			ids:   []int{1, 2, 3, 4},
			edges: [][2]int{{1, 2}, {2, 3}, {1, 3}, {3, 4}},
		},
		{
			name:    "direct cycle",
			ids:     []int{1, 2},
			edges:   [][2]int{{1, 2}, {2, 1}},
			wantErr: "cycle detected involving node 1",
		},
		{
			name:    "longer cycle",
			ids:     []int{1, 2, 3, 4},
			edges:   [][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}},
			wantErr: "cycle detected involving node 1",
		},
		{
			name:    "cycle in a disjoint component",
			ids:     []int{1, 2, 10, 11, 12},
			edges:   [][2]int{{1, 2}, {10, 11}, {11, 12}, {12, 11}},
			wantErr: "cycle detected involving node 11",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := build(t, tc.ids, tc.edges).DetectCycles()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
			var cycErr *CycleError
			assert.ErrorAs(t, err, &cycErr)
		})
	}
}

func TestTopologicalSort(t *testing.T) {
	t.Run("lowest ready id first", func(t *testing.T) {
		g := New()
		for _, id := range []int{5, 3, 9, 1, 7} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge(9, 3))
		require.NoError(t, g.AddEdge(1, 7))
		require.NoError(t, g.AddEdge(3, 7))

		order, remaining := g.TopologicalSort()
		assert.Equal(t, []int{1, 5, 9, 3, 7}, order)
		assert.Empty(t, remaining)
	})

	t.Run("repeatable", func(t *testing.T) {
		g := New()
		for id := 1; id <= 6; id++ {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge(1, 4))
		require.NoError(t, g.AddEdge(2, 4))
		require.NoError(t, g.AddEdge(4, 6))
		require.NoError(t, g.AddEdge(3, 5))

		first, _ := g.TopologicalSort()
		for range 20 {
			again, _ := g.TopologicalSort()
			require.Equal(t, first, again)
		}
	})

	t.Run("cycle reports remaining nodes", func(t *testing.T) {
		g := New()
		for id := 1; id <= 4; id++ {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge(1, 2))
		require.NoError(t, g.AddEdge(2, 3))
		require.NoError(t, g.AddEdge(3, 1))

		order, remaining := g.TopologicalSort()
		assert.Equal(t, []int{4}, order)
		assert.Equal(t, []int{1, 2, 3}, remaining)
	})
}
