package workflow

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond: 1 -> 3, 2 -> 3 (twice, multigraph), 3 -> 4, 3 -> 5
func diamond(t *testing.T) *Graph {
	t.Helper()
	return mustBuild(t,
		[]Node{tool(5, KindOutput), tool(4, KindOutput), tool(3, KindJoin), tool(2, KindInput), tool(1, KindInput)},
		[]Edge{
			{From: 2, FromAnchor: "Output", To: 3, ToAnchor: "Right"},
			{From: 1, FromAnchor: "Output", To: 3, ToAnchor: "Left"},
			{From: 2, FromAnchor: "Output", To: 3, ToAnchor: "Left"},
			{From: 3, FromAnchor: "J", To: 5, ToAnchor: "Input"},
			{From: 3, FromAnchor: "L", To: 4, ToAnchor: "Input"},
		},
	)
}

func TestUpstreamOf_OrderedAndDistinct(t *testing.T) {
	g := diamond(t)

	assert.Equal(t, []int{1, 2}, ids(g.UpstreamOf(3)))
	assert.Empty(t, g.UpstreamOf(1))
	assert.Empty(t, g.UpstreamOf(42))
}

func TestDownstreamOf_Ordered(t *testing.T) {
	g := diamond(t)

	assert.Equal(t, []int{4, 5}, ids(g.DownstreamOf(3)))
	assert.Equal(t, []int{3}, ids(g.DownstreamOf(2)))
	assert.Empty(t, g.DownstreamOf(5))
}

func TestEdges_KeepDocumentOrder(t *testing.T) {
	g := diamond(t)

	into := g.EdgesInto(3)
	require.Len(t, into, 3)
	assert.Equal(t, "2.Output -> 3.Right", into[0].String())
	assert.Equal(t, "1.Output -> 3.Left", into[1].String())

	in, out := g.Degree(3)
	assert.Equal(t, 3, in)
	assert.Equal(t, 2, out)
}

func TestSourcesOf(t *testing.T) {
	g := diamond(t)

	assert.Equal(t, []int{1, 2}, ids(g.SourcesOf(KindInput)))
	assert.Equal(t, []int{4, 5}, ids(g.SourcesOf(KindOutput)))
	assert.Empty(t, g.SourcesOf(KindSummarize))
}

func TestQueries_AreDeterministic(t *testing.T) {
	first := diamond(t)
	for i := 0; i < 20; i++ {
		again := diamond(t)
		for _, id := range first.IDs() {
			if diff := cmp.Diff(ids(first.UpstreamOf(id)), ids(again.UpstreamOf(id))); diff != "" {
				t.Fatalf("UpstreamOf(%d) changed (-first +again):\n%s", id, diff)
			}
			if diff := cmp.Diff(ids(first.DownstreamOf(id)), ids(again.DownstreamOf(id))); diff != "" {
				t.Fatalf("DownstreamOf(%d) changed (-first +again):\n%s", id, diff)
			}
		}
	}
}

func TestMacroQueries(t *testing.T) {
	a := tool(1, KindMacro)
	a.Macro = MacroRef{Reference: `C:\macros\clean.yxmc`}
	b := tool(2, KindMacro)
	b.Macro = MacroRef{Reference: `C:\macros\clean.yxmc`}
	c := tool(3, KindMacro)
	c.Macro = MacroRef{Reference: "dedupe.yxmc", State: MacroMissing, Reason: ReasonNotFound}

	g := mustBuild(t, []Node{a, b, c}, nil)

	assert.Equal(t, []int{1, 2, 3}, ids(g.Macros()))
	assert.Equal(t, []int{1, 2}, ids(g.UnresolvedMacros()))
	assert.Equal(t, []string{`C:\macros\clean.yxmc`, "dedupe.yxmc"}, g.MacroReferences())
}

func TestStats(t *testing.T) {
	s := diamond(t).Stats()

	assert.Equal(t, 5, s.Nodes)
	assert.Equal(t, 5, s.Edges)
	assert.Equal(t, 2, s.ByKind[KindInput])
	assert.Equal(t, 1, s.ByKind[KindJoin])
}

func TestFindByOrigin(t *testing.T) {
	g := diamond(t)

	_, found, err := g.FindByOrigin("tool[1]")
	require.NoError(t, err)
	assert.False(t, found, "nodes built without an origin are not addressable")

	_, _, err = g.FindByOrigin("tool[")
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind(" Summarize ")
	require.NoError(t, err)
	assert.Equal(t, KindSummarize, k)

	_, err = ParseKind("pivot")
	assert.Error(t, err)
}
