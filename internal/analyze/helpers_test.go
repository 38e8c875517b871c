package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/workflow"
)

func quietCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

func tool(id int, kind workflow.Kind, cfg workflow.Config) workflow.Node {
	return workflow.Node{ID: id, Kind: kind, Config: cfg, ContainerID: workflow.NoNode, MacroParent: workflow.NoNode}
}

func link(from, to int) workflow.Edge {
	return workflow.Edge{From: from, FromAnchor: workflow.DefaultOutputAnchor, To: to, ToAnchor: workflow.DefaultInputAnchor}
}

func anchored(from int, anchor string, to int) workflow.Edge {
	return workflow.Edge{From: from, FromAnchor: anchor, To: to, ToAnchor: workflow.DefaultInputAnchor}
}

func build(t *testing.T, nodes []workflow.Node, edges ...workflow.Edge) *workflow.Graph {
	t.Helper()
	b := workflow.NewBuilder(workflow.Metadata{Name: "test"})
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
