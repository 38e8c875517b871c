package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/workflow"
)

func quietCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

// doc wraps node and connection records in a minimal document.
func doc(nodes, connections string) string {
	return `<?xml version="1.0"?>
<AlteryxDocument yxmdVer="2023.1">
  <Nodes>` + nodes + `</Nodes>
  <Connections>` + connections + `</Connections>
  <Properties>
    <MetaInfo><Name>Test Flow</Name></MetaInfo>
  </Properties>
</AlteryxDocument>`
}

func toolXML(id, plugin, config string) string {
	return `<Node ToolID="` + id + `">
  <GuiSettings Plugin="` + plugin + `"><Position x="10" y="20"/></GuiSettings>
  <Properties><Configuration>` + config + `</Configuration></Properties>
</Node>`
}

func connXML(from, fromAnchor, to, toAnchor string) string {
	return `<Connection><Origin ToolID="` + from + `" Connection="` + fromAnchor + `"/><Destination ToolID="` + to + `" Connection="` + toAnchor + `"/></Connection>`
}

func mustParse(t *testing.T, xml string) *workflow.Graph {
	t.Helper()
	g, err := Parse(quietCtx(), strings.NewReader(xml), "/flows/test.yxmd")
	require.NoError(t, err)
	return g
}

func mustNode(t *testing.T, g *workflow.Graph, id int) workflow.Node {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %d", id)
	return n
}
