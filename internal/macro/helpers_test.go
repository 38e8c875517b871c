package macro

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/ingest"
	"github.com/vk/yxflow/internal/workflow"
)

func quietCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

func tool(id int, plugin string) string {
	return fmt.Sprintf(`<Node ToolID="%d"><GuiSettings Plugin="%s"/><Properties><Configuration/></Properties></Node>`, id, plugin)
}

func macroTool(id int, ref string) string {
	return fmt.Sprintf(`<Node ToolID="%d"><GuiSettings/><Properties><Configuration/></Properties><EngineSettings Macro="%s"/></Node>`, id, ref)
}

func conn(from, to int) string {
	return fmt.Sprintf(`<Connection><Origin ToolID="%d" Connection="Output"/><Destination ToolID="%d" Connection="Input"/></Connection>`, from, to)
}

// chain renders a document whose tools are connected in ID order: first,
// one macro reference per ref, then last.
func chain(first, last string, refs ...string) string {
	var nodes, conns strings.Builder
	nodes.WriteString(tool(1, first))
	for i, ref := range refs {
		nodes.WriteString(macroTool(i+2, ref))
	}
	lastID := len(refs) + 2
	nodes.WriteString(tool(lastID, last))
	for id := 1; id < lastID; id++ {
		conns.WriteString(conn(id, id+1))
	}
	return `<AlteryxDocument yxmdVer="2023.1"><Nodes>` + nodes.String() +
		`</Nodes><Connections>` + conns.String() + `</Connections></AlteryxDocument>`
}

// hostDoc is Input -> refs... -> Output.
func hostDoc(refs ...string) string {
	return chain("AlteryxBasePluginsGui.DbFileInput.DbFileInput", "AlteryxBasePluginsGui.DbFileOutput.DbFileOutput", refs...)
}

// macroDoc is MacroInput -> refs... -> MacroOutput.
func macroDoc(refs ...string) string {
	return chain("AlteryxBasePluginsGui.MacroInput.MacroInput", "AlteryxBasePluginsGui.MacroOutput.MacroOutput", refs...)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseFile(t *testing.T, path string) *workflow.Graph {
	t.Helper()
	g, err := ingest.ParseFile(quietCtx(), path)
	require.NoError(t, err)
	return g
}

// countingParser counts the documents read through it.
type countingParser struct {
	calls atomic.Int32
	inner DocumentParser
}

func newCountingParser() *countingParser {
	return &countingParser{inner: ingest.New(nil)}
}

func (p *countingParser) ParseFile(ctx context.Context, path string) (*workflow.Graph, error) {
	p.calls.Add(1)
	return p.inner.ParseFile(ctx, path)
}

// gatedParser holds parses of files under dir until release is closed.
type gatedParser struct {
	dir     string
	entered chan struct{}
	release chan struct{}
	inner   DocumentParser
}

func newGatedParser(dir string) *gatedParser {
	return &gatedParser{
		dir:     canonical(dir),
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
		inner:   ingest.New(nil),
	}
}

func (p *gatedParser) ParseFile(ctx context.Context, path string) (*workflow.Graph, error) {
	if strings.HasPrefix(canonical(path), p.dir+string(filepath.Separator)) {
		p.entered <- struct{}{}
		<-p.release
	}
	return p.inner.ParseFile(ctx, path)
}
