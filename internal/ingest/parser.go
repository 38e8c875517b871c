package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/registry"
	"github.com/vk/yxflow/internal/telemetry"
	"github.com/vk/yxflow/internal/workflow"
)

// Extensions lists the document types ParseFile accepts.
var Extensions = []string{".yxmd", ".yxmc", ".yxwz"}

// Parser turns documents into graphs using a tool registry. It holds no
// per-document state and is safe for concurrent use.
type Parser struct {
	registry *registry.Registry
	metrics  *telemetry.Metrics
}

// Option configures a Parser.
type Option func(*Parser)

// WithMetrics records ingestion counters on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// New returns a Parser classifying tools with reg. A nil reg means the
// built-in plugin table.
func New(reg *registry.Registry, opts ...Option) *Parser {
	if reg == nil {
		reg = registry.New()
	}
	p := &Parser{registry: reg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a document with the built-in plugin table.
func Parse(ctx context.Context, r io.Reader, sourcePath string) (*workflow.Graph, error) {
	return New(nil).Parse(ctx, r, sourcePath)
}

// ParseFile reads a document file with the built-in plugin table.
func ParseFile(ctx context.Context, path string) (*workflow.Graph, error) {
	return New(nil).ParseFile(ctx, path)
}

// SupportedFile reports whether path has a workflow document extension.
func SupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseFile opens and parses the document at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*workflow.Graph, error) {
	if !SupportedFile(path) {
		err := &FormatError{Path: path, Msg: fmt.Sprintf("unsupported file type %q", filepath.Ext(path))}
		p.metrics.DocumentParsed(err)
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		p.metrics.DocumentParsed(err)
		return nil, fmt.Errorf("opening workflow: %w", err)
	}
	defer f.Close()
	return p.Parse(ctx, f, path)
}

// Parse reads one document. sourcePath is recorded in the metadata and
// anchors relative macro lookups; it may be empty.
func (p *Parser) Parse(ctx context.Context, r io.Reader, sourcePath string) (*workflow.Graph, error) {
	g, err := p.parse(ctx, r, sourcePath)
	p.metrics.DocumentParsed(err)
	return g, err
}

func (p *Parser) parse(ctx context.Context, r io.Reader, sourcePath string) (*workflow.Graph, error) {
	logger := ctxlog.FromContext(ctx).With("document", sourcePath)
	logger.Debug("Parsing workflow document.")

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &FormatError{Path: sourcePath, Msg: "malformed XML", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &FormatError{Path: sourcePath, Msg: "document has no root element"}
	}
	nodesEl := root.SelectElement("Nodes")
	if nodesEl == nil {
		nodesEl = root.FindElement(".//Nodes")
	}
	if nodesEl == nil {
		return nil, &FormatError{Path: sourcePath, Msg: "document has no Nodes element"}
	}

	st := &state{
		parser:   p,
		builder:  workflow.NewBuilder(parseMetadata(root, sourcePath)),
		nodes:    make(map[int]*workflow.Node),
		logger:   logger,
		children: make(map[int][]int),
	}

	st.parseNodes(nodesEl.SelectElements("Node"), workflow.NoNode)
	st.assignContainers()
	for _, n := range st.list {
		st.builder.AddNode(*n)
	}
	st.parseConnections(root.SelectElement("Connections"))

	g, err := st.builder.Build()
	if err != nil {
		logger.Debug("Workflow document is structurally invalid.", "error", err)
		return nil, fmt.Errorf("ingesting %s: %w", displayPath(sourcePath), err)
	}
	logger.Debug("Parsed workflow document.", "nodes", g.Len(), "edges", len(g.Edges()), "diagnostics", len(g.Diagnostics()))
	return g, nil
}

func displayPath(p string) string {
	if p == "" {
		return "<input>"
	}
	return p
}
