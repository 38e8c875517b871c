package analyze

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/dag"
	"github.com/vk/yxflow/internal/telemetry"
	"github.com/vk/yxflow/internal/workflow"
)

// Step is one position in the transformation order. Seq starts at 1.
type Step struct {
	Seq    int           `json:"seq" yaml:"seq"`
	NodeID int           `json:"node_id" yaml:"node_id"`
	Kind   workflow.Kind `json:"kind" yaml:"kind"`
	Layer  Layer         `json:"layer" yaml:"layer"`
}

// Result is the analysis of one graph. Directives follow the order of Steps.
type Result struct {
	Steps      []Step
	Layers     map[int]Layer
	Directives []Directive
}

// Directive returns the directive of the given node.
func (r *Result) Directive(id int) (Directive, bool) {
	for _, d := range r.Directives {
		if d.NodeID == id {
			return d, true
		}
	}
	return Directive{}, false
}

// InLayer returns the IDs of the steps of layer l, in step order.
func (r *Result) InLayer(l Layer) []int {
	var ids []int
	for _, s := range r.Steps {
		if s.Layer == l {
			ids = append(ids, s.NodeID)
		}
	}
	return ids
}

// Analyzer runs analyses and records them on its metrics, which may be nil.
type Analyzer struct {
	metrics *telemetry.Metrics
}

// New returns an Analyzer.
func New(m *telemetry.Metrics) *Analyzer {
	return &Analyzer{metrics: m}
}

// Analyze orders, classifies and describes the tools of g using an
// Analyzer without metrics.
func Analyze(ctx context.Context, g *workflow.Graph) (*Result, error) {
	return New(nil).Analyze(ctx, g)
}

// Analyze orders, classifies and describes the tools of g. Containers do
// not take part, and neither do resolved macro references whose edges
// were moved onto the spliced sub-workflow.
func (a *Analyzer) Analyze(ctx context.Context, g *workflow.Graph) (*Result, error) {
	res, err := a.analyze(ctx, g)
	a.metrics.AnalysisDone(err)
	return res, err
}

func (a *Analyzer) analyze(ctx context.Context, g *workflow.Graph) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("document", g.Metadata().SourcePath)

	if pending := g.UnresolvedMacros(); len(pending) > 0 {
		ids := make([]string, len(pending))
		for i, n := range pending {
			ids[i] = fmt.Sprint(n.ID)
		}
		return nil, fmt.Errorf("%w: tools %s", ErrUnresolvedMacros, strings.Join(ids, ", "))
	}

	deps := dag.New()
	members := make(map[int]bool, g.Len())
	for _, n := range g.Nodes() {
		if participates(g, n) {
			deps.AddNode(n.ID)
			members[n.ID] = true
		}
	}
	for _, e := range g.Edges() {
		if !members[e.From] || !members[e.To] {
			continue
		}
		if err := deps.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e, err)
		}
	}

	order, remaining := deps.TopologicalSort()
	if len(remaining) > 0 {
		cycErr := &CyclicDependencyError{Nodes: remaining}
		var closed *dag.CycleError
		if errors.As(deps.DetectCycles(), &closed) {
			cycErr.Closing = closed.Node
		}
		logger.Debug("Transformation order is cyclic.", "remaining", remaining, "closing", cycErr.Closing)
		return nil, cycErr
	}

	res := &Result{
		Steps:      make([]Step, 0, len(order)),
		Layers:     make(map[int]Layer, len(order)),
		Directives: make([]Directive, 0, len(order)),
	}
	for i, id := range order {
		n, _ := g.Node(id)
		upstream, _ := deps.Dependencies(id)
		downstream, _ := deps.Dependents(id)
		layer := classify(n, len(upstream), len(downstream))

		res.Steps = append(res.Steps, Step{Seq: i + 1, NodeID: id, Kind: n.Kind, Layer: layer})
		res.Layers[id] = layer
		res.Directives = append(res.Directives, Directive{
			NodeID:     id,
			Kind:       n.Kind,
			Layer:      layer,
			Inputs:     upstream,
			Parameters: parameters(n, usedAnchors(g, id)),
		})
	}

	logger.Debug("Analyzed workflow.",
		"steps", len(res.Steps),
		"bronze", len(res.InLayer(Bronze)),
		"silver", len(res.InLayer(Silver)),
		"gold", len(res.InLayer(Gold)))
	return res, nil
}

func participates(g *workflow.Graph, n workflow.Node) bool {
	switch {
	case n.Kind == workflow.KindContainer:
		return false
	case n.IsResolvedMacro():
		in, out := g.Degree(n.ID)
		return in+out > 0
	default:
		return true
	}
}

// usedAnchors returns the distinct output anchors of id that have edges,
// sorted.
func usedAnchors(g *workflow.Graph, id int) []string {
	var anchors []string
	for _, e := range g.EdgesFrom(id) {
		a := strings.ToUpper(e.FromAnchor)
		if !slices.Contains(anchors, a) {
			anchors = append(anchors, a)
		}
	}
	slices.Sort(anchors)
	return anchors
}
