package export

import (
	"encoding/json"
	"fmt"

	"github.com/vk/yxflow/internal/analyze"
	"github.com/vk/yxflow/internal/macro"
	"github.com/vk/yxflow/internal/workflow"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Contract is the serializable form of one analyzed document.
type Contract struct {
	Workflow   Workflow       `json:"workflow" yaml:"workflow"`
	Steps      []analyze.Step `json:"steps" yaml:"steps"`
	Layers     map[int]string `json:"layers" yaml:"layers"`
	Directives []Directive    `json:"directives" yaml:"directives"`
	Resolution *macro.Report  `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Stats      map[string]int `json:"stats" yaml:"stats"`
}

// Workflow is the resolved graph.
type Workflow struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	SourcePath  string   `json:"source_path,omitempty" yaml:"source_path,omitempty"`
	Nodes       []Node   `json:"nodes" yaml:"nodes"`
	Edges       []Edge   `json:"edges" yaml:"edges"`
	Diagnostics []string `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Node is one tool of the resolved graph.
type Node struct {
	ID          int    `json:"id" yaml:"id"`
	Kind        string `json:"kind" yaml:"kind"`
	Plugin      string `json:"plugin,omitempty" yaml:"plugin,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Annotation  string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Origin      string `json:"origin,omitempty" yaml:"origin,omitempty"`
	Container   *int   `json:"container,omitempty" yaml:"container,omitempty"`
	Children    []int  `json:"children,omitempty" yaml:"children,omitempty"`
	MacroParent *int   `json:"macro_parent,omitempty" yaml:"macro_parent,omitempty"`
	Macro       *Macro `json:"macro,omitempty" yaml:"macro,omitempty"`
}

// Macro is the resolution state of a macro reference node.
type Macro struct {
	Reference string `json:"reference" yaml:"reference"`
	State     string `json:"state" yaml:"state"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Edge is one connection.
type Edge struct {
	From       int    `json:"from" yaml:"from"`
	FromAnchor string `json:"from_anchor" yaml:"from_anchor"`
	To         int    `json:"to" yaml:"to"`
	ToAnchor   string `json:"to_anchor" yaml:"to_anchor"`
	Wireless   bool   `json:"wireless,omitempty" yaml:"wireless,omitempty"`
}

// Directive is a generation directive with its parameters converted to
// plain maps and lists.
type Directive struct {
	NodeID     int    `json:"node_id" yaml:"node_id"`
	Kind       string `json:"kind" yaml:"kind"`
	Layer      string `json:"layer" yaml:"layer"`
	Inputs     []int  `json:"inputs" yaml:"inputs"`
	Parameters any    `json:"parameters" yaml:"parameters"`
}

// NewContract assembles the contract of g. report may be nil.
func NewContract(g *workflow.Graph, res *analyze.Result, report *macro.Report) (*Contract, error) {
	meta := g.Metadata()
	c := &Contract{
		Workflow: Workflow{
			Name:        meta.Name,
			Description: meta.Description,
			Author:      meta.Author,
			Version:     meta.Version,
			SourcePath:  meta.SourcePath,
			Nodes:       make([]Node, 0, g.Len()),
			Edges:       make([]Edge, 0, len(g.Edges())),
		},
		Steps:      res.Steps,
		Layers:     make(map[int]string, len(res.Layers)),
		Directives: make([]Directive, 0, len(res.Directives)),
		Resolution: report,
		Stats:      make(map[string]int),
	}

	for _, n := range g.Nodes() {
		c.Workflow.Nodes = append(c.Workflow.Nodes, node(n))
	}
	for _, e := range g.Edges() {
		c.Workflow.Edges = append(c.Workflow.Edges, Edge(e))
	}
	for _, d := range g.Diagnostics() {
		c.Workflow.Diagnostics = append(c.Workflow.Diagnostics, d.String())
	}

	for id, l := range res.Layers {
		c.Layers[id] = l.String()
		c.Stats[l.String()]++
	}
	for _, d := range res.Directives {
		params, err := plain(d)
		if err != nil {
			return nil, err
		}
		inputs := d.Inputs
		if inputs == nil {
			inputs = []int{}
		}
		c.Directives = append(c.Directives, Directive{
			NodeID:     d.NodeID,
			Kind:       d.Kind.String(),
			Layer:      d.Layer.String(),
			Inputs:     inputs,
			Parameters: params,
		})
	}

	stats := g.Stats()
	c.Stats["nodes"] = stats.Nodes
	c.Stats["edges"] = stats.Edges
	c.Stats["steps"] = len(res.Steps)
	c.Stats["missing_macros"] = len(report.Missing())
	return c, nil
}

func node(n workflow.Node) Node {
	out := Node{
		ID:         n.ID,
		Kind:       n.Kind.String(),
		Plugin:     n.Plugin,
		Label:      n.Label,
		Annotation: n.Annotation,
		Children:   n.Children,
	}
	if !n.Origin.IsZero() {
		out.Origin = n.Origin.String()
	}
	if n.InContainer() {
		id := n.ContainerID
		out.Container = &id
	}
	if n.MacroParent != workflow.NoNode {
		id := n.MacroParent
		out.MacroParent = &id
	}
	if n.Kind == workflow.KindMacro {
		m := &Macro{Reference: n.Macro.Reference, State: n.Macro.State.String()}
		if n.Macro.State == workflow.MacroMissing {
			m.Reason = n.Macro.Reason.String()
		}
		if e := n.Macro.Expansion; e != nil {
			m.Path = e.SourcePath
			m.Location = e.Location
		}
		out.Macro = m
	}
	return out
}

// plain converts cty parameters to the maps and lists encoding/json
// produces for them.
func plain(d analyze.Directive) (any, error) {
	if d.Parameters.IsNull() {
		return nil, nil
	}
	raw, err := ctyjson.Marshal(d.Parameters, d.Parameters.Type())
	if err != nil {
		return nil, fmt.Errorf("encoding parameters of tool %d: %w", d.NodeID, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding parameters of tool %d: %w", d.NodeID, err)
	}
	return v, nil
}
