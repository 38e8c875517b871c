package workflow

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/yxflow/internal/nodeid"
)

// SpliceSource describes where a sub-workflow was found.
type SpliceSource struct {
	Path     string
	Location string
}

// boundary is a node of a sub-workflow exposed as an anchor of the macro
// reference that replaces it.
type boundary struct {
	anchor string
	id     int
}

// Splice expands the macro reference refID of host into sub and returns the
// combined graph. Neither input is modified.
//
// The nodes of sub are copied into the host with fresh IDs starting at
// host.MaxID()+1, assigned in ascending order of their original IDs, and
// their edges come along unchanged apart from the renumbering. Host edges
// that ended at the reference are re-targeted to the sub-workflow's Input
// boundary tools and host edges that left it now leave its Output boundary
// tools; see pickBoundary for how anchors are matched. The reference node
// stays in the graph in the resolved state and records the mapping.
// Diagnostics of sub are carried over on the reference, prefixed with it.
func Splice(host *Graph, refID int, sub *Graph, src SpliceSource) (*Graph, error) {
	ref, ok := host.Node(refID)
	if !ok {
		return nil, structural(refID, "macro reference does not exist")
	}
	if ref.Kind != KindMacro {
		return nil, structural(refID, "node of kind %s is not a macro reference", ref.Kind)
	}
	if ref.Macro.State.Terminal() {
		return nil, fmt.Errorf("tool %d: %w", refID, ErrTerminalState)
	}

	refOrigin := ref.Origin
	if refOrigin.IsZero() {
		refOrigin = nodeid.Tool(ref.ID)
	}

	next := host.MaxID() + 1
	idMap := make(map[int]int, sub.Len())
	for i, n := range sub.nodes {
		idMap[n.ID] = next + i
	}

	b := NewBuilder(host.meta)
	b.diags = append(b.diags, host.diags...)
	for _, d := range sub.diags {
		b.Warn(refID, "%s: %s", ref.Macro.Reference, d)
	}
	for _, n := range host.nodes {
		if n.ID != refID {
			b.AddNode(n)
		}
	}

	for _, n := range sub.nodes {
		c := n.clone()
		c.ID = idMap[n.ID]
		if n.InContainer() {
			c.ContainerID = idMap[n.ContainerID]
		}
		for i, child := range c.Children {
			c.Children[i] = idMap[child]
		}
		if n.MacroParent == NoNode {
			c.MacroParent = refID
		} else {
			c.MacroParent = idMap[n.MacroParent]
		}
		origin := n.Origin
		if origin.IsZero() {
			origin = nodeid.Tool(n.ID)
		}
		c.Origin = origin.Nest(refOrigin)
		if n.Macro.Expansion != nil {
			c.Macro.Expansion = n.Macro.Expansion.remap(idMap)
		}
		b.nodes = append(b.nodes, c)
	}
	for _, e := range sub.edges {
		e.From, e.To = idMap[e.From], idMap[e.To]
		b.AddEdge(e)
	}

	inputs := boundaries(sub, KindInput)
	outputs := boundaries(sub, KindOutput)
	for _, e := range host.edges {
		switch {
		case e.To == refID:
			if target, ok := pickBoundary(inputs, e.ToAnchor); ok {
				e.To, e.ToAnchor = idMap[target.id], DefaultInputAnchor
			}
		case e.From == refID:
			if source, ok := pickBoundary(outputs, e.FromAnchor); ok {
				e.From, e.FromAnchor = idMap[source.id], DefaultOutputAnchor
			}
		}
		b.AddEdge(e)
	}

	exp := &Expansion{
		SourcePath: src.Path,
		Location:   src.Location,
		Graph:      sub,
		IDMap:      idMap,
		Inputs:     anchorMap(inputs, idMap),
		Outputs:    anchorMap(outputs, idMap),
	}
	resolved := ref.clone()
	resolved.Macro.State = MacroResolved
	resolved.Macro.Reason = ReasonNone
	resolved.Macro.Expansion = exp
	b.AddNode(resolved)

	return b.Build()
}

// boundaries lists the nodes of sub that stand in for the reference's
// anchors of the given direction. Macro Input/Output tools are preferred;
// a sub-workflow without them exposes its lowest-ID entry (or exit) node.
func boundaries(sub *Graph, kind Kind) []boundary {
	var found []boundary
	for _, n := range sub.nodes {
		if n.Kind != kind {
			continue
		}
		anchor, isBoundary := boundaryAnchor(n)
		if isBoundary {
			found = append(found, boundary{anchor: anchor, id: n.ID})
		}
	}
	if len(found) > 0 {
		return found
	}

	for _, n := range sub.nodes {
		if n.Kind == KindContainer {
			continue
		}
		in, out := sub.Degree(n.ID)
		if (kind == KindInput && in == 0) || (kind == KindOutput && out == 0) {
			return []boundary{{id: n.ID}}
		}
	}
	return nil
}

func boundaryAnchor(n Node) (string, bool) {
	var anchor string
	switch cfg := n.Config.(type) {
	case InputConfig:
		if !cfg.Boundary {
			return "", false
		}
		anchor = cfg.Anchor
	case OutputConfig:
		if !cfg.Boundary {
			return "", false
		}
		anchor = cfg.Anchor
	default:
		return "", false
	}
	if anchor == "" {
		anchor = n.Annotation
	}
	if anchor == "" {
		prefix := DefaultInputAnchor
		if n.Kind == KindOutput {
			prefix = DefaultOutputAnchor
		}
		anchor = fmt.Sprintf("%s%d", prefix, n.ID)
	}
	return anchor, true
}

// pickBoundary matches an anchor name case-insensitively, falls back to the
// only boundary when there is one, and otherwise to the lowest-ID one.
func pickBoundary(candidates []boundary, anchor string) (boundary, bool) {
	if len(candidates) == 0 {
		return boundary{}, false
	}
	for _, c := range candidates {
		if c.anchor != "" && strings.EqualFold(c.anchor, anchor) {
			return c, true
		}
	}
	return candidates[0], true
}

func anchorMap(bs []boundary, idMap map[int]int) map[string]int {
	m := make(map[string]int, len(bs))
	for _, b := range bs {
		if b.anchor != "" {
			m[b.anchor] = idMap[b.id]
		}
	}
	return m
}

func (e *Expansion) remap(idMap map[int]int) *Expansion {
	c := *e
	c.IDMap = make(map[int]int, len(e.IDMap))
	for k, v := range e.IDMap {
		c.IDMap[k] = idMap[v]
	}
	c.Inputs = make(map[string]int, len(e.Inputs))
	for k, v := range e.Inputs {
		c.Inputs[k] = idMap[v]
	}
	c.Outputs = make(map[string]int, len(e.Outputs))
	for k, v := range e.Outputs {
		c.Outputs[k] = idMap[v]
	}
	return &c
}

// WithMacroState returns a copy of g in which the macro reference id carries
// the given state. References that already reached a terminal state cannot
// change; ErrTerminalState is returned for them.
func WithMacroState(g *Graph, id int, ref MacroRef) (*Graph, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, structural(id, "macro reference does not exist")
	}
	n := g.nodes[i]
	if n.Kind != KindMacro {
		return nil, structural(id, "node of kind %s is not a macro reference", n.Kind)
	}
	if n.Macro.State.Terminal() {
		return nil, fmt.Errorf("tool %d: %w", id, ErrTerminalState)
	}
	if ref.Reference == "" {
		ref.Reference = n.Macro.Reference
	}

	c := *g
	c.nodes = slices.Clone(g.nodes)
	n.Macro = ref
	c.nodes[i] = n
	return &c, nil
}
