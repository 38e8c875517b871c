package workflow

import "github.com/vk/yxflow/internal/nodeid"

// NoNode marks an absent node reference, e.g. a node outside any container.
const NoNode = -1

// Point is a layout position on the designer canvas. It never affects analysis.
type Point struct {
	X float64
	Y float64
}

// Node is one tool instance.
type Node struct {
	ID         int
	Kind       Kind
	Plugin     string
	Label      string
	Position   Point
	Annotation string
	Config     Config
	RawConfig  string

	// ContainerID is the enclosing Container node, or NoNode.
	ContainerID int
	// Children is only populated on Container nodes.
	Children []int

	// Macro is only meaningful on Macro nodes.
	Macro MacroRef

	// Origin records where the node was declared; see package nodeid.
	Origin nodeid.Address
	// MacroParent is the macro reference node this node was expanded from,
	// or NoNode for nodes declared in the host document.
	MacroParent int
}

// InContainer reports whether the node is grouped by a container.
func (n Node) InContainer() bool {
	return n.ContainerID != NoNode
}

// IsResolvedMacro reports whether the node is a macro reference whose
// sub-workflow has been spliced into the graph.
func (n Node) IsResolvedMacro() bool {
	return n.Kind == KindMacro && n.Macro.State == MacroResolved
}

// DisplayName is the label, falling back to the annotation and then the kind.
func (n Node) DisplayName() string {
	switch {
	case n.Label != "":
		return n.Label
	case n.Annotation != "":
		return n.Annotation
	default:
		return n.Kind.String()
	}
}

func (n Node) clone() Node {
	c := n
	if n.Children != nil {
		c.Children = append([]int(nil), n.Children...)
	}
	if len(n.Origin.Path) > 0 {
		c.Origin = n.Origin.Nest(nodeid.Address{})
	}
	return c
}
