package nodeid

// ToolSegment is the segment name used for workflow tools.
const ToolSegment = "tool"

// PathSegment represents a single component of an address path, e.g., `name[index]`.
type PathSegment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewPathSegment creates a new path segment without an index.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name, Index: -1}
}

// NewPathSegmentWithIndex creates a new path segment that includes an index.
func NewPathSegmentWithIndex(name string, index int) PathSegment {
	return PathSegment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (ps PathSegment) HasIndex() bool {
	return ps.Index != -1
}

// Address is the structured provenance of a node, modeled as a path.
type Address struct {
	Path []PathSegment
}

// Tool returns the address of a tool declared directly in a document.
func Tool(id int) Address {
	return Address{Path: []PathSegment{NewPathSegmentWithIndex(ToolSegment, id)}}
}
