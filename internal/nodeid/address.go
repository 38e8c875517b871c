package nodeid

import (
	"fmt"
	"slices"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a Address) String() string {
	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		if segment.HasIndex() {
			sb.WriteString(fmt.Sprintf("[%d]", segment.Index))
		}
	}
	return sb.String()
}

// Equal checks two addresses segment by segment.
func (a Address) Equal(other Address) bool {
	return slices.Equal(a.Path, other.Path)
}

// IsZero reports whether the address has no segments.
func (a Address) IsZero() bool {
	return len(a.Path) == 0
}

// Depth is the number of macro expansions the address passes through.
// A tool declared directly in a document has depth 0.
func (a Address) Depth() int {
	if len(a.Path) == 0 {
		return 0
	}
	return len(a.Path) - 1
}

// Nest prefixes the address with the segments of parent. The result never
// shares its backing array with either input.
func (a Address) Nest(parent Address) Address {
	path := make([]PathSegment, 0, len(parent.Path)+len(a.Path))
	path = append(path, parent.Path...)
	path = append(path, a.Path...)
	return Address{Path: path}
}

// Leaf returns the index of the last tool segment, or -1.
func (a Address) Leaf() int {
	if len(a.Path) == 0 {
		return -1
	}
	return a.Path[len(a.Path)-1].Index
}
