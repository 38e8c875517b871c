package workflow

import "fmt"

// MacroState is the lifecycle position of a macro reference.
type MacroState int

const (
	MacroUnresolved MacroState = iota
	MacroSearching
	MacroResolved
	MacroMissing
)

func (s MacroState) String() string {
	switch s {
	case MacroUnresolved:
		return "unresolved"
	case MacroSearching:
		return "searching"
	case MacroResolved:
		return "resolved"
	case MacroMissing:
		return "missing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state can no longer change.
func (s MacroState) Terminal() bool {
	return s == MacroResolved || s == MacroMissing
}

func (s MacroState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MissingReason explains why a reference ended in MacroMissing.
type MissingReason int

const (
	ReasonNone MissingReason = iota
	ReasonNotFound
	ReasonParseFailed
	ReasonCircular
	ReasonSkipped
)

func (r MissingReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonNotFound:
		return "not_found"
	case ReasonParseFailed:
		return "parse_failed"
	case ReasonCircular:
		return "circular"
	case ReasonSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

func (r MissingReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// MacroRef is the resolution state carried by a Macro node.
type MacroRef struct {
	Reference string
	State     MacroState
	Reason    MissingReason
	Detail    string
	Expansion *Expansion
}

// Expansion records how a resolved reference was spliced into its host.
// It is shared between graph values and must not be modified.
type Expansion struct {
	// SourcePath is the file that satisfied the reference.
	SourcePath string
	// Location names the search step that found it, e.g. "macros-dir".
	Location string
	// Graph is the fully resolved sub-workflow, in its own ID space.
	Graph *Graph
	// IDMap maps sub-workflow node IDs to host node IDs.
	IDMap map[int]int
	// Inputs and Outputs map anchor names to the host IDs of the boundary
	// nodes exposed in place of the reference node's own anchors.
	Inputs  map[string]int
	Outputs map[string]int
}
