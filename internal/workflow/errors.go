package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural indicates a document whose graph violates a structural
	// invariant: duplicate IDs, dangling or self-looping edges, broken or
	// cyclic container membership.
	ErrStructural = errors.New("structural error")

	// ErrTerminalState is returned when a macro reference that already
	// reached a terminal state would be changed.
	ErrTerminalState = errors.New("macro reference already in terminal state")
)

// StructuralError carries the offending node, if any.
// Wraps ErrStructural for errors.Is() compatibility.
type StructuralError struct {
	NodeID int
	Msg    string
}

func (e *StructuralError) Error() string {
	if e == nil {
		return ""
	}
	if e.NodeID != NoNode {
		return fmt.Sprintf("%s: tool %d: %s", ErrStructural.Error(), e.NodeID, e.Msg)
	}
	return fmt.Sprintf("%s: %s", ErrStructural.Error(), e.Msg)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

func structural(nodeID int, format string, args ...any) *StructuralError {
	return &StructuralError{NodeID: nodeID, Msg: fmt.Sprintf(format, args...)}
}
