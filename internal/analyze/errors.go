package analyze

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCyclicDependency is returned (wrapped) when the graph has no
// topological order.
var ErrCyclicDependency = errors.New("cyclic dependency")

// ErrUnresolvedMacros is returned when the graph still holds macro
// references that were never resolved or marked missing.
var ErrUnresolvedMacros = errors.New("graph has unresolved macro references")

// CyclicDependencyError names the tools left over once every orderable
// tool has been placed.
// Wraps ErrCyclicDependency for errors.Is() compatibility.
type CyclicDependencyError struct {
	Nodes []int
	// Closing is the tool at which a depth-first walk in ID order first
	// meets the cycle, or zero when unknown.
	Closing int
}

func (e *CyclicDependencyError) Error() string {
	if e == nil {
		return ""
	}
	ids := make([]string, len(e.Nodes))
	for i, id := range e.Nodes {
		ids[i] = fmt.Sprint(id)
	}
	msg := fmt.Sprintf("%s among tools %s", ErrCyclicDependency.Error(), strings.Join(ids, ", "))
	if e.Closing != 0 {
		msg += fmt.Sprintf(" (closed at tool %d)", e.Closing)
	}
	return msg
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }
