package macro

import (
	"errors"
	"fmt"

	"github.com/vk/yxflow/internal/workflow"
)

// ErrMacroResolution is the sentinel behind every unresolved reference.
var ErrMacroResolution = errors.New("macro resolution failed")

// MissingError describes a reference that ended in the missing state.
// Wraps ErrMacroResolution for errors.Is() compatibility.
type MissingError struct {
	NodeID    int
	Reference string
	Reason    workflow.MissingReason
	Detail    string
}

func (e *MissingError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: tool %d: %q: %s", ErrMacroResolution.Error(), e.NodeID, e.Reference, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *MissingError) Unwrap() error { return ErrMacroResolution }
