package macro

import (
	"context"

	"github.com/vk/yxflow/internal/workflow"
)

// Action is what a MissingHandler wants done about a missing reference.
type Action int

const (
	// ActionSkip marks the reference missing and skips it for the rest of
	// the run.
	ActionSkip Action = iota
	// ActionRetry adds a directory to the search path and searches again.
	ActionRetry
	// ActionForcePath tries one specific file.
	ActionForcePath
	// ActionSkipAll marks the reference missing and stops consulting the
	// handler for the rest of the run.
	ActionSkipAll
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionRetry:
		return "retry"
	case ActionForcePath:
		return "force_path"
	case ActionSkipAll:
		return "skip_all"
	default:
		return "unknown"
	}
}

// Decision is a handler's answer. Path is the directory for ActionRetry
// and the file for ActionForcePath.
type Decision struct {
	Action Action
	Path   string
}

// Retry asks the resolver to add dir to its search directories and search again.
func Retry(dir string) Decision { return Decision{Action: ActionRetry, Path: dir} }

// ForcePath asks the resolver to use the file at path.
func ForcePath(path string) Decision { return Decision{Action: ActionForcePath, Path: path} }

// Skip gives up on the reference.
func Skip() Decision { return Decision{Action: ActionSkip} }

// SkipAll gives up on the reference and on asking about later ones.
func SkipAll() Decision { return Decision{Action: ActionSkipAll} }

// MissingRequest describes a reference the search could not satisfy.
type MissingRequest struct {
	// Document is the source path of the document containing the node.
	Document  string
	NodeID    int
	Reference string
	// Reason and Detail describe the most recent failure.
	Reason workflow.MissingReason
	Detail string
	// Attempt counts from 1.
	Attempt int
}

// MissingHandler is consulted, in interactive mode only, when a reference
// cannot be found. Calls are serialized by the Resolver.
type MissingHandler interface {
	OnMissing(ctx context.Context, req MissingRequest) Decision
}

// HandlerFunc adapts a function to MissingHandler.
type HandlerFunc func(ctx context.Context, req MissingRequest) Decision

// OnMissing calls f.
func (f HandlerFunc) OnMissing(ctx context.Context, req MissingRequest) Decision {
	return f(ctx, req)
}
