package macro

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vk/yxflow/internal/workflow"
)

// Outcome is what happened to one macro node.
type Outcome struct {
	NodeID    int                    `json:"node_id" yaml:"node_id"`
	Reference string                 `json:"reference" yaml:"reference"`
	State     workflow.MacroState    `json:"state" yaml:"state"`
	Reason    workflow.MissingReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Path      string                 `json:"path,omitempty" yaml:"path,omitempty"`
	Location  string                 `json:"location,omitempty" yaml:"location,omitempty"`
	FromCache bool                   `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
	Detail    string                 `json:"detail,omitempty" yaml:"detail,omitempty"`
	// Via lists the references enclosing a node expanded from a macro,
	// outermost first. It is empty for nodes of the document itself.
	Via []string `json:"via,omitempty" yaml:"via,omitempty"`
}

// Missing reports whether the reference was left unresolved.
func (o Outcome) Missing() bool {
	return o.State == workflow.MacroMissing
}

// Err returns a *MissingError for missing outcomes and nil otherwise.
func (o Outcome) Err() error {
	if !o.Missing() {
		return nil
	}
	return &MissingError{NodeID: o.NodeID, Reference: o.Reference, Reason: o.Reason, Detail: o.Detail}
}

// Report lists the outcomes of one Resolve call in the order they were
// decided: ascending node ID, each reference followed by the nested
// references expanded inside it.
type Report struct {
	RunID    uuid.UUID `json:"run_id" yaml:"run_id"`
	Document string    `json:"document" yaml:"document"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

func newReport(document string) *Report {
	return &Report{RunID: uuid.New(), Document: document}
}

// Empty reports whether nothing needed resolving.
func (r *Report) Empty() bool {
	return r == nil || len(r.Outcomes) == 0
}

// Missing returns the outcomes left unresolved.
func (r *Report) Missing() []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Missing() {
			out = append(out, o)
		}
	}
	return out
}

// Resolved returns the outcomes that were spliced.
func (r *Report) Resolved() []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.State == workflow.MacroResolved {
			out = append(out, o)
		}
	}
	return out
}

// Err joins the errors of all missing outcomes, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Missing() {
		errs = append(errs, o.Err())
	}
	return errors.Join(errs...)
}
