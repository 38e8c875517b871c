package workflow

import "fmt"

// Diagnostic is a non-fatal ingestion finding: a skipped node record, a
// dropped connection, an unknown container child. Diagnostics travel with
// the graph so callers can surface them next to the result.
type Diagnostic struct {
	// NodeID is the tool the finding is about, or NoNode.
	NodeID  int
	Message string
}

func (d Diagnostic) String() string {
	if d.NodeID == NoNode {
		return d.Message
	}
	return fmt.Sprintf("tool %d: %s", d.NodeID, d.Message)
}
