package workflow

import "fmt"

// Default anchor names used when a connection does not name one.
const (
	DefaultOutputAnchor = "Output"
	DefaultInputAnchor  = "Input"
)

// Edge is a directed connection from an output anchor of From to an input
// anchor of To.
type Edge struct {
	From       int
	FromAnchor string
	To         int
	ToAnchor   string
	Wireless   bool
}

func (e Edge) String() string {
	return fmt.Sprintf("%d.%s -> %d.%s", e.From, e.FromAnchor, e.To, e.ToAnchor)
}
