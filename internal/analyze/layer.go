package analyze

import (
	"fmt"
	"strings"

	"github.com/vk/yxflow/internal/workflow"
)

// Layer is the medallion tier of a step.
type Layer int

const (
	Bronze Layer = iota + 1
	Silver
	Gold
)

var layerNames = map[Layer]string{
	Bronze: "bronze",
	Silver: "silver",
	Gold:   "gold",
}

func (l Layer) String() string {
	if s, ok := layerNames[l]; ok {
		return s
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLayer is the inverse of Layer.String and is case-insensitive.
func ParseLayer(s string) (Layer, error) {
	for l, name := range layerNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// classify assigns the layer of a node from its kind and its number of
// upstream and downstream neighbours. Sinks are Gold even when they are
// Inputs with no connections at all.
func classify(n workflow.Node, upstream, downstream int) Layer {
	switch {
	case downstream == 0:
		return Gold
	case (n.Kind == workflow.KindSummarize || n.Kind == workflow.KindOutput) && workflow.HasAggregations(n.Config):
		return Gold
	case n.Kind == workflow.KindInput && upstream == 0:
		return Bronze
	default:
		return Silver
	}
}
