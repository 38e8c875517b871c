package workflow

import (
	"fmt"
	"strings"
)

// Kind classifies a node by the tool it instantiates.
type Kind int

const (
	KindOther Kind = iota
	KindInput
	KindOutput
	KindFilter
	KindFormula
	KindJoin
	KindSummarize
	KindSelect
	KindSort
	KindUnion
	KindContainer
	KindMacro
)

var kindNames = map[Kind]string{
	KindOther:     "other",
	KindInput:     "input",
	KindOutput:    "output",
	KindFilter:    "filter",
	KindFormula:   "formula",
	KindJoin:      "join",
	KindSummarize: "summarize",
	KindSelect:    "select",
	KindSort:      "sort",
	KindUnion:     "union",
	KindContainer: "container",
	KindMacro:     "macro",
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindInput, KindOutput, KindFilter, KindFormula, KindJoin, KindSummarize,
		KindSelect, KindSort, KindUnion, KindContainer, KindMacro, KindOther,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String and is case-insensitive.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == want {
			return k, nil
		}
	}
	return KindOther, fmt.Errorf("unknown node kind %q", s)
}

// MarshalText lets kinds appear as plain strings in YAML and JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
