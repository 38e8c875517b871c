package workflow

// Config is the typed configuration payload of a node. The set of
// implementations is closed: one per Kind, plus OtherConfig for tools the
// registry does not know about. Consumers are expected to type-switch over
// it exhaustively.
type Config interface {
	Kind() Kind
	isConfig()
}

// InputConfig describes where an Input tool reads from. Boundary is set for
// the Macro Input tools that form a macro's input anchors.
type InputConfig struct {
	FilePath   string
	Connection string
	Table      string
	Query      string
	Anchor     string
	Boundary   bool
}

// OutputConfig describes where an Output tool writes to.
type OutputConfig struct {
	FilePath   string
	Connection string
	Table      string
	Anchor     string
	Boundary   bool
}

// FilterConfig holds the predicate of a Filter tool in the source format's
// expression syntax. Simple-mode filters are rendered into the same syntax.
type FilterConfig struct {
	Expression string
	Simple     bool
}

// FormulaField is one computed column of a Formula tool.
type FormulaField struct {
	Field      string
	Expression string
	Type       string
}

// FormulaConfig is the ordered list of assignments of a Formula tool.
type FormulaConfig struct {
	Fields []FormulaField
}

// JoinKey pairs a left-input field with a right-input field.
type JoinKey struct {
	Left  string
	Right string
}

// JoinConfig describes a Join tool. Variant is empty unless the document
// states it explicitly.
type JoinConfig struct {
	ByPosition bool
	Keys       []JoinKey
	Variant    string
}

// Aggregation is one non-grouping action of a Summarize tool.
type Aggregation struct {
	Field      string
	Action     string
	OutputName string
}

// SummarizeConfig splits Summarize fields into group-by and aggregations.
type SummarizeConfig struct {
	GroupBy      []string
	Aggregations []Aggregation
}

// SelectField is a single column decision of a Select tool.
type SelectField struct {
	Field    string
	Selected bool
	Rename   string
}

// SelectConfig lists the column decisions of a Select tool. KeepUnknown
// records the `*Unknown` wildcard entry.
type SelectConfig struct {
	Fields      []SelectField
	KeepUnknown bool
}

// SortField is one ordering term.
type SortField struct {
	Field string
	Order string
}

// SortConfig is the ordered list of sort terms.
type SortConfig struct {
	Fields []SortField
}

// UnionConfig records how a Union tool lines up its inputs.
type UnionConfig struct {
	Mode string
}

// ContainerConfig is the presentation state of a tool container.
type ContainerConfig struct {
	Caption  string
	Disabled bool
}

// MacroConfig carries the external reference of a macro node.
type MacroConfig struct {
	Reference string
}

// OtherConfig is the escape hatch for tools without a typed payload; the
// raw XML stays on Node.RawConfig.
type OtherConfig struct {
	Plugin string
}

func (InputConfig) Kind() Kind     { return KindInput }
func (OutputConfig) Kind() Kind    { return KindOutput }
func (FilterConfig) Kind() Kind    { return KindFilter }
func (FormulaConfig) Kind() Kind   { return KindFormula }
func (JoinConfig) Kind() Kind      { return KindJoin }
func (SummarizeConfig) Kind() Kind { return KindSummarize }
func (SelectConfig) Kind() Kind    { return KindSelect }
func (SortConfig) Kind() Kind      { return KindSort }
func (UnionConfig) Kind() Kind     { return KindUnion }
func (ContainerConfig) Kind() Kind { return KindContainer }
func (MacroConfig) Kind() Kind     { return KindMacro }
func (OtherConfig) Kind() Kind     { return KindOther }

func (InputConfig) isConfig()     {}
func (OutputConfig) isConfig()    {}
func (FilterConfig) isConfig()    {}
func (FormulaConfig) isConfig()   {}
func (JoinConfig) isConfig()      {}
func (SummarizeConfig) isConfig() {}
func (SelectConfig) isConfig()    {}
func (SortConfig) isConfig()      {}
func (UnionConfig) isConfig()     {}
func (ContainerConfig) isConfig() {}
func (MacroConfig) isConfig()     {}
func (OtherConfig) isConfig()     {}

// HasAggregations reports whether a configuration carries a non-empty
// aggregation list.
func HasAggregations(c Config) bool {
	s, ok := c.(SummarizeConfig)
	return ok && len(s.Aggregations) > 0
}
