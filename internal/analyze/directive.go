package analyze

import (
	"slices"
	"strings"

	"github.com/vk/yxflow/internal/workflow"
	"github.com/zclconf/go-cty/cty"
)

// Directive is the target-agnostic summary of one step handed to code
// generators. Parameters is always an object value; its attributes depend
// on Kind.
type Directive struct {
	NodeID     int
	Kind       workflow.Kind
	Layer      Layer
	Inputs     []int
	Parameters cty.Value
}

// Join variants.
const (
	JoinInner     = "inner"
	JoinLeft      = "left"
	JoinRight     = "right"
	JoinFull      = "full"
	JoinLeftOnly  = "left_only"
	JoinRightOnly = "right_only"
	JoinOuterOnly = "outer_only"
)

// Join output anchors.
const (
	anchorJoined = "J"
	anchorLeft   = "L"
	anchorRight  = "R"
)

var (
	assignmentType  = cty.Object(map[string]cty.Type{"field": cty.String, "expression": cty.String, "type": cty.String, "fields": cty.List(cty.String)})
	keyPairType     = cty.Object(map[string]cty.Type{"left": cty.String, "right": cty.String})
	aggregationType = cty.Object(map[string]cty.Type{"field": cty.String, "operation": cty.String, "output_name": cty.String})
	columnType      = cty.Object(map[string]cty.Type{"field": cty.String, "rename": cty.String})
	orderType       = cty.Object(map[string]cty.Type{"field": cty.String, "direction": cty.String})
)

// parameters builds the directive parameters of n. anchors lists the
// output anchors of n that feed downstream tools.
func parameters(n workflow.Node, anchors []string) cty.Value {
	switch c := n.Config.(type) {
	case workflow.InputConfig:
		return cty.ObjectVal(map[string]cty.Value{
			"source":     cty.StringVal(c.FilePath),
			"connection": cty.StringVal(c.Connection),
			"table":      cty.StringVal(c.Table),
			"query":      cty.StringVal(c.Query),
			"anchor":     cty.StringVal(c.Anchor),
			"boundary":   cty.BoolVal(c.Boundary),
		})
	case workflow.OutputConfig:
		return cty.ObjectVal(map[string]cty.Value{
			"target":     cty.StringVal(c.FilePath),
			"connection": cty.StringVal(c.Connection),
			"table":      cty.StringVal(c.Table),
			"anchor":     cty.StringVal(c.Anchor),
			"boundary":   cty.BoolVal(c.Boundary),
		})
	case workflow.FilterConfig:
		predicate, fields := NormalizeExpression(c.Expression)
		return cty.ObjectVal(map[string]cty.Value{
			"predicate": cty.StringVal(predicate),
			"fields":    stringList(fields),
			"simple":    cty.BoolVal(c.Simple),
		})
	case workflow.FormulaConfig:
		assignments := make([]cty.Value, 0, len(c.Fields))
		for _, f := range c.Fields {
			expr, fields := NormalizeExpression(f.Expression)
			assignments = append(assignments, cty.ObjectVal(map[string]cty.Value{
				"field":      cty.StringVal(NormalizeField(f.Field)),
				"expression": cty.StringVal(expr),
				"type":       cty.StringVal(f.Type),
				"fields":     stringList(fields),
			}))
		}
		return cty.ObjectVal(map[string]cty.Value{
			"assignments": objectList(assignmentType, assignments),
		})
	case workflow.JoinConfig:
		keys := make([]cty.Value, 0, len(c.Keys))
		for _, k := range c.Keys {
			keys = append(keys, cty.ObjectVal(map[string]cty.Value{
				"left":  cty.StringVal(NormalizeField(k.Left)),
				"right": cty.StringVal(NormalizeField(k.Right)),
			}))
		}
		return cty.ObjectVal(map[string]cty.Value{
			"variant":     cty.StringVal(joinVariant(c.Variant, anchors)),
			"by_position": cty.BoolVal(c.ByPosition),
			"keys":        objectList(keyPairType, keys),
			"anchors":     stringList(anchors),
		})
	case workflow.SummarizeConfig:
		groupBy := make([]string, len(c.GroupBy))
		for i, f := range c.GroupBy {
			groupBy[i] = NormalizeField(f)
		}
		aggs := make([]cty.Value, 0, len(c.Aggregations))
		for _, a := range c.Aggregations {
			field := NormalizeField(a.Field)
			output := a.OutputName
			if output == "" {
				output = field
			}
			aggs = append(aggs, cty.ObjectVal(map[string]cty.Value{
				"field":       cty.StringVal(field),
				"operation":   cty.StringVal(NormalizeAggregation(a.Action)),
				"output_name": cty.StringVal(output),
			}))
		}
		return cty.ObjectVal(map[string]cty.Value{
			"group_by":     stringList(groupBy),
			"aggregations": objectList(aggregationType, aggs),
		})
	case workflow.SelectConfig:
		var (
			columns []cty.Value
			dropped []string
		)
		for _, f := range c.Fields {
			field := NormalizeField(f.Field)
			if !f.Selected {
				dropped = append(dropped, field)
				continue
			}
			columns = append(columns, cty.ObjectVal(map[string]cty.Value{
				"field":  cty.StringVal(field),
				"rename": cty.StringVal(f.Rename),
			}))
		}
		return cty.ObjectVal(map[string]cty.Value{
			"columns":      objectList(columnType, columns),
			"dropped":      stringList(dropped),
			"keep_unknown": cty.BoolVal(c.KeepUnknown),
		})
	case workflow.SortConfig:
		terms := make([]cty.Value, 0, len(c.Fields))
		for _, f := range c.Fields {
			terms = append(terms, cty.ObjectVal(map[string]cty.Value{
				"field":     cty.StringVal(NormalizeField(f.Field)),
				"direction": cty.StringVal(sortDirection(f.Order)),
			}))
		}
		return cty.ObjectVal(map[string]cty.Value{
			"order_by": objectList(orderType, terms),
		})
	case workflow.UnionConfig:
		return cty.ObjectVal(map[string]cty.Value{
			"mode": cty.StringVal(c.Mode),
		})
	case workflow.MacroConfig:
		params := map[string]cty.Value{
			"reference": cty.StringVal(n.Macro.Reference),
			"status":    cty.StringVal(n.Macro.State.String()),
			"reason":    cty.StringVal(""),
			"path":      cty.StringVal(""),
		}
		if n.Macro.State == workflow.MacroMissing {
			params["reason"] = cty.StringVal(n.Macro.Reason.String())
		}
		if e := n.Macro.Expansion; e != nil {
			params["path"] = cty.StringVal(e.SourcePath)
		}
		return cty.ObjectVal(params)
	case workflow.OtherConfig:
		return cty.ObjectVal(map[string]cty.Value{
			"plugin": cty.StringVal(c.Plugin),
		})
	default:
		return cty.ObjectVal(map[string]cty.Value{
			"plugin": cty.StringVal(n.Plugin),
		})
	}
}

// joinVariant prefers an explicit variant and otherwise derives one from
// the join output anchors that are connected downstream.
func joinVariant(explicit string, anchors []string) string {
	if v := strings.ToLower(strings.TrimSpace(explicit)); v != "" {
		return v
	}
	j := slices.Contains(anchors, anchorJoined)
	l := slices.Contains(anchors, anchorLeft)
	r := slices.Contains(anchors, anchorRight)
	switch {
	case j && l && r:
		return JoinFull
	case j && l:
		return JoinLeft
	case j && r:
		return JoinRight
	case l && r:
		return JoinOuterOnly
	case l:
		return JoinLeftOnly
	case r:
		return JoinRightOnly
	default:
		return JoinInner
	}
}

func sortDirection(order string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(order)), "desc") {
		return "desc"
	}
	return "asc"
}

func stringList(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

func objectList(ty cty.Type, vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.ListValEmpty(ty)
	}
	return cty.ListVal(vals)
}
