package ingest

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/vk/yxflow/internal/registry"
	"github.com/vk/yxflow/internal/workflow"
)

// extractConfig builds the typed payload for a tool from its Configuration
// element, which may be nil. Kinds without a typed payload yield
// OtherConfig; the raw XML is kept on the node regardless.
func extractConfig(def registry.ToolDefinition, cfg *etree.Element) workflow.Config {
	switch def.Kind {
	case workflow.KindInput:
		c := workflow.InputConfig{
			FilePath:   fileRef(cfg),
			Connection: findText(cfg, ".//Connection"),
			Table:      findText(cfg, ".//Table"),
			Query:      findText(cfg, ".//SQLStatement"),
			Boundary:   def.Boundary,
		}
		if c.Query == "" {
			c.Query = findText(cfg, ".//Query")
		}
		if def.Boundary {
			c.Anchor = childText(cfg, "Name")
		}
		return c
	case workflow.KindOutput:
		c := workflow.OutputConfig{
			FilePath:   fileRef(cfg),
			Connection: findText(cfg, ".//Connection"),
			Table:      findText(cfg, ".//Table"),
			Boundary:   def.Boundary,
		}
		if def.Boundary {
			c.Anchor = childText(cfg, "Name")
		}
		return c
	case workflow.KindFilter:
		return filterConfig(cfg)
	case workflow.KindFormula:
		var c workflow.FormulaConfig
		for _, f := range findAll(cfg, ".//FormulaField") {
			c.Fields = append(c.Fields, workflow.FormulaField{
				Field:      f.SelectAttrValue("field", ""),
				Expression: f.SelectAttrValue("expression", ""),
				Type:       f.SelectAttrValue("type", ""),
			})
		}
		return c
	case workflow.KindJoin:
		return joinConfig(cfg)
	case workflow.KindSummarize:
		var c workflow.SummarizeConfig
		for _, f := range findAll(cfg, ".//SummarizeField") {
			field := f.SelectAttrValue("field", "")
			action := f.SelectAttrValue("action", "")
			if strings.EqualFold(action, "GroupBy") {
				c.GroupBy = append(c.GroupBy, field)
				continue
			}
			c.Aggregations = append(c.Aggregations, workflow.Aggregation{
				Field:      field,
				Action:     action,
				OutputName: f.SelectAttrValue("rename", field),
			})
		}
		return c
	case workflow.KindSelect:
		var c workflow.SelectConfig
		for _, f := range findAll(cfg, ".//SelectField") {
			field := f.SelectAttrValue("field", "")
			selected := !strings.EqualFold(f.SelectAttrValue("selected", "True"), "false")
			switch field {
			case "":
				continue
			case "*Unknown":
				c.KeepUnknown = selected
				continue
			}
			c.Fields = append(c.Fields, workflow.SelectField{
				Field:    field,
				Selected: selected,
				Rename:   f.SelectAttrValue("rename", ""),
			})
		}
		return c
	case workflow.KindSort:
		var c workflow.SortConfig
		terms := findAll(cfg, ".//SortInfo/Field")
		if len(terms) == 0 {
			terms = findAll(cfg, ".//SortInfo")
		}
		for _, f := range terms {
			field := f.SelectAttrValue("field", "")
			if field == "" {
				continue
			}
			c.Fields = append(c.Fields, workflow.SortField{
				Field: field,
				Order: f.SelectAttrValue("order", "Ascending"),
			})
		}
		return c
	case workflow.KindUnion:
		return workflow.UnionConfig{Mode: findText(cfg, ".//Mode")}
	case workflow.KindContainer:
		return workflow.ContainerConfig{
			Caption:  findText(cfg, ".//Caption"),
			Disabled: boolValue(findFirst(cfg, ".//Disabled")),
		}
	case workflow.KindMacro:
		return workflow.MacroConfig{}
	default:
		return workflow.OtherConfig{Plugin: def.Plugin}
	}
}

func filterConfig(cfg *etree.Element) workflow.FilterConfig {
	if strings.EqualFold(findText(cfg, ".//Mode"), "Simple") {
		field := findText(cfg, ".//Simple/Field")
		if field == "" {
			field = findText(cfg, ".//Field")
		}
		op := findText(cfg, ".//Operator")
		if field != "" && op != "" {
			expr := fmt.Sprintf("[%s] %s", field, op)
			var operands []string
			for _, o := range findAll(cfg, ".//Operand") {
				if t := strings.TrimSpace(o.Text()); t != "" {
					operands = append(operands, t)
				}
			}
			if len(operands) > 0 {
				expr += " " + strings.Join(operands, ", ")
			}
			return workflow.FilterConfig{Expression: expr, Simple: true}
		}
	}
	return workflow.FilterConfig{Expression: findText(cfg, ".//Expression")}
}

func joinConfig(cfg *etree.Element) workflow.JoinConfig {
	var c workflow.JoinConfig
	if cfg == nil {
		return c
	}
	c.ByPosition = strings.EqualFold(cfg.SelectAttrValue("joinByRecordPos", ""), "true") ||
		boolValue(cfg.FindElement(".//JoinByRecordPos"))

	for _, f := range findAll(cfg, ".//JoinByFields/Field") {
		left, right := f.SelectAttrValue("left", ""), f.SelectAttrValue("right", "")
		if left != "" && right != "" {
			c.Keys = append(c.Keys, workflow.JoinKey{Left: left, Right: right})
		}
	}

	lefts := fieldNames(cfg.FindElement(".//JoinInfo[@connection='Left']"))
	rights := fieldNames(cfg.FindElement(".//JoinInfo[@connection='Right']"))
	for i := 0; i < len(lefts) && i < len(rights); i++ {
		c.Keys = append(c.Keys, workflow.JoinKey{Left: lefts[i], Right: rights[i]})
	}

	if sj := cfg.FindElement(".//SelectJoinInfo"); sj != nil {
		c.Variant = strings.TrimSpace(sj.SelectAttrValue("connection", ""))
	}
	return c
}

func fieldNames(el *etree.Element) []string {
	if el == nil {
		return nil
	}
	var names []string
	for _, f := range el.SelectElements("Field") {
		if name := f.SelectAttrValue("field", ""); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// fileRef is the text of the File element, or its OutputFileName attribute.
func fileRef(cfg *etree.Element) string {
	f := findFirst(cfg, ".//File")
	if f == nil {
		return ""
	}
	if t := strings.TrimSpace(f.Text()); t != "" {
		return t
	}
	return strings.TrimSpace(f.SelectAttrValue("OutputFileName", ""))
}

// boolValue reads flags written either as value="True" or as element text.
func boolValue(el *etree.Element) bool {
	if el == nil {
		return false
	}
	v := el.SelectAttrValue("value", "")
	if v == "" {
		v = strings.TrimSpace(el.Text())
	}
	return strings.EqualFold(v, "true")
}

func findFirst(el *etree.Element, path string) *etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElement(path)
}

func findAll(el *etree.Element, path string) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElements(path)
}
