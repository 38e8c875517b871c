package ingest

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/vk/yxflow/internal/nodeid"
	"github.com/vk/yxflow/internal/workflow"
)

// state is the per-document scratch space of a parse.
type state struct {
	parser  *Parser
	builder *workflow.Builder
	logger  *slog.Logger

	// nodes holds the first record seen for each ID; list holds every
	// accepted record, duplicates included, so Build can reject them.
	nodes map[int]*workflow.Node
	list  []*workflow.Node

	// children are the member IDs each container declares, in document
	// order, before they are checked against the node set.
	children   map[int][]int
	containers []int
}

func (st *state) warn(nodeID int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	st.logger.Warn(msg, "tool_id", nodeID)
	st.builder.Warn(nodeID, "%s", msg)
}

// parseNodes ingests a list of Node records and returns the IDs accepted.
func (st *state) parseNodes(els []*etree.Element, containerID int) []int {
	var ids []int
	for _, el := range els {
		ids = append(ids, st.parseNode(el, containerID)...)
	}
	return ids
}

// parseNode ingests one record and any records nested in it. It returns the
// IDs accepted at this level: the node itself, or the nested nodes when the
// record itself had to be skipped.
func (st *state) parseNode(el *etree.Element, containerID int) []int {
	own := el.Copy()
	var nested []*etree.Element
	if cn := own.SelectElement("ChildNodes"); cn != nil {
		nested = cn.SelectElements("Node")
		own.RemoveChild(cn)
	}

	id, ok := st.toolID(el)
	if !ok {
		return st.parseNodes(nested, containerID)
	}

	n := st.buildNode(id, own)
	st.record(n)

	nestedIDs := st.parseNodes(nested, id)
	if n.Kind == workflow.KindContainer {
		st.containers = append(st.containers, id)
		declared := containerChildren(own)
		for _, cid := range nestedIDs {
			if !slices.Contains(declared, cid) {
				declared = append(declared, cid)
			}
		}
		st.children[id] = declared
	} else if len(nestedIDs) > 0 {
		st.warn(id, "tool of kind %s carries nested nodes; they are treated as top-level tools", n.Kind)
	}
	return []int{id}
}

func (st *state) toolID(el *etree.Element) (int, bool) {
	raw := strings.TrimSpace(el.SelectAttrValue("ToolID", ""))
	if raw == "" {
		st.warn(workflow.NoNode, "node record without ToolID skipped")
		st.parser.metrics.NodeSkipped()
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		st.warn(workflow.NoNode, "node record with invalid ToolID %q skipped", raw)
		st.parser.metrics.NodeSkipped()
		return 0, false
	}
	return id, true
}

func (st *state) record(n *workflow.Node) {
	if _, seen := st.nodes[n.ID]; !seen {
		st.nodes[n.ID] = n
	}
	st.list = append(st.list, n)
}

// buildNode assembles a node from its own record, ChildNodes removed.
func (st *state) buildNode(id int, el *etree.Element) *workflow.Node {
	n := &workflow.Node{
		ID:          id,
		ContainerID: workflow.NoNode,
		MacroParent: workflow.NoNode,
		Origin:      nodeid.Tool(id),
		Annotation:  annotation(el),
	}

	gui := el.SelectElement("GuiSettings")
	if gui != nil {
		n.Plugin = strings.TrimSpace(gui.SelectAttrValue("Plugin", ""))
		if pos := gui.SelectElement("Position"); pos != nil {
			n.Position = workflow.Point{
				X: attrFloat(pos, "x"),
				Y: attrFloat(pos, "y"),
			}
		}
	}

	cfg := configElement(el)
	n.RawConfig = rawXML(cfg)

	if n.Plugin != "" {
		def := st.parser.registry.Lookup(n.Plugin)
		n.Kind = def.Kind
		n.Label = def.Name
		n.Config = extractConfig(def, cfg)
		if n.Kind != workflow.KindMacro {
			return n
		}
	}

	// No plugin means the tool is an external macro.
	ref := macroReference(el)
	n.Kind = workflow.KindMacro
	n.Config = workflow.MacroConfig{Reference: ref}
	n.Macro = workflow.MacroRef{Reference: ref, State: workflow.MacroUnresolved}
	switch {
	case ref != "":
		n.Label = stem(ref)
	case n.Annotation != "":
		n.Label = n.Annotation
	case n.Label == "":
		n.Label = "Macro"
	}
	return n
}

// configElement finds the tool configuration, which normally lives under
// Properties.
func configElement(el *etree.Element) *etree.Element {
	if cfg := el.FindElement("./Properties/Configuration"); cfg != nil {
		return cfg
	}
	return el.FindElement(".//Configuration")
}

func rawXML(el *etree.Element) string {
	if el == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

func annotation(el *etree.Element) string {
	ann := el.FindElement(".//Properties/Annotation")
	if ann == nil {
		return ""
	}
	if name := childText(ann, "Name"); name != "" {
		return name
	}
	return childText(ann, "DefaultAnnotationText")
}

// macroReference looks for the external file a macro node points at.
func macroReference(el *etree.Element) string {
	if es := el.FindElement(".//EngineSettings"); es != nil {
		if ref := strings.TrimSpace(es.SelectAttrValue("Macro", "")); ref != "" {
			return ref
		}
	}
	if gui := el.SelectElement("GuiSettings"); gui != nil {
		if ref := strings.TrimSpace(gui.SelectAttrValue("Macro", "")); ref != "" {
			return ref
		}
	}
	if cfg := configElement(el); cfg != nil {
		return childText(cfg, "Macro")
	}
	return ""
}

func attrFloat(el *etree.Element, key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(el.SelectAttrValue(key, "0")), 64)
	if err != nil {
		return 0
	}
	return v
}
