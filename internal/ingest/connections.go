package ingest

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/vk/yxflow/internal/workflow"
)

// parseConnections adds one edge per usable Connection record. Records
// whose endpoints are missing or not nodes are dropped with a diagnostic;
// self-loops are kept so that Build rejects the document.
func (st *state) parseConnections(el *etree.Element) {
	if el == nil {
		return
	}
	for i, conn := range el.SelectElements("Connection") {
		origin := conn.SelectElement("Origin")
		dest := conn.SelectElement("Destination")
		if origin == nil || dest == nil {
			st.dropEdge(workflow.NoNode, "connection #%d lacks an origin or destination", i+1)
			continue
		}
		from, okFrom := endpointID(origin)
		to, okTo := endpointID(dest)
		if !okFrom || !okTo {
			st.dropEdge(workflow.NoNode, "connection #%d has an invalid ToolID", i+1)
			continue
		}

		e := workflow.Edge{
			From:       from,
			FromAnchor: anchorOr(origin, workflow.DefaultOutputAnchor),
			To:         to,
			ToAnchor:   anchorOr(dest, workflow.DefaultInputAnchor),
			Wireless:   strings.EqualFold(conn.SelectAttrValue("Wireless", ""), "true"),
		}
		if from != to {
			if _, ok := st.nodes[from]; !ok {
				st.dropEdge(to, "connection %s dropped: origin is not a tool", e)
				continue
			}
			if _, ok := st.nodes[to]; !ok {
				st.dropEdge(from, "connection %s dropped: destination is not a tool", e)
				continue
			}
		}
		st.builder.AddEdge(e)
	}
}

func (st *state) dropEdge(nodeID int, format string, args ...any) {
	st.warn(nodeID, format, args...)
	st.parser.metrics.EdgeDropped()
}

func endpointID(el *etree.Element) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(el.SelectAttrValue("ToolID", "")))
	return id, err == nil && id >= 0
}

func anchorOr(el *etree.Element, def string) string {
	if a := strings.TrimSpace(el.SelectAttrValue("Connection", "")); a != "" {
		return a
	}
	return def
}
