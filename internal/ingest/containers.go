package ingest

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/vk/yxflow/internal/workflow"
)

// childIDPaths are the places a container may list its members, in the
// order they are consulted.
var childIDPaths = []string{
	"./ChildToolIds",
	".//Configuration/ChildToolIds",
	".//Properties/ChildToolIds",
}

// containerChildren returns the member IDs declared by the first location
// with a non-empty list. IDs are separated by commas or whitespace; tokens
// that are not integers are ignored and repeats are dropped.
func containerChildren(el *etree.Element) []int {
	for _, path := range childIDPaths {
		if ids := parseIDList(findText(el, path)); len(ids) > 0 {
			return ids
		}
	}
	return nil
}

func parseIDList(text string) []int {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	var ids []int
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// assignContainers mirrors the declared member lists as back-references.
// A member that is not a node is dropped with a diagnostic, and so is a
// second claim on a node that already belongs to a container.
func (st *state) assignContainers() {
	for _, cid := range st.containers {
		container := st.nodes[cid]
		var kept []int
		for _, child := range st.children[cid] {
			n, ok := st.nodes[child]
			if !ok {
				st.warn(cid, "container child %d does not exist", child)
				continue
			}
			if n.ContainerID != workflow.NoNode {
				st.warn(cid, "tool %d already belongs to container %d", child, n.ContainerID)
				continue
			}
			n.ContainerID = cid
			kept = append(kept, child)
		}
		container.Children = kept
	}
}
