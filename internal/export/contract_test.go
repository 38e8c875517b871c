package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/yxflow/internal/analyze"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/macro"
	"github.com/vk/yxflow/internal/workflow"
	"gopkg.in/yaml.v3"
)

func sampleContract(t *testing.T) *Contract {
	t.Helper()
	b := workflow.NewBuilder(workflow.Metadata{Name: "Sales", Author: "ops", SourcePath: "/flows/sales.yxmd"})
	b.AddNode(workflow.Node{ID: 1, Kind: workflow.KindInput, Config: workflow.InputConfig{FilePath: "sales.csv"}, ContainerID: workflow.NoNode, MacroParent: workflow.NoNode})
	b.AddNode(workflow.Node{ID: 2, Kind: workflow.KindFilter, Config: workflow.FilterConfig{Expression: "[Amount] > 0"}, ContainerID: workflow.NoNode, MacroParent: workflow.NoNode})
	b.AddNode(workflow.Node{
		ID: 3, Kind: workflow.KindMacro, Config: workflow.MacroConfig{Reference: "gone.yxmc"},
		Macro:       workflow.MacroRef{Reference: "gone.yxmc", State: workflow.MacroMissing, Reason: workflow.ReasonNotFound},
		ContainerID: workflow.NoNode, MacroParent: workflow.NoNode,
	})
	b.AddEdge(workflow.Edge{From: 1, FromAnchor: "Output", To: 2, ToAnchor: "Input"})
	b.AddEdge(workflow.Edge{From: 2, FromAnchor: "True", To: 3, ToAnchor: "Input"})
	g, err := b.Build()
	require.NoError(t, err)

	res, err := analyze.Analyze(ctxlog.Discard(context.Background()), g)
	require.NoError(t, err)

	report := &macro.Report{Document: "/flows/sales.yxmd", Outcomes: []macro.Outcome{
		{NodeID: 3, Reference: "gone.yxmc", State: workflow.MacroMissing, Reason: workflow.ReasonNotFound},
	}}
	c, err := NewContract(g, res, report)
	require.NoError(t, err)
	return c
}

func TestNewContract(t *testing.T) {
	c := sampleContract(t)

	assert.Equal(t, "Sales", c.Workflow.Name)
	assert.Len(t, c.Workflow.Nodes, 3)
	assert.Equal(t, map[int]string{1: "bronze", 2: "silver", 3: "gold"}, c.Layers)
	assert.Equal(t, 1, c.Stats["missing_macros"])
	assert.Equal(t, 3, c.Stats["steps"])

	m := c.Workflow.Nodes[2].Macro
	require.NotNil(t, m)
	assert.Equal(t, "missing", m.State)
	assert.Equal(t, "not_found", m.Reason)

	params, ok := c.Directives[1].Parameters.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Amount > 0", params["predicate"])
	assert.Equal(t, []any{"Amount"}, params["fields"])
	assert.Equal(t, []int{1}, c.Directives[1].Inputs)
	assert.Equal(t, []int{}, c.Directives[0].Inputs)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleContract(t)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	steps := decoded["steps"].([]any)
	require.Len(t, steps, 3)
	first := steps[0].(map[string]any)
	assert.Equal(t, "input", first["kind"])
	assert.Equal(t, "bronze", first["layer"])

	resolution := decoded["resolution"].(map[string]any)
	outcome := resolution["outcomes"].([]any)[0].(map[string]any)
	assert.Equal(t, "missing", outcome["state"])
	assert.Equal(t, "not_found", outcome["reason"])
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "YAML", sampleContract(t)))

	var decoded struct {
		Workflow struct {
			Name string `yaml:"name"`
		} `yaml:"workflow"`
		Layers     map[int]string `yaml:"layers"`
		Directives []struct {
			NodeID     int            `yaml:"node_id"`
			Parameters map[string]any `yaml:"parameters"`
		} `yaml:"directives"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Sales", decoded.Workflow.Name)
	assert.Equal(t, "gold", decoded.Layers[3])
	require.Len(t, decoded.Directives, 3)
	assert.Equal(t, "sales.csv", decoded.Directives[0].Parameters["source"])
	assert.Contains(t, buf.String(), "reference: gone.yxmc")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "toml", struct{}{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.False(t, ValidFormat("toml"))
	assert.True(t, ValidFormat("Json"))
	assert.Equal(t, ".json", Extension("json"))
}
