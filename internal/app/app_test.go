package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/yxflow/internal/registry"
	"github.com/vk/yxflow/internal/workflow"
	"gopkg.in/yaml.v3"
)

func tool(id int, plugin string) string {
	return fmt.Sprintf(`<Node ToolID="%d"><GuiSettings Plugin="%s"/><Properties><Configuration/></Properties></Node>`, id, plugin)
}

func macroTool(id int, ref string) string {
	return fmt.Sprintf(`<Node ToolID="%d"><GuiSettings/><Properties><Configuration/></Properties><EngineSettings Macro="%s"/></Node>`, id, ref)
}

func conn(from, to int) string {
	return fmt.Sprintf(`<Connection><Origin ToolID="%d" Connection="Output"/><Destination ToolID="%d" Connection="Input"/></Connection>`, from, to)
}

func xmlDoc(nodes []string, conns ...string) string {
	return `<AlteryxDocument yxmdVer="2023.1"><Nodes>` + strings.Join(nodes, "") +
		`</Nodes><Connections>` + strings.Join(conns, "") + `</Connections></AlteryxDocument>`
}

const (
	inputPlugin  = "AlteryxBasePluginsGui.DbFileInput.DbFileInput"
	filterPlugin = "AlteryxBasePluginsGui.Filter.Filter"
	outputPlugin = "AlteryxBasePluginsGui.DbFileOutput.DbFileOutput"
)

// flowWith is Input -> ref -> Output.
func flowWith(ref string) string {
	return xmlDoc([]string{tool(1, inputPlugin), macroTool(2, ref), tool(3, outputPlugin)}, conn(1, 2), conn(2, 3))
}

func cleanMacro() string {
	return xmlDoc([]string{
		tool(1, "AlteryxBasePluginsGui.MacroInput.MacroInput"),
		tool(2, filterPlugin),
		tool(3, "AlteryxBasePluginsGui.MacroOutput.MacroOutput"),
	}, conn(1, 2), conn(2, 3))
}

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type contractDoc struct {
	Workflow struct {
		Name  string `yaml:"name"`
		Nodes []struct {
			ID int `yaml:"id"`
		} `yaml:"nodes"`
	} `yaml:"workflow"`
	Layers     map[int]string `yaml:"layers"`
	Resolution struct {
		Outcomes []struct {
			Reference string `yaml:"reference"`
			State     string `yaml:"state"`
			Reason    string `yaml:"reason"`
		} `yaml:"outcomes"`
	} `yaml:"resolution"`
}

func TestRun_SingleWorkflow(t *testing.T) {
	dir := t.TempDir()
	flow := write(t, filepath.Join(dir, "flow.yxmd"), xmlDoc(
		[]string{tool(1, inputPlugin), tool(2, filterPlugin), tool(3, outputPlugin)},
		conn(1, 2), conn(2, 3)))

	a, out, _ := SetupAppTest(t, Config{WorkflowPath: flow})
	require.NoError(t, a.Run(context.Background()))

	var got contractDoc
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &got))
	assert.Equal(t, "flow", got.Workflow.Name)
	assert.Equal(t, map[int]string{1: "bronze", 2: "silver", 3: "gold"}, got.Layers)
	assert.Empty(t, got.Resolution.Outcomes)
}

func TestRun_InventoryKeepsSameNamedWorkflowsApart(t *testing.T) {
	flows := t.TempDir()
	write(t, filepath.Join(flows, "clean.yxmc"), cleanMacro())
	write(t, filepath.Join(flows, "one", "flow.yxmd"), flowWith("clean.yxmc"))
	write(t, filepath.Join(flows, "two", "flow.yxmd"), flowWith("clean.yxmc"))

	a, out, _ := SetupAppTest(t, Config{WorkflowPath: flows})
	require.NoError(t, a.Run(context.Background()))

	var batch struct {
		Inventory inventoryView `yaml:"macro_inventory"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &batch))
	require.Len(t, batch.Inventory.Macros, 1)
	assert.Equal(t, []string{"one/flow.yxmd", "two/flow.yxmd"}, batch.Inventory.Macros[0].Workflows)
	assert.Equal(t, 2, batch.Inventory.Macros[0].Uses)
	assert.Equal(t, 1, batch.Inventory.Summary.Shared)
}

func TestRun_DirectoryToOutputDir(t *testing.T) {
	dir := t.TempDir()
	flows := filepath.Join(dir, "flows")
	write(t, filepath.Join(flows, "macros", "clean.yxmc"), cleanMacro())
	write(t, filepath.Join(flows, "a.yxmd"), flowWith("clean.yxmc"))
	write(t, filepath.Join(flows, "b.yxmd"), flowWith("clean.yxmc"))
	write(t, filepath.Join(flows, "c.yxmd"), flowWith("gone.yxmc"))
	outDir := filepath.Join(dir, "out")
	metrics := filepath.Join(dir, "metrics.prom")

	a, _, _ := SetupAppTest(t, Config{
		WorkflowPath: flows,
		OutputDir:    outDir,
		Format:       "json",
		MetricsPath:  metrics,
		WorkerCount:  2,
	})
	require.NoError(t, a.Run(context.Background()))

	for _, name := range []string{"a.json", "b.json", "c.json", "macro_inventory.json"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "macro_inventory.json"))
	require.NoError(t, err)
	var inv inventoryView
	require.NoError(t, yaml.Unmarshal(raw, &inv))
	assert.Equal(t, 2, inv.Summary.Total)
	assert.Equal(t, 1, inv.Summary.Missing)
	assert.Equal(t, 1, inv.Summary.Shared)

	text, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(text), "yxflow_macro_parses_total 1")
	assert.Contains(t, string(text), `yxflow_macro_missing_total{reason="not_found"} 1`)
}

func TestRun_FailedDocumentDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bad.yxmd"), `<AlteryxDocument><Nodes x=1/></AlteryxDocument>`)
	write(t, filepath.Join(dir, "good.yxmd"), xmlDoc([]string{tool(1, inputPlugin), tool(2, outputPlugin)}, conn(1, 2)))

	a, out, logs := SetupAppTest(t, Config{WorkflowPath: dir})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processing failed:\n- ")
	assert.Contains(t, err.Error(), "bad.yxmd")

	var batch struct {
		Workflows []contractDoc `yaml:"workflows"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &batch))
	require.Len(t, batch.Workflows, 1)
	assert.Equal(t, "good", batch.Workflows[0].Workflow.Name)
	assert.Contains(t, logs.String(), "Workflow could not be ingested.")
}

func TestRun_ConfigFileExtendsRegistryAndSearch(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "library", "clean.yxmc"), cleanMacro())
	cfgPath := write(t, filepath.Join(dir, "yxflow.hcl"), `
resolver {
  search_dirs = ["./library"]
}

tool "Acme.Gate.Gate" {
  kind = "filter"
  name = "Gate"
}
`)
	flow := write(t, filepath.Join(dir, "flows", "flow.yxmd"), xmlDoc(
		[]string{tool(1, inputPlugin), tool(2, "Acme.Gate.Gate"), macroTool(3, "clean.yxmc"), tool(4, outputPlugin)},
		conn(1, 2), conn(2, 3), conn(3, 4)))

	a, out, _ := SetupAppTest(t, Config{WorkflowPath: flow, ConfigPath: cfgPath})
	assert.Equal(t, workflow.KindFilter, a.Registry().Lookup("Acme.Gate.Gate").Kind)
	require.NoError(t, a.Run(context.Background()))

	var got contractDoc
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &got))
	require.Len(t, got.Resolution.Outcomes, 1)
	assert.Equal(t, "resolved", got.Resolution.Outcomes[0].State)
	assert.Equal(t, "silver", got.Layers[2])
}

func TestRun_SkipMacrosFromCommandLine(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "clean.yxmc"), cleanMacro())
	flow := write(t, filepath.Join(dir, "flow.yxmd"), flowWith("clean.yxmc"))

	a, out, _ := SetupAppTest(t, Config{WorkflowPath: flow, SkipMacros: []string{"clean.yxmc"}})
	require.NoError(t, a.Run(context.Background()))

	var got contractDoc
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &got))
	require.Len(t, got.Resolution.Outcomes, 1)
	assert.Equal(t, "skipped", got.Resolution.Outcomes[0].Reason)
}

func TestRun_MissingPath(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{WorkflowPath: filepath.Join(t.TempDir(), "nope.yxmd")})
	assert.ErrorContains(t, a.Run(context.Background()), "workflow path")
}

func TestNewApp_PanicsOnInvalidToolDefinition(t *testing.T) {
	dir := t.TempDir()
	cfgPath := write(t, filepath.Join(dir, "bad.hcl"), `
tool "Acme.Thing" {
  kind = "teleport"
}
`)
	assert.Panics(t, func() {
		SetupAppTest(t, Config{WorkflowPath: dir, ConfigPath: cfgPath})
	})
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{WorkflowPath: "x"})
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, DefaultWorkerCount, cfg.WorkerCount)

	_, err = NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{WorkflowPath: "x", Format: "xml"})
	assert.ErrorContains(t, err, "invalid format")
}

func TestRegistryHasBuiltins(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{WorkflowPath: "x"})
	assert.Equal(t, registry.New().Len(), a.Registry().Len())
}
