package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"--config", "yxflow.hcl",
		"--macro-dir", "/a", "--macro-dir", "/b,/c",
		"--skip-macro", "Legacy.yxmc",
		"--format", "JSON",
		"--workers", "2",
		"flows/",
	}, &out)
	require.NoError(t, err)
	assert.False(t, exit)

	assert.Equal(t, "flows/", cfg.WorkflowPath)
	assert.Equal(t, "yxflow.hcl", cfg.ConfigPath)
	assert.Equal(t, []string{"/a", "/b", "/c"}, cfg.MacroDirs)
	assert.Equal(t, []string{"Legacy.yxmc"}, cfg.SkipMacros)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_WorkflowFlagWins(t *testing.T) {
	cfg, _, err := Parse([]string{"-w", "short.yxmd", "--workflow", "long.yxmd", "positional.yxmd"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "long.yxmd", cfg.WorkflowPath)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "log format", args: []string{"--log-format", "xml", "f.yxmd"}, want: "invalid log-format"},
		{name: "log level", args: []string{"--log-level", "loud", "f.yxmd"}, want: "invalid log-level"},
		{name: "workers", args: []string{"--workers", "0", "f.yxmd"}, want: "invalid workers"},
		{name: "format", args: []string{"--format", "toml", "f.yxmd"}, want: "invalid format"},
		{name: "unknown flag", args: []string{"--nope"}, want: "flag provided but not defined"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}
