package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/yxflow/internal/export"
)

// DefaultWorkerCount is used when Config.WorkerCount is not positive.
const DefaultWorkerCount = 4

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPath string // a workflow document or a directory of them
	ConfigPath   string // hcl file or directory, optional

	MacroDirs  []string
	SkipMacros []string

	Format    string
	OutputDir string // "" writes to the app's output writer
	// MetricsPath receives the Prometheus text exposition after the run.
	MetricsPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkflowPath == "" {
		return nil, errors.New("WorkflowPath is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = export.FormatYAML
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if !export.ValidFormat(cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %s", cfg.Format, strings.Join(export.Formats(), ", "))
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	return &cfg, nil
}
