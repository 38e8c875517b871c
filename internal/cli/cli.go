package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/yxflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// listFlag collects the values of a repeatable flag. A single value may
// also hold a comma-separated list.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("yxflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
yxflow - Builds an analyzable representation of Alteryx workflows.

Usage:
  yxflow [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to a .yxmd/.yxmc/.yxwz document or a directory of workflows.

Options:
`)
		flagSet.PrintDefaults()
	}

	var macroDirs, skipMacros listFlag
	workflowFlag := flagSet.String("workflow", "", "Path to the workflow document or directory.")
	wFlag := flagSet.String("w", "", "Path to the workflow document or directory (shorthand).")
	configFlag := flagSet.String("config", "", "Path to an HCL configuration file or directory.")
	flagSet.Var(&macroDirs, "macro-dir", "Directory searched for macros. Repeatable.")
	flagSet.Var(&skipMacros, "skip-macro", "Macro reference to leave unresolved. Repeatable.")
	formatFlag := flagSet.String("format", "yaml", "Output format. Options: 'yaml' or 'json'.")
	outFlag := flagSet.String("out", "", "Directory to write one file per workflow into. Defaults to stdout.")
	metricsFlag := flagSet.String("metrics", "", "File to write Prometheus text metrics to after the run.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", app.DefaultWorkerCount, "Number of workflows processed concurrently.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *workflowFlag != "" {
		path = *workflowFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Workflow path determined.", "path", path)

	if path == "" {
		slog.Debug("No workflow path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must be at least 1"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		WorkflowPath: path,
		ConfigPath:   *configFlag,
		MacroDirs:    macroDirs,
		SkipMacros:   skipMacros,
		Format:       *formatFlag,
		OutputDir:    *outFlag,
		MetricsPath:  *metricsFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		WorkerCount:  *workersFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
