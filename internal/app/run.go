package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/yxflow/internal/analyze"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/export"
	"github.com/vk/yxflow/internal/fsutil"
	"github.com/vk/yxflow/internal/ingest"
	"github.com/vk/yxflow/internal/macro"
	"golang.org/x/sync/errgroup"
)

// workflowExtensions are the document types picked up when the workflow
// path is a directory. Macros are only read as dependencies.
var workflowExtensions = []string{".yxmd", ".yxwz"}

// document is the outcome of processing one workflow file.
type document struct {
	path     string
	contract *export.Contract
	report   *macro.Report
	err      error
}

// Run processes every workflow named by the configuration. All documents
// share one macro resolver so each macro file is read once. A document that
// fails does not stop the others; the failures are returned together.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	files, err := a.workflowFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		a.logger.Warn("No workflow documents found.", "path", a.config.WorkflowPath)
		return nil
	}
	a.logger.Info("Processing workflows.", "count", len(files), "workers", a.config.WorkerCount)

	parser := ingest.New(a.registry, ingest.WithMetrics(a.metrics))
	opts := a.resolverOptions()
	opts.Parser = parser
	resolver := macro.New(opts)
	analyzer := analyze.New(a.metrics)
	inventory := macro.NewInventory()

	docs := make([]document, len(files))
	var g errgroup.Group
	g.SetLimit(a.config.WorkerCount)
	for i, path := range files {
		g.Go(func() error {
			docs[i] = a.process(ctx, path, parser, resolver, analyzer)
			if docs[i].err == nil {
				inventory.Add(a.workflowName(path), docs[i].report)
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := a.writeResults(docs, inventory); err != nil {
		return err
	}
	if err := a.writeMetrics(); err != nil {
		return err
	}

	summary := inventory.Summary()
	a.logger.Info("Run finished.",
		"workflows", len(files),
		"macros", summary.Total,
		"missing_macros", summary.Missing,
		"shared_macros", summary.Shared,
		"cached_macros", resolver.Cache().Len())

	var failures []string
	for _, d := range docs {
		if d.err != nil {
			failures = append(failures, fmt.Sprintf("- %s: %v", d.path, d.err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("processing failed:\n%s", strings.Join(failures, "\n"))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// process ingests, resolves and analyzes one document.
func (a *App) process(ctx context.Context, path string, parser *ingest.Parser, resolver *macro.Resolver, analyzer *analyze.Analyzer) document {
	ctx = ctxlog.With(ctx, "workflow", path)
	logger := ctxlog.FromContext(ctx)
	doc := document{path: path}

	g, err := parser.ParseFile(ctx, path)
	if err != nil {
		doc.err = err
		logger.Error("Workflow could not be ingested.", "error", err)
		return doc
	}
	for _, d := range g.Diagnostics() {
		logger.Debug("Ingestion diagnostic.", "diagnostic", d.String())
	}

	resolved, report, err := resolver.Resolve(ctx, g)
	if err != nil {
		doc.err = fmt.Errorf("resolving macros: %w", err)
		logger.Error("Macro resolution failed.", "error", err)
		return doc
	}
	doc.report = report
	for _, o := range report.Missing() {
		logger.Warn("Macro missing.", "tool_id", o.NodeID, "reference", o.Reference, "reason", o.Reason.String())
	}

	res, err := analyzer.Analyze(ctx, resolved)
	if err != nil {
		doc.err = fmt.Errorf("analyzing: %w", err)
		logger.Error("Workflow could not be analyzed.", "error", err)
		return doc
	}

	doc.contract, doc.err = export.NewContract(resolved, res, report)
	logger.Info("Workflow analyzed.", "steps", len(res.Steps), "macros_missing", len(report.Missing()))
	return doc
}

func (a *App) workflowFiles() ([]string, error) {
	path := a.config.WorkflowPath
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("workflow path: %w", err)
	}
	if !info.IsDir() {
		if !ingest.SupportedFile(path) {
			return nil, fmt.Errorf("workflow path %s: unsupported file type %q", path, filepath.Ext(path))
		}
		return []string{path}, nil
	}
	files, err := fsutil.FindFilesByExtension(path, workflowExtensions...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return files, nil
}

// workflowName identifies a document in the macro inventory: its path
// relative to the workflow directory, or its base name for a single file.
func (a *App) workflowName(path string) string {
	if rel, err := filepath.Rel(a.config.WorkflowPath, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}
