package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/yxflow/internal/export"
	"github.com/vk/yxflow/internal/macro"
)

// inventoryFile is the base name of the macro inventory in the output directory.
const inventoryFile = "macro_inventory"

// inventoryView is the serialized form of a macro inventory.
type inventoryView struct {
	Summary macro.Summary         `json:"summary" yaml:"summary"`
	Macros  []macro.InventoryItem `json:"macros" yaml:"macros"`
}

// batchView is written to the output writer when several documents were
// processed.
type batchView struct {
	Workflows []*export.Contract `json:"workflows" yaml:"workflows"`
	Inventory inventoryView      `json:"macro_inventory" yaml:"macro_inventory"`
}

func newInventoryView(inv *macro.Inventory) inventoryView {
	return inventoryView{Summary: inv.Summary(), Macros: inv.Macros()}
}

// writeResults writes the contracts of the successful documents, in input
// order, together with the macro inventory.
func (a *App) writeResults(docs []document, inv *macro.Inventory) error {
	var contracts []*export.Contract
	var paths []string
	for _, d := range docs {
		if d.err == nil && d.contract != nil {
			contracts = append(contracts, d.contract)
			paths = append(paths, d.path)
		}
	}

	format := a.config.Format
	if a.config.OutputDir == "" {
		if len(docs) == 1 {
			if len(contracts) == 0 {
				return nil
			}
			return export.Write(a.outW, format, contracts[0])
		}
		return export.Write(a.outW, format, batchView{Workflows: contracts, Inventory: newInventoryView(inv)})
	}

	if err := os.MkdirAll(a.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for i, c := range contracts {
		name := strings.TrimSuffix(filepath.Base(paths[i]), filepath.Ext(paths[i])) + export.Extension(format)
		if err := a.writeFile(name, c); err != nil {
			return err
		}
	}
	return a.writeFile(inventoryFile+export.Extension(format), newInventoryView(inv))
}

func (a *App) writeFile(name string, v any) error {
	path := filepath.Join(a.config.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(f, a.config.Format, v); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	a.logger.Debug("Wrote output file.", "path", path)
	return nil
}

// writeMetrics dumps the run's counters when a metrics path is configured.
func (a *App) writeMetrics() error {
	if a.config.MetricsPath == "" {
		return nil
	}
	f, err := os.Create(a.config.MetricsPath)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	if err := a.metrics.WriteText(f); err != nil {
		f.Close()
		return fmt.Errorf("writing metrics: %w", err)
	}
	return f.Close()
}
