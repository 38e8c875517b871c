// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/yxflow/internal/config"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// mergeResolver applies the attributes a resolver block sets. Relative
// search directories are anchored at the configuration file's directory.
func mergeResolver(dst *config.Resolver, src *ResolverBlock, file string) error {
	if src.Mode != nil {
		switch *src.Mode {
		case config.ModeBatch, config.ModeInteractive:
			dst.Mode = *src.Mode
		default:
			return fmt.Errorf("%s: resolver mode must be %q or %q, got %q", file, config.ModeBatch, config.ModeInteractive, *src.Mode)
		}
	}
	if src.SearchDirs != nil {
		base := filepath.Dir(file)
		dirs := make([]string, 0, len(src.SearchDirs))
		for _, d := range src.SearchDirs {
			if !filepath.IsAbs(d) {
				d = filepath.Join(base, d)
			}
			dirs = append(dirs, d)
		}
		dst.SearchDirs = dirs
	}
	if src.Skip != nil {
		dst.Skip = append([]string(nil), src.Skip...)
	}
	return nil
}

// translateTool converts the HCL-specific tool schema into the agnostic model.
func (l *Loader) translateTool(ctx context.Context, t *ToolBlock, file string) (*config.ToolDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("plugin", t.Plugin)
	ctx = ctxlog.WithLogger(ctx, logger)

	logger.Debug("Translating HCL tool block to internal config model.")

	kind, diags := t.Kind.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid kind for tool '%s' in %s: %w", t.Plugin, file, diags)
	}
	if kind.IsNull() {
		return nil, fmt.Errorf("tool '%s' in %s: kind must be set", t.Plugin, file)
	}

	def := &config.ToolDefinition{
		Plugin: t.Plugin,
		Kind:   kind,
		Source: file,
	}
	if t.Name != nil {
		def.Name = *t.Name
	}

	if isExprDefined(ctx, t.Boundary, "boundary") {
		val, diags := t.Boundary.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid boundary for tool '%s' in %s: %w", t.Plugin, file, diags)
		}
		if val.IsNull() || !val.Type().Equals(cty.Bool) {
			return nil, fmt.Errorf("tool '%s' in %s: boundary must be a bool", t.Plugin, file)
		}
		def.Boundary = val.True()
	}
	return def, nil
}
