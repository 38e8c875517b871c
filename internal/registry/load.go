package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/yxflow/internal/config"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/workflow"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// PopulateDefinitionsFromModel copies the tool definitions from the config
// model into the registry. Configured definitions override built-in ones
// with the same plugin identifier. Every invalid definition is reported;
// none are installed if any is invalid.
func (r *Registry) PopulateDefinitionsFromModel(ctx context.Context, model *config.Model) error {
	if model == nil || len(model.Tools) == 0 {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	plugins := make([]string, 0, len(model.Tools))
	for plugin := range model.Tools {
		plugins = append(plugins, plugin)
	}
	sort.Strings(plugins)

	var errs []string
	defs := make([]*ToolDefinition, 0, len(plugins))
	for _, plugin := range plugins {
		src := model.Tools[plugin]
		kind, err := kindFromValue(src.Kind)
		if err != nil {
			errs = append(errs, fmt.Sprintf("tool '%s' (%s): %v", plugin, src.Source, err))
			continue
		}
		defs = append(defs, &ToolDefinition{
			Plugin:   plugin,
			Kind:     kind,
			Name:     src.Name,
			Boundary: src.Boundary,
		})
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid tool definitions:\n- %s", strings.Join(errs, "\n- "))
	}

	for _, def := range defs {
		if def.Name == "" {
			def.Name = shortName(def.Plugin)
		}
		if _, exists := r.definitions[normalize(def.Plugin)]; exists {
			logger.Debug("Configured tool overrides built-in definition.", "plugin", def.Plugin)
		}
		r.definitions[normalize(def.Plugin)] = def
	}
	logger.Debug("Populated tool definitions from config.", "count", len(defs))
	return nil
}

// kindFromValue decodes a configured kind. It must be a known, non-null
// string.
func kindFromValue(v cty.Value) (workflow.Kind, error) {
	if v.IsNull() || !v.IsKnown() {
		return workflow.KindOther, fmt.Errorf("kind must be set")
	}
	var s string
	if err := gocty.FromCtyValue(v, &s); err != nil {
		return workflow.KindOther, fmt.Errorf("kind must be a string, got %s", v.Type().FriendlyName())
	}
	return workflow.ParseKind(s)
}
