package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/workflow"
)

// ValidateRegistry checks that every definition is internally consistent.
// It runs after configured definitions have been merged in.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	keys := make([]string, 0, len(r.definitions))
	for k := range r.definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		def := r.definitions[key]
		if strings.TrimSpace(def.Plugin) == "" {
			errs = append(errs, "definition with empty plugin identifier")
			continue
		}
		if def.Boundary && def.Kind != workflow.KindInput && def.Kind != workflow.KindOutput {
			errs = append(errs, fmt.Sprintf("tool '%s': only input and output tools can be macro boundaries, got kind '%s'", def.Plugin, def.Kind))
		}
		if def.Kind == workflow.KindOther {
			logger.Warn("Tool is registered with kind 'other', which disables kind-specific analysis.", "plugin", def.Plugin)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
