package app

import (
	"context"
	"fmt"

	"github.com/vk/yxflow/internal/config"
	"github.com/vk/yxflow/internal/ctxlog"
	"github.com/vk/yxflow/internal/registry"
)

// loadModel reads the optional configuration file. Without one the model
// holds the defaults.
func loadModel(ctx context.Context, loader config.Loader, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" || loader == nil {
		logger.Debug("No configuration file given, using defaults.")
		return config.NewModel(), nil
	}

	logger.Debug("Loading configuration...", "config_path", path)
	model, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and translated into unified model.", "tools", len(model.Tools))
	return model, nil
}

// buildRegistry returns the built-in tool table extended with the tools
// declared in model.
func buildRegistry(ctx context.Context, model *config.Model) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)

	reg := registry.New()
	if err := reg.PopulateDefinitionsFromModel(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to populate tool registry: %w", err)
	}
	logger.Debug("Registry definitions populated from config model.", "count", reg.Len())

	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")
	return reg, nil
}
