package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
	"github.com/specialistvlad/paragrid/internal/modelfile"
)

// Load reads the configured model files into the model without updating it.
func (a *App) Load(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading model...", "paths", a.config.ModelPaths)

	a.mu.Lock()
	defer a.mu.Unlock()

	stats, err := modelfile.Load(ctx, a.model, a.config.ModelPaths...)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	logger.Info("Model loaded successfully.",
		"files", stats.Files,
		"namespaces", stats.Namespaces,
		"objects", stats.Objects,
		"externals", stats.Externals,
	)
	return nil
}
