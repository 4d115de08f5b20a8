package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
)

// Run executes the main application logic based on the app's configuration:
// load, update, print the requested output and optionally serve until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.startBridge(ctx); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.stopBridge())
	}()

	if err := a.Load(ctx); err != nil {
		return err
	}
	if err := a.Update(ctx); err != nil {
		return err
	}

	if a.config.PrintOrder {
		if err := a.printOrder(); err != nil {
			return err
		}
	}
	for _, q := range a.config.Queries {
		if err := a.printQuery(q); err != nil {
			return err
		}
	}

	if a.config.Serve {
		return a.serve(ctx)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// Update recomputes the whole model from the root namespace.
func (a *App) Update(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	if err := a.model.Root().Update(ctx); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	a.logger.Info("Model updated.", "entities", a.model.Len(), "elapsed", time.Since(start))
	return nil
}

func (a *App) printOrder() error {
	orders, err := a.Order()
	if err != nil {
		return err
	}
	for _, o := range orders {
		if _, err := fmt.Fprintln(a.outW, o.String()); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) printQuery(path string) error {
	v, err := a.Query(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.outW, "%s = %s\n", path, FormatValue(v))
	return err
}
