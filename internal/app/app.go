package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/expr"
	"github.com/specialistvlad/paragrid/internal/metrics"
	"github.com/specialistvlad/paragrid/internal/model"
	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/specialistvlad/paragrid/internal/viewbridge"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	ctx      context.Context
	config   *Config
	registry *registry.Registry
	metrics  *metrics.Metrics
	model    *model.Model

	// mu serialises model access; HTTP handlers run concurrently.
	mu sync.Mutex

	httpServer *http.Server
	addr       string
	ready      chan struct{}

	emitter viewbridge.Emitter
	bridge  *viewbridge.Bridge
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. It returns a fully initialized App instance with
// its own isolated logger, registry, metrics and empty model. When no
// modules are given the core object types are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.Load(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "types", reg.Types())

	// A mismatch between registered types is a programmer error, so we panic.
	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	compiler, err := expr.NewCompiler(cfg.CacheSize)
	if err != nil {
		panic(fmt.Errorf("failed to create expression compiler: %w", err))
	}
	rec := metrics.New()
	m, err := model.New(reg, model.WithCompiler(compiler), model.WithRecorder(rec))
	if err != nil {
		panic(fmt.Errorf("failed to create model: %w", err))
	}
	m.SubscribeAll(rec.Observe)

	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		registry: reg,
		metrics:  rec,
		model:    m,
		ready:    make(chan struct{}),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the application's model. Callers must not use it while the
// HTTP server is running.
func (a *App) Model() *model.Model {
	return a.model
}

// Metrics returns the application's metrics.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// UseEmitter replaces the socket.io connection normally dialled for
// Config.ViewURL. It must be called before Run.
func (a *App) UseEmitter(e viewbridge.Emitter) {
	a.emitter = e
}

// startBridge connects the view, if one is configured, and starts
// forwarding events to it.
func (a *App) startBridge(ctx context.Context) error {
	if a.config.ViewURL == "" && a.emitter == nil {
		return nil
	}
	kinds, err := event.ParseSet(a.config.ViewEvents)
	if err != nil {
		return err
	}
	if a.emitter == nil {
		em, err := viewbridge.Dial(ctx, viewbridge.DialOptions{
			URL:                a.config.ViewURL,
			Namespace:          a.config.ViewNamespace,
			InsecureSkipVerify: a.config.ViewInsecure,
		})
		if err != nil {
			return fmt.Errorf("failed to connect view: %w", err)
		}
		a.emitter = em
	}
	a.bridge = viewbridge.New(a.model, a.emitter, kinds)
	a.bridge.Start(ctx)
	return nil
}

func (a *App) stopBridge() error {
	if a.bridge == nil {
		return nil
	}
	a.logger.Debug("Stopping view bridge.", "sent", a.bridge.Sent(), "failed", a.bridge.Failed())
	err := a.bridge.Stop()
	a.bridge = nil
	return err
}
