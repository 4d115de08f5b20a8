package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/specialistvlad/paragrid/internal/ctxlog"
)

// Handler returns the HTTP routes served by `serve`.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/lookup", a.lookupHandler)
	mux.HandleFunc("/order", a.orderHandler)
	mux.HandleFunc("/update", a.updateHandler)
	return mux
}

// healthHandler reports liveness.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) lookupHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing path parameter"})
		return
	}
	v, err := a.Query(path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"path": path, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path, "value": JSONValue(v)})
}

func (a *App) orderHandler(w http.ResponseWriter, _ *http.Request) {
	orders, err := a.Order()
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		return
	}
	out := make(map[string][]string, len(orders))
	for _, o := range orders {
		out[o.Namespace] = o.Members
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) updateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "use POST"})
		return
	}
	if err := a.Update(r.Context()); err != nil {
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "updated"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Addr returns the address the server listens on once Ready is closed.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addr
}

// Ready is closed once the server accepts connections.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// serve runs the HTTP server until ctx is cancelled.
func (a *App) serve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring HTTP server.")

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.config.HealthcheckPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	a.mu.Lock()
	a.addr = ln.Addr().String()
	a.httpServer = &http.Server{Handler: a.Handler(), ReadHeaderTimeout: 5 * time.Second}
	srv := a.httpServer
	a.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🩺 HTTP server starting", "address", fmt.Sprintf("http://%s/health", ln.Addr()))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	close(a.ready)

	select {
	case <-ctx.Done():
		return a.closeServer()
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed unexpectedly", "error", err)
		}
		return err
	}
}

func (a *App) closeServer() error {
	a.logger.Debug("Closing HTTP server...")
	if a.httpServer == nil {
		a.logger.Debug("HTTP server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down HTTP server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("HTTP server shut down gracefully.")
	return nil
}
