package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Handler returns the HTTP surface of the app:
//
//	/metrics  Prometheus exposition of graph and projection counters
//	/health   200 once a graph has been built, 503 before
//	/graph    outline of the built graph, or Graphviz with ?format=dot
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics.Gatherer(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/graph", a.graphHandler)
	return mux
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	if a.graph.Load() == nil {
		http.Error(w, "graph not built", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) graphHandler(w http.ResponseWriter, r *http.Request) {
	g := a.graph.Load()
	if g == nil {
		http.Error(w, "graph not built", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	var err error
	if r.URL.Query().Get("format") == "dot" {
		err = g.DotPrint(w)
	} else {
		err = g.Print(w)
	}
	if err != nil {
		a.logger.Error("Failed to write graph.", "error", err)
	}
}

// startMetricsServer listens on port and serves Handler in the background.
// The returned channel receives an error if the server stops unexpectedly.
func (a *App) startMetricsServer(ctx context.Context, port int) <-chan error {
	a.logger.Debug("Configuring metrics server.")
	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: shutdownTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Metrics server starting.", "address", fmt.Sprintf("http://localhost%s/metrics", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed unexpectedly.", "error", err)
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()
	return errCh
}

func (a *App) closeMetricsServer(ctx context.Context) error {
	if a.httpServer == nil {
		a.logger.Debug("Metrics server was not running.")
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down metrics server.")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Metrics server shutdown failed.", "error", err)
		return err
	}
	a.logger.Debug("Metrics server shut down gracefully.")
	return nil
}
