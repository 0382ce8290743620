package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/imamik/gkepool/internal/nodepool"
)

// Apply reconciles every node pool declared in the manifest once, or every
// watch interval until ctx is cancelled.
func Apply(ctx context.Context, opts Options, manifestPath string, watch time.Duration, metricsAddr string) error {
	run, err := loadRun(ctx, opts, manifestPath)
	if err != nil {
		return err
	}
	a := newAgent(run.client, run.timeouts, run.agentOptions()...)

	if watch <= 0 {
		results, err := a.Apply(ctx, specsFrom(run.manifest))
		fmt.Fprint(stdout, renderResults(results, isTerminal()))
		return err
	}

	logger := log.FromContext(ctx)
	if metricsAddr != "" {
		stop, addr, err := serveMetrics(metricsAddr)
		if err != nil {
			return err
		}
		defer stop()
		logger.Info("serving metrics", "address", addr)
	}

	logger.Info("watching node pools", "manifest", run.path, "interval", watch)
	a.Watch(ctx, watch, func() ([]nodepool.Spec, error) {
		m, err := loadManifest(run.path)
		if err != nil {
			return nil, err
		}
		return specsFrom(m), nil
	})
	return nil
}

// serveMetrics exposes the process registry on /metrics. It returns a stop
// function and the bound address.
func serveMetrics(addr string) (func(), string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Log.Error(err, "metrics server stopped")
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return stop, ln.Addr().String(), nil
}
