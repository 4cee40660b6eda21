package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/metrics"
	"github.com/aretw0/trove/internal/presentation/tui"
	httpAdapter "github.com/aretw0/trove/pkg/adapters/http"
)

// ServeOptions configures Serve.
type ServeOptions struct {
	Options
	// Addr overrides the configured listen address.
	Addr string
	// Watch reloads the data directory whenever it changes.
	Watch bool
}

// Serve exposes the engine over HTTP with Prometheus metrics until the
// process is interrupted.
func Serve(opts ServeOptions) error {
	cfg, err := loadConfig(opts.Options)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	logger, err := createLogger(cfg)
	if err != nil {
		return err
	}

	collector := metrics.New()
	engine, closeStore, err := createEngine(cfg, logger, collector.Hooks())
	if err != nil {
		return err
	}
	defer closeStore()

	if tui.IsTerminal(opts.out()) {
		tui.PrintBanner(opts.out())
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.Watch {
		go func() {
			// Reload outcomes are logged by the registry.
			err := engine.WatchAndReload(sigCtx, nil)
			if errors.Is(err, trove.ErrNotWatchable) {
				logger.Warn("source cannot be watched, hot reload disabled")
			}
		}()
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpAdapter.NewHandler(engine,
			httpAdapter.WithMetrics(collector.Handler()),
			httpAdapter.WithLogger(logger),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting Trove Server", "addr", srv.Addr, "data", cfg.DataDir, "watch", opts.Watch)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		logger.Info("Start shutdown", "signal", sigCtx.Signal())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		logger.Info("Trove Server stopped gracefully")
		return nil
	}
}
