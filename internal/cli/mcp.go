package cli

import (
	"context"
	"errors"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/pkg/adapters/mcp"
)

// MCP serves the engine as a Model Context Protocol server on stdio until
// the client disconnects. Logs go to stderr so they never corrupt the
// JSON-RPC stream on stdout.
func MCP(opts Options, watch bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := createLogger(cfg)
	if err != nil {
		return err
	}
	engine, closeStore, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := engine.WatchAndReload(ctx, nil); errors.Is(err, trove.ErrNotWatchable) {
				logger.Warn("source cannot be watched, hot reload disabled")
			}
		}()
	}

	logger.Info("Starting Trove MCP Server (Stdio)", "data", cfg.DataDir)
	return mcp.NewServer(engine, logger).ServeStdio()
}
