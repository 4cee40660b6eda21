package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/config"
	"github.com/aretw0/trove/pkg/adapters/file"
	"github.com/aretw0/trove/pkg/adapters/memory"
	"github.com/aretw0/trove/pkg/adapters/redis"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/ports"
)

// createEngine initializes a Trove engine with standard CLI conventions.
// The returned func releases the sequence store.
func createEngine(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*trove.Engine, func(), error) {
	store, closeStore := createSequenceStore(cfg)

	engineOpts := []trove.Option{
		trove.WithLogger(logger),
		trove.WithSequenceStore(store),
		trove.WithWorldSeed(cfg.WorldSeed),
		trove.WithConcurrency(cfg.Concurrency),
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		engineOpts = append(engineOpts, trove.WithLifecycleHooks(createDebugHooks(logger)))
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, trove.WithLifecycleHooks(h))
	}

	engine, err := trove.New(cfg.DataDir, engineOpts...)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closeStore, nil
}

// createSequenceStore shares counters through Redis when configured, persists
// them to SequenceFile when set and keeps them in process otherwise.
func createSequenceStore(cfg config.Config) (ports.SequenceStore, func()) {
	if cfg.Redis.Addr == "" {
		if cfg.SequenceFile != "" {
			return file.NewSequenceStore(cfg.SequenceFile), func() {}
		}
		return memory.NewSequenceStore(), func() {}
	}
	var opts []redis.Option
	if cfg.Redis.Prefix != "" {
		opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
	}
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
	return store, func() { _ = store.Close() }
}
