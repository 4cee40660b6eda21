package trove

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync/atomic"

	"github.com/aretw0/trove/internal/logging"
	"github.com/aretw0/trove/internal/registry"
	loamAdapter "github.com/aretw0/trove/pkg/adapters/loam"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/aretw0/trove/pkg/ports"
)

// Engine is the high-level entry point for the Trove library.
// It owns the asset registry and evaluates loot tables against it.
type Engine struct {
	registry  *registry.Manager
	source    ports.AssetSource
	sequences ports.SequenceStore
	worldSeed uint64
	workers   int
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	report    atomic.Pointer[registry.Report]
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithSource injects a custom AssetSource, bypassing the default Loam initialization.
func WithSource(s ports.AssetSource) Option {
	return func(e *Engine) {
		e.source = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSequenceStore enables random sequences: tables declaring one draw their
// seed from the world seed and the store's counter.
func WithSequenceStore(s ports.SequenceStore) Option {
	return func(e *Engine) {
		e.sequences = s
	}
}

// WithWorldSeed sets the seed random sequences are derived from.
func WithWorldSeed(seed uint64) Option {
	return func(e *Engine) {
		e.worldSeed = seed
	}
}

// WithConcurrency bounds how many assets of one kind are decoded in parallel.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New initializes a new Trove Engine and loads its assets once.
// By default, it uses a Loam repository at the given path.
// If WithSource option is provided, dataPath can be empty and Loam is skipped.
// Asset problems never fail New; inspect Report.
func New(dataPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	// Apply Options first to check if a source is provided
	for _, opt := range opts {
		opt(eng)
	}

	if eng.source == nil {
		if dataPath == "" {
			return nil, fmt.Errorf("dataPath is required when no custom source is provided")
		}
		src, err := loamAdapter.Open(dataPath)
		if err != nil {
			return nil, err
		}
		eng.source = src
	}
	if dataPath != "" {
		if abs, err := filepath.Abs(dataPath); err == nil {
			eng.Name = filepath.Base(abs)
		}
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	// Enrich logger with data pack name if available
	if eng.Name != "" {
		eng.logger = eng.logger.With("data", eng.Name)
	}

	regOpts := []registry.Option{
		registry.WithLogger(eng.logger),
		registry.WithLifecycleHooks(eng.hooks),
	}
	if eng.workers > 0 {
		regOpts = append(regOpts, registry.WithConcurrency(eng.workers))
	}
	reg, err := registry.New(eng.source, regOpts...)
	if err != nil {
		return nil, err
	}
	eng.registry = reg

	if _, err := eng.Reload(context.Background()); err != nil {
		return nil, err
	}
	return eng, nil
}

// Reload re-reads every asset and publishes a new snapshot.
// On a source failure the previous snapshot stays published.
func (e *Engine) Reload(ctx context.Context) (*registry.Report, error) {
	report, err := e.registry.Reload(ctx)
	if err != nil {
		return nil, err
	}
	e.report.Store(report)
	return report, nil
}

// Report returns the report of the last successful reload.
func (e *Engine) Report() *registry.Report {
	return e.report.Load()
}

// Snapshot returns the currently published snapshot.
func (e *Engine) Snapshot() *registry.Snapshot {
	return e.registry.Snapshot()
}

// Tables lists the published loot table names.
func (e *Engine) Tables() []string {
	return e.Snapshot().Names(domain.KindLootTable)
}

// Result is the outcome of one generation call.
type Result struct {
	Table      domain.Identity `json:"table"`
	SnapshotID string          `json:"snapshot_id"`
	Seed       uint64          `json:"seed"`
	Items      []domain.Item   `json:"items"`
}

// GenerateOption configures one generation call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	seed    uint64
	hasSeed bool
}

// WithSeed fixes the random seed; equal seeds and parameters yield equal items.
func WithSeed(seed uint64) GenerateOption {
	return func(c *generateConfig) {
		c.seed = seed
		c.hasSeed = true
	}
}

// Generate evaluates the named table against params. A nil builder means no
// parameters. The table must be published; tables it references need not be.
func (e *Engine) Generate(ctx context.Context, table string, params *loot.ParamsBuilder, opts ...GenerateOption) (*Result, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// Read once: the whole call evaluates against this snapshot.
	snap := e.registry.Snapshot()
	t, ok := snap.LookupTable(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, domain.TableID(table))
	}

	if params == nil {
		params = loot.NewParamsBuilder()
	}
	evalParams, err := params.Create(t.Params())
	if err != nil {
		return nil, err
	}

	seed, err := e.seedFor(ctx, t, cfg)
	if err != nil {
		return nil, err
	}

	lctx := loot.NewContext(evalParams, snap,
		loot.WithSeed(seed),
		loot.WithContext(ctx),
		loot.WithLogger(e.logger),
		loot.WithLifecycleHooks(e.hooks),
	)
	res := &Result{
		Table:      t.ID(),
		SnapshotID: snap.ID(),
		Seed:       seed,
		Items:      t.GenerateItems(lctx),
	}

	if e.hooks.OnGenerate != nil {
		e.hooks.OnGenerate(ctx, &domain.GenerateEvent{Table: res.Table, Items: len(res.Items), Seed: seed})
	}
	return res, nil
}

func (e *Engine) seedFor(ctx context.Context, t *loot.Table, cfg generateConfig) (uint64, error) {
	if cfg.hasSeed {
		return cfg.seed, nil
	}
	if seq := t.RandomSequence(); seq != "" && e.sequences != nil {
		counter, err := e.sequences.Advance(ctx, seq)
		if err != nil {
			return 0, fmt.Errorf("failed to advance random sequence %s: %w", seq, err)
		}
		return loot.SequenceSeed(e.worldSeed, seq, counter), nil
	}
	return rand.Uint64(), nil
}

// ErrNotWatchable is returned by Watch when the source cannot signal changes.
var ErrNotWatchable = errors.New("current source does not support watching")

// Watch returns a channel that signals when the underlying assets change.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.source.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, ErrNotWatchable
}

// WatchAndReload reloads after every change until ctx is done. onReload, if
// set, observes every attempt.
func (e *Engine) WatchAndReload(ctx context.Context, onReload func(*registry.Report, error)) error {
	changes, err := e.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			report, err := e.Reload(ctx)
			if err != nil {
				e.logger.Error("reload failed", "err", err)
			}
			if onReload != nil {
				onReload(report, err)
			}
		}
	}
}

// Source returns the underlying AssetSource used by the engine.
func (e *Engine) Source() ports.AssetSource {
	return e.source
}
