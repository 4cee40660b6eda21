// Package registry loads, validates and publishes asset snapshots.
//
// A reload runs in two phases. Prepare lists and decodes every asset
// concurrently and returns only once all kinds are done. Apply merges the
// result, validates the merged graph and atomically publishes it. Readers
// call Snapshot once per generation and keep using that value.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/trove/internal/compiler"
	"github.com/aretw0/trove/internal/logging"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/aretw0/trove/pkg/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Report summarizes one reload.
type Report struct {
	SnapshotID string           `json:"snapshot_id"`
	Assets     int              `json:"assets"`
	Dropped    int              `json:"dropped"`
	Problems   []domain.Problem `json:"problems,omitempty"`
	Duration   time.Duration    `json:"duration"`
}

// HasProblems reports whether any decode failure or validation problem was found.
func (r *Report) HasProblems() bool { return len(r.Problems) > 0 }

// Pending is the result of Prepare: every decoded asset, per kind, plus the
// decode failures. It is consumed by Apply.
type Pending struct {
	assets   map[domain.Kind]map[string]loot.Asset
	problems []domain.Problem
	started  time.Time
}

// Assets returns the number of decoded assets.
func (p *Pending) Assets() int {
	n := 0
	for _, m := range p.assets {
		n += len(m)
	}
	return n
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithConcurrency bounds the number of documents decoded at once per kind.
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithParser replaces the document parser.
func WithParser(p *compiler.Parser) Option {
	return func(m *Manager) {
		m.parser = p
	}
}

// Manager owns the published snapshot. Apply calls are serialized; Snapshot
// never blocks.
type Manager struct {
	source      ports.AssetSource
	parser      *compiler.Parser
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	concurrency int

	applyMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates a manager publishing an initial snapshot that only holds the
// empty table.
func New(source ports.AssetSource, opts ...Option) (*Manager, error) {
	m := &Manager{
		source:      source,
		logger:      logging.NewNop(),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.parser == nil {
		p, err := compiler.NewParser()
		if err != nil {
			return nil, err
		}
		m.parser = p
	}
	m.current.Store(newSnapshot(uuid.NewString(), make(map[domain.Identity]loot.Asset)))
	return m, nil
}

// Snapshot returns the currently published snapshot.
func (m *Manager) Snapshot() *Snapshot {
	return m.current.Load()
}

// Reload runs Prepare and Apply. On a source failure the published snapshot
// is left untouched.
func (m *Manager) Reload(ctx context.Context) (*Report, error) {
	p, err := m.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	return m.Apply(ctx, p), nil
}

// Prepare lists and decodes every asset of every kind concurrently.
// Decode failures drop the single asset and are recorded as problems; only
// failures of the source itself are returned as errors.
func (m *Manager) Prepare(ctx context.Context) (*Pending, error) {
	p := &Pending{
		assets:  make(map[domain.Kind]map[string]loot.Asset, len(kindSpecs)),
		started: time.Now(),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, spec := range kindSpecs {
		g.Go(func() error {
			assets, problems, err := m.prepareKind(gctx, spec)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			p.assets[spec.kind] = assets
			p.problems = append(p.problems, problems...)
			return nil
		})
	}
	// Barrier: validation must see every kind.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Manager) prepareKind(ctx context.Context, spec kindSpec) (map[string]loot.Asset, []domain.Problem, error) {
	names, err := m.source.ListAssets(ctx, spec.kind)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s assets: %w", spec.kind, err)
	}

	var (
		mu       sync.Mutex
		assets   = make(map[string]loot.Asset, len(names))
		problems []domain.Problem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for _, name := range names {
		g.Go(func() error {
			id := domain.ID(spec.kind, name)
			asset, err := m.decode(gctx, spec, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				m.logger.Warn("failed to decode asset", "kind", spec.kind, "name", name, "err", err)
				problems = append(problems, domain.Problem{Path: "{" + id.String() + "}", Message: err.Error()})
				return nil
			}
			assets[name] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return assets, problems, nil
}

func (m *Manager) decode(ctx context.Context, spec kindSpec, id domain.Identity) (loot.Asset, error) {
	raw, err := m.source.ReadAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return spec.decode(m.parser, id.Name, raw)
}

// Apply merges p, validates the merged graph and publishes it. Problems are
// reported, never fatal: the snapshot is always published.
func (m *Manager) Apply(ctx context.Context, p *Pending) *Report {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	merged := make(map[domain.Identity]loot.Asset, p.Assets()+1)
	for kind, assets := range p.assets {
		for name, a := range assets {
			merged[domain.ID(kind, name)] = a
		}
	}

	problems := append([]domain.Problem(nil), p.problems...)
	if _, ok := merged[domain.EmptyTable]; ok {
		problems = append(problems, domain.Problem{
			Path:    "{" + domain.EmptyTable.String() + "}",
			Message: "name is reserved for the built-in empty table",
		})
		delete(merged, domain.EmptyTable)
	}
	snap := newSnapshot(uuid.NewString(), merged)

	sink := &loot.ProblemCollector{}
	for _, id := range snap.Identities() {
		asset, _ := snap.Element(id)
		vc := loot.NewValidationContext(sink, specFor(id.Kind).params(asset), snap).
			EnterElement("{"+id.String()+"}", id)
		asset.Validate(vc)
	}
	problems = append(problems, sink.Problems()...)
	for _, pr := range problems {
		m.logger.Warn("found validation problem", "path", pr.Path, "problem", pr.Message)
	}

	m.current.Store(snap)

	report := &Report{
		SnapshotID: snap.ID(),
		Assets:     snap.Len(),
		Dropped:    len(p.problems),
		Problems:   problems,
		Duration:   time.Since(p.started),
	}
	m.logger.Info("published loot snapshot",
		"snapshot", report.SnapshotID,
		"assets", report.Assets,
		"problems", len(report.Problems),
		"duration", report.Duration,
	)
	if m.hooks.OnReload != nil {
		m.hooks.OnReload(ctx, &domain.ReloadEvent{
			SnapshotID: report.SnapshotID,
			Assets:     report.Assets,
			Dropped:    report.Dropped,
			Problems:   report.Problems,
			Duration:   report.Duration,
		})
	}
	return report
}
