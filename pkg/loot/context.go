package loot

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/trove/internal/logging"
	"github.com/aretw0/trove/pkg/domain"
)

// EvalContext carries everything one generation call is evaluated against.
// It is not safe for concurrent use.
type EvalContext struct {
	ctx      context.Context
	params   *EvalParams
	resolver Resolver
	rng      *rand.Rand
	seed     uint64
	visited  map[domain.Identity]struct{}
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// ContextOption configures an EvalContext.
type ContextOption func(*EvalContext)

// WithSeed seeds the random stream; equal seeds yield equal draws.
func WithSeed(seed uint64) ContextOption {
	return func(c *EvalContext) {
		c.seed = seed
		c.rng = NewRandom(seed)
	}
}

// WithRandom injects an existing random stream.
func WithRandom(rng *rand.Rand) ContextOption {
	return func(c *EvalContext) {
		c.rng = rng
	}
}

// WithContext attaches a context.Context passed to lifecycle hooks.
func WithContext(ctx context.Context) ContextOption {
	return func(c *EvalContext) {
		c.ctx = ctx
	}
}

// WithLogger sets the logger used for runtime warnings.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *EvalContext) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ContextOption {
	return func(c *EvalContext) {
		c.hooks = hooks
	}
}

// NewRandom returns the deterministic stream used for a seed.
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewContext creates an evaluation context. Without WithSeed or WithRandom the
// stream is seeded randomly.
func NewContext(params *EvalParams, resolver Resolver, opts ...ContextOption) *EvalContext {
	c := &EvalContext{
		ctx:      context.Background(),
		params:   params,
		resolver: resolver,
		visited:  make(map[domain.Identity]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.seed = rand.Uint64()
		c.rng = NewRandom(c.seed)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.params == nil {
		c.params = &EvalParams{set: domain.ParamSetEmpty}
	}
	return c
}

// Context returns the attached context.Context.
func (c *EvalContext) Context() context.Context { return c.ctx }

// Params returns the evaluation parameters.
func (c *EvalContext) Params() *EvalParams { return c.params }

// Luck returns the luck modifier of the parameters.
func (c *EvalContext) Luck() float32 { return c.params.luck }

// Random returns the random stream owned by this context.
func (c *EvalContext) Random() *rand.Rand { return c.rng }

// Seed returns the seed the stream was created with (zero for injected streams).
func (c *EvalContext) Seed() uint64 { return c.seed }

// Resolver returns the snapshot lookup capability.
func (c *EvalContext) Resolver() Resolver { return c.resolver }

// Logger returns the runtime logger.
func (c *EvalContext) Logger() *slog.Logger { return c.logger }

// HasParam reports whether the named parameter is present.
func (c *EvalContext) HasParam(name string) bool { return c.params.Has(name) }

// Param returns a typed parameter from the context.
func Param[T any](c *EvalContext, key domain.ParamKey[T]) (T, bool) {
	var zero T
	v, ok := c.params.values[key.Name()]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// PushVisited marks id as being evaluated. It returns false if id is already
// on the evaluation stack.
func (c *EvalContext) PushVisited(id domain.Identity) bool {
	if _, ok := c.visited[id]; ok {
		return false
	}
	c.visited[id] = struct{}{}
	return true
}

// PopVisited removes id from the evaluation stack.
func (c *EvalContext) PopVisited(id domain.Identity) {
	delete(c.visited, id)
}

// HasVisited reports whether id is on the evaluation stack.
func (c *EvalContext) HasVisited(id domain.Identity) bool {
	_, ok := c.visited[id]
	return ok
}

// AddDynamicDrops runs the named producer registered on the parameters.
// Unknown names are a no-op.
func (c *EvalContext) AddDynamicDrops(name string, out func(domain.Item)) {
	if drop, ok := c.params.dynamic[name]; ok && drop != nil {
		drop(out)
	}
}

func (c *EvalContext) reportCycle(id domain.Identity) {
	c.logger.Warn("detected infinite loop in loot tables", "element", id.String())
	if c.hooks.OnCycle != nil {
		c.hooks.OnCycle(c.ctx, &domain.CycleEvent{Element: id})
	}
}
