package domain

import (
	"context"
	"time"
)

// ReloadEvent describes a finished registry reload.
type ReloadEvent struct {
	SnapshotID string        `json:"snapshot_id"`
	Assets     int           `json:"assets"`
	Dropped    int           `json:"dropped"`
	Problems   []Problem     `json:"problems,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// GenerateEvent describes a finished top-level generation call.
type GenerateEvent struct {
	Table Identity `json:"table"`
	Items int      `json:"items"`
	Seed  uint64   `json:"seed"`
}

// CycleEvent is raised when an asset is reached from itself during generation.
type CycleEvent struct {
	Element Identity `json:"element"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnReload   func(context.Context, *ReloadEvent)
	OnGenerate func(context.Context, *GenerateEvent)
	OnCycle    func(context.Context, *CycleEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnReload:   chain(h.OnReload, other.OnReload),
		OnGenerate: chain(h.OnGenerate, other.OnGenerate),
		OnCycle:    chain(h.OnCycle, other.OnCycle),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
