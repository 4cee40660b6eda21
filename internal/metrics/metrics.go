// Package metrics exposes engine activity as Prometheus collectors driven by
// lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the engine metrics.
type Collector struct {
	registry       *prometheus.Registry
	reloads        prometheus.Counter
	reloadProblems prometheus.Gauge
	reloadAssets   prometheus.Gauge
	reloadDuration prometheus.Histogram
	generations    *prometheus.CounterVec
	items          *prometheus.CounterVec
	cycles         *prometheus.CounterVec
}

// New creates a Collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trove_reloads_total",
			Help: "Total number of published snapshots",
		}),
		reloadProblems: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trove_reload_problems",
			Help: "Validation problems found by the last reload",
		}),
		reloadAssets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trove_snapshot_assets",
			Help: "Assets published by the last reload",
		}),
		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trove_reload_duration_seconds",
			Help:    "Duration of registry reloads",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trove_generate_total",
			Help: "Total number of top-level generation calls",
		}, []string{"table"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trove_items_total",
			Help: "Total number of item stacks produced",
		}, []string{"table"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trove_cycles_total",
			Help: "Assets reached from themselves during generation",
		}, []string{"element"}),
	}
	c.registry.MustRegister(
		c.reloads, c.reloadProblems, c.reloadAssets, c.reloadDuration,
		c.generations, c.items, c.cycles,
	)
	return c
}

// Hooks returns lifecycle hooks recording into c.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReload: func(_ context.Context, e *domain.ReloadEvent) {
			c.reloads.Inc()
			c.reloadProblems.Set(float64(len(e.Problems)))
			c.reloadAssets.Set(float64(e.Assets))
			c.reloadDuration.Observe(e.Duration.Seconds())
		},
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			table := e.Table.Name
			c.generations.WithLabelValues(table).Inc()
			c.items.WithLabelValues(table).Add(float64(e.Items))
		},
		OnCycle: func(_ context.Context, e *domain.CycleEvent) {
			c.cycles.WithLabelValues(e.Element.String()).Inc()
		},
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
