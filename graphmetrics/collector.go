// Package graphmetrics exports a graph.Runtime's counters to Prometheus.
package graphmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/delaneyj/signalgraph/graph"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "signalgraph").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric, e.g. the runtime's name.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry the collector registers itself with. Nil skips registration.
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "signalgraph",
		Buckets:   prometheus.DefBuckets,
	}
}

type counter struct {
	desc  *prometheus.Desc
	value func(graph.Stats) uint64
}

// Collector publishes the last stats it was given. A Runtime belongs to one
// goroutine while scrapes arrive on others, so the runtime's goroutine pushes
// stats with Observe or Flush and Collect only reads the copy.
type Collector struct {
	rt *graph.Runtime

	counters []counter
	nodes    *prometheus.Desc
	pending  *prometheus.Desc
	flushes  prometheus.Histogram

	mu    sync.Mutex
	stats graph.Stats
}

// New builds a collector for rt and registers it when a registry is set.
func New(rt *graph.Runtime, opts ...Option) (*Collector, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(cfg.Namespace, cfg.Subsystem, name), help, nil, cfg.ConstLabels)
	}

	c := &Collector{
		rt: rt,
		counters: []counter{
			{desc("writes_total", "Signal writes that changed a value"), func(s graph.Stats) uint64 { return s.Writes }},
			{desc("marks_total", "Nodes visited by the mark phase"), func(s graph.Stats) uint64 { return s.Marks }},
			{desc("recomputes_total", "Memo and effect body executions"), func(s graph.Stats) uint64 { return s.Recomputes }},
			{desc("effect_runs_total", "Effect body executions"), func(s graph.Stats) uint64 { return s.EffectRuns }},
			{desc("flushes_total", "Effect queue flushes"), func(s graph.Stats) uint64 { return s.Flushes }},
			{desc("disposals_total", "Disposed nodes"), func(s graph.Stats) uint64 { return s.Disposals }},
			{desc("errors_total", "Failed memo and effect executions"), func(s graph.Stats) uint64 { return s.Errors }},
		},
		nodes:   desc("nodes", "Live nodes"),
		pending: desc("pending_effects", "Queued effect entries"),
		flushes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Time spent in one effect queue flush",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		stats: rt.Stats(),
	}

	if cfg.Registry != nil {
		if err := cfg.Registry.Register(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe copies the runtime's current stats. Call it from the goroutine
// that owns the runtime.
func (c *Collector) Observe() {
	stats := c.rt.Stats()

	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}

// Flush runs the runtime's effects, records how long it took and observes
// the resulting stats.
func (c *Collector) Flush() error {
	start := time.Now()
	err := c.rt.RunEffects()
	c.flushes.Observe(time.Since(start).Seconds())
	c.Observe()
	return err
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, ctr := range c.counters {
		ch <- ctr.desc
	}
	ch <- c.nodes
	ch <- c.pending
	c.flushes.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	stats := c.stats
	c.mu.Unlock()

	for _, ctr := range c.counters {
		ch <- prometheus.MustNewConstMetric(ctr.desc, prometheus.CounterValue, float64(ctr.value(stats)))
	}
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(stats.Nodes))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(stats.Pending))
	c.flushes.Collect(ch)
}
