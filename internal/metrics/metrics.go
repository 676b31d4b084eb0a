// Package metrics exports tower gameplay counters in the Prometheus format.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tower"

// Collector counts gameplay events. It satisfies stack.Observer.
// Each Collector owns its registry so tests and multiple servers do not
// collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	dropped   prometheus.Counter
	frozen    prometheus.Counter
	despawned prometheus.Counter
	completed *prometheus.CounterVec
	scores    prometheus.Histogram
	sessions  prometheus.Gauge
}

// New creates a collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_dropped_total",
			Help:      "Blocks released into the physics world.",
		}),
		frozen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_frozen_total",
			Help:      "Blocks that settled and froze into a tower.",
		}),
		despawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_despawned_total",
			Help:      "Blocks removed after falling below the platform.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_completed_total",
			Help:      "Completed levels by level number.",
		}, []string{"level"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "level_score",
			Help:      "Final scores of completed levels.",
			Buckets:   prometheus.LinearBuckets(0, 100, 12),
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently connected.",
		}),
	}
	c.registry.MustRegister(c.dropped, c.frozen, c.despawned, c.completed, c.scores, c.sessions)
	return c
}

// BlockDropped counts a drop.
func (c *Collector) BlockDropped() { c.dropped.Inc() }

// BlockFrozen counts a freeze.
func (c *Collector) BlockFrozen() { c.frozen.Inc() }

// BlockDespawned counts a despawn.
func (c *Collector) BlockDespawned() { c.despawned.Inc() }

// LevelCompleted counts a completed level and records its score.
// level is 0-based.
func (c *Collector) LevelCompleted(level, score int) {
	c.completed.WithLabelValues(strconv.Itoa(level + 1)).Inc()
	c.scores.Observe(float64(score))
}

// SessionStarted increments the active session gauge.
func (c *Collector) SessionStarted() { c.sessions.Inc() }

// SessionEnded decrements the active session gauge.
func (c *Collector) SessionEnded() { c.sessions.Dec() }

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler returns the /metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
