package prodex

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// engineMetrics holds prometheus metrics registered for the engine.
type engineMetrics struct {
	searches *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newEngineMetrics(reg prometheus.Registerer) (*engineMetrics, error) {
	m := &engineMetrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prodex",
			Subsystem: "engine",
			Name:      "searches_total",
			Help:      "Total engine searches by path and status.",
		}, []string{"path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "prodex",
			Subsystem: "engine",
			Name:      "search_duration_seconds",
			Help:      "Engine search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	if err := registerOrReuse(reg, &m.searches); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("prodex: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("prodex: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for engine searches.
type observer struct {
	logger  *zap.Logger
	metrics *engineMetrics
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *engineMetrics
	if reg != nil {
		var err error
		m, err = newEngineMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(path Path, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	label := string(path)
	if label == "" {
		label = "none"
	}

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.searches.WithLabelValues(label, status).Inc()
		o.metrics.duration.WithLabelValues(label).Observe(dur.Seconds())
	}

	if err != nil {
		o.logger.Warn("search failed", zap.Duration("duration", dur), zap.Error(err))
		return
	}
	o.logger.Debug("search completed", zap.String("path", label), zap.Duration("duration", dur))
}
