package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sahayata-hq/ceres/pkg/config"
)

// Collector registers and records the service's Prometheus metrics.
type Collector struct {
	config *config.MetricsConfig

	compilationsTotal *prometheus.CounterVec
	schemesLoaded     prometheus.Gauge

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram

	conversationTurnsTotal  prometheus.Counter
	extractionFailuresTotal *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics on the
// given registry. A nil registry uses a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "sahayata"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "ceres"
	}
	if len(cfg.EvalDurationBuckets) == 0 {
		cfg.EvalDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}
	}

	c := &Collector{config: cfg}

	c.compilationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "compilations_total",
		Help:      "Scheme compilations by outcome.",
	}, []string{"status"})

	c.schemesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "schemes_loaded",
		Help:      "Number of compiled schemes currently registered.",
	})

	c.evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "evaluations_total",
		Help:      "Eligibility evaluations by scheme and verdict status.",
	}, []string{"scheme_id", "status"})

	c.evaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "evaluation_duration_seconds",
		Help:      "Eligibility evaluation latency.",
		Buckets:   cfg.EvalDurationBuckets,
	})

	c.conversationTurnsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "conversation_turns_total",
		Help:      "Applicant utterances processed by the collector.",
	})

	c.extractionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "extraction_failures_total",
		Help:      "Utterances that failed field extraction, by field.",
	}, []string{"field"})

	registry.MustRegister(
		c.compilationsTotal,
		c.schemesLoaded,
		c.evaluationsTotal,
		c.evaluationDuration,
		c.conversationTurnsTotal,
		c.extractionFailuresTotal,
	)
	return c
}

// RecordCompilation records one scheme compilation outcome
// ("success" or "error").
func (c *Collector) RecordCompilation(status string) {
	if !c.config.Enabled {
		return
	}
	c.compilationsTotal.WithLabelValues(status).Inc()
}

// SetSchemesLoaded updates the registered scheme count.
func (c *Collector) SetSchemesLoaded(n int) {
	if !c.config.Enabled {
		return
	}
	c.schemesLoaded.Set(float64(n))
}

// RecordEvaluation records one evaluation with its verdict status and
// latency.
func (c *Collector) RecordEvaluation(schemeID, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.evaluationsTotal.WithLabelValues(schemeID, status).Inc()
	c.evaluationDuration.Observe(duration.Seconds())
}

// RecordConversationTurn counts one processed utterance.
func (c *Collector) RecordConversationTurn() {
	if !c.config.Enabled {
		return
	}
	c.conversationTurnsTotal.Inc()
}

// RecordExtractionFailure counts one failed extraction for a field.
func (c *Collector) RecordExtractionFailure(field string) {
	if !c.config.Enabled {
		return
	}
	c.extractionFailuresTotal.WithLabelValues(field).Inc()
}
