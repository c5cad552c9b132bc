// Package metrics exports styling engine events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/recera/vango-styles/pkg/styling"
)

const namespace = "vstyle"

// Metrics is a styling.Observer backed by Prometheus collectors
type Metrics struct {
	Computed     *prometheus.CounterVec
	Inserted     *prometheus.CounterVec
	InsertFailed prometheus.Counter

	reg prometheus.Registerer
}

var _ styling.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Computed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "declarations_computed_total",
				Help:      "Declarations resolved to rule records, by cache result",
			},
			[]string{"cache"},
		),
		Inserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rules_inserted_total",
				Help:      "Rules accepted by a style sheet, by insertion mode",
			},
			[]string{"mode"},
		),
		InsertFailed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_insert_failures_total",
				Help:      "Rules a style sheet rejected",
			},
		),
		reg: reg,
	}
	reg.MustRegister(m.Computed, m.Inserted, m.InsertFailed)
	return m
}

// WatchCache exports the size of c as a gauge
func (m *Metrics) WatchCache(c *styling.RuleCache) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_rules",
			Help:      "Rule records held by the cache",
		},
		func() float64 { return float64(c.Len()) },
	))
}

func (m *Metrics) RecordComputed(_ *styling.RuleRecord, created bool) {
	if created {
		m.Computed.WithLabelValues("miss").Inc()
		return
	}
	m.Computed.WithLabelValues("hit").Inc()
}

func (m *Metrics) RecordInserted(_ *styling.RuleRecord, mode styling.Mode) {
	m.Inserted.WithLabelValues(mode.String()).Inc()
}

func (m *Metrics) RecordInsertFailed(*styling.RuleRecord, error) {
	m.InsertFailed.Inc()
}
