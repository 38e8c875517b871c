package telemetry

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "yxflow"

// Metrics groups the counters recorded while ingesting, resolving and
// analyzing workflow documents.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsParsed *prometheus.CounterVec
	NodesSkipped    prometheus.Counter
	EdgesDropped    prometheus.Counter
	MacroParses     prometheus.Counter
	MacrosResolved  *prometheus.CounterVec
	MacrosMissing   *prometheus.CounterVec
	CacheHits       prometheus.Counter
	Analyses        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocumentsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "documents_total",
			Help:      "Workflow documents parsed, by outcome.",
		}, []string{"outcome"}),
		NodesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "nodes_skipped_total",
			Help:      "Node records skipped because their tool ID was unusable.",
		}),
		EdgesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "edges_dropped_total",
			Help:      "Connections dropped because an endpoint was not a node.",
		}),
		MacroParses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "macro",
			Name:      "parses_total",
			Help:      "Macro documents read from disk.",
		}),
		MacrosResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "macro",
			Name:      "resolved_total",
			Help:      "Macro references spliced, by search location.",
		}, []string{"location"}),
		MacrosMissing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "macro",
			Name:      "missing_total",
			Help:      "Macro references left unresolved, by reason.",
		}, []string{"reason"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "macro",
			Name:      "cache_hits_total",
			Help:      "Macro references served from the resolution cache.",
		}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analyze",
			Name:      "runs_total",
			Help:      "Transformation analyses, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.DocumentsParsed, m.NodesSkipped, m.EdgesDropped,
		m.MacroParses, m.MacrosResolved, m.MacrosMissing, m.CacheHits,
		m.Analyses,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// DocumentParsed records the result of parsing one document.
func (m *Metrics) DocumentParsed(err error) {
	if m == nil {
		return
	}
	m.DocumentsParsed.WithLabelValues(outcome(err)).Inc()
}

// NodeSkipped records a node record dropped during ingestion.
func (m *Metrics) NodeSkipped() {
	if m == nil {
		return
	}
	m.NodesSkipped.Inc()
}

// EdgeDropped records a connection dropped during ingestion.
func (m *Metrics) EdgeDropped() {
	if m == nil {
		return
	}
	m.EdgesDropped.Inc()
}

// MacroParsed records one macro document read from disk.
func (m *Metrics) MacroParsed() {
	if m == nil {
		return
	}
	m.MacroParses.Inc()
}

// MacroResolved records a spliced reference.
func (m *Metrics) MacroResolved(location string, fromCache bool) {
	if m == nil {
		return
	}
	m.MacrosResolved.WithLabelValues(location).Inc()
	if fromCache {
		m.CacheHits.Inc()
	}
}

// MacroMissing records an unresolved reference.
func (m *Metrics) MacroMissing(reason string) {
	if m == nil {
		return
	}
	m.MacrosMissing.WithLabelValues(reason).Inc()
}

// AnalysisDone records the result of one analysis.
func (m *Metrics) AnalysisDone(err error) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(outcome(err)).Inc()
}

// WriteText writes every metric in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
