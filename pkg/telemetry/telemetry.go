// Package telemetry instruments the pipeline with Prometheus metrics. The
// registry is created per run and injected; nothing here is global.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all pipeline metrics
type Registry struct {
	InteractionsLoaded prometheus.Counter

	GraphNodes  prometheus.Gauge
	GraphEdges  prometheus.Gauge
	GraphWeight prometheus.Gauge

	CommunitiesDetected prometheus.Gauge
	Modularity          prometheus.Gauge
	ReplySamples        prometheus.Gauge

	StageDuration    *prometheus.HistogramVec
	SimulationTrials *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all pipeline metrics initialised
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		InteractionsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orgnet_interactions_loaded_total",
			Help: "Valid interaction records loaded from the input table",
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgnet_graph_nodes",
			Help: "Nodes in the communication graph",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgnet_graph_edges",
			Help: "Distinct directed edges in the communication graph",
		}),
		GraphWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgnet_graph_weight_total",
			Help: "Total interaction count across all edges",
		}),
		CommunitiesDetected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgnet_communities_detected",
			Help: "Communities in the detected partition",
		}),
		Modularity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgnet_partition_modularity",
			Help: "Modularity Q of the detected partition",
		}),
		ReplySamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orgnet_reply_samples",
			Help: "Confirmed reply pairs found by the response-time estimator",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orgnet_stage_duration_seconds",
			Help:    "Wall time per pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
		SimulationTrials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgnet_simulation_trials_total",
			Help: "Removal trials run, by archetype",
		}, []string{"archetype"}),
	}

	reg.MustRegister(
		r.InteractionsLoaded,
		r.GraphNodes,
		r.GraphEdges,
		r.GraphWeight,
		r.CommunitiesDetected,
		r.Modularity,
		r.ReplySamples,
		r.StageDuration,
		r.SimulationTrials,
	)

	return r
}

// ObserveStage records one stage's wall time
func (r *Registry) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// PrometheusRegistry returns the underlying registry for scraping or
// gathering.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}
