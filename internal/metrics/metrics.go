// Package metrics exposes Prometheus counters describing how the constraint
// graph behaves during planning: how often edges manage to build a path and
// how often projections onto constraint sets succeed.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics of one graph instance.
type Registry struct {
	EdgeBuildsTotal     *prometheus.CounterVec
	EdgeBuildDuration   *prometheus.HistogramVec
	ProjectionsTotal    *prometheus.CounterVec
	LevelSetMissesTotal *prometheus.CounterVec
	GraphNodesTotal     prometheus.Gauge
	GraphEdgesTotal     prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry backed by a fresh prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.EdgeBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "manigraph_edge_builds_total",
			Help: "Total number of path builds attempted on graph edges",
		},
		[]string{"edge", "kind", "status"},
	)

	r.EdgeBuildDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "manigraph_edge_build_duration_seconds",
			Help:    "Edge path build duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"kind"},
	)

	r.ProjectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "manigraph_projections_total",
			Help: "Total number of projections onto constraint sets",
		},
		[]string{"constraint_set", "status"},
	)

	r.LevelSetMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "manigraph_level_set_empty_distribution_total",
			Help: "Level-set projections skipped because no unreached leaf was known",
		},
		[]string{"edge"},
	)

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "manigraph_graph_nodes_total",
			Help: "Number of nodes in the constraint graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "manigraph_graph_edges_total",
			Help: "Number of edges in the constraint graph",
		},
	)

	return r
}

// Gatherer returns the underlying registry for exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordEdgeBuild records one Build call on an edge.
func (r *Registry) RecordEdgeBuild(edge, kind string, success bool, duration time.Duration) {
	r.EdgeBuildsTotal.WithLabelValues(edge, kind, status(success)).Inc()
	r.EdgeBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveProjection records a projection outcome. It lets a Registry be
// plugged into a constraint projector as its observer.
func (r *Registry) ObserveProjection(set string, success bool) {
	r.ProjectionsTotal.WithLabelValues(set, status(success)).Inc()
}

// RecordLevelSetMiss records a level-set projection skipped for lack of
// target leaves.
func (r *Registry) RecordLevelSetMiss(edge string) {
	r.LevelSetMissesTotal.WithLabelValues(edge).Inc()
}

// UpdateGraphSize sets the node and edge gauges.
func (r *Registry) UpdateGraphSize(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
