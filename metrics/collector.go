package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the set of metrics one inference run emits. Its methods
// update the underlying Prometheus collectors whether or not Register has
// been called; callers that never register simply never export them.
type Collector struct {
	proposed   prometheus.Counter
	accepted   prometheus.Counter
	generation prometheus.Gauge
	tolerance  *prometheus.GaugeVec
	duration   prometheus.Histogram
}

// New builds a Collector labeled with a run identifier.
func New(runID string) *Collector {
	labels := prometheus.Labels{"run_id": runID}
	return &Collector{
		proposed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "abcsmc_particles_proposed_total",
			Help:        "Number of particle proposals evaluated across all generations.",
			ConstLabels: labels,
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "abcsmc_particles_accepted_total",
			Help:        "Number of particles accepted into a generation.",
			ConstLabels: labels,
		}),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "abcsmc_generation",
			Help:        "Index of the generation currently being computed.",
			ConstLabels: labels,
		}),
		tolerance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "abcsmc_tolerance",
			Help:        "Current tolerance value per summary statistic.",
			ConstLabels: labels,
		}, []string{"statistic"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "abcsmc_generation_duration_seconds",
			Help:        "Wall-clock time to complete one generation.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
	}
}

// Register adds every metric in c to registry.
func (c *Collector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{c.proposed, c.accepted, c.generation, c.tolerance, c.duration}
	for _, coll := range collectors {
		if err := registry.Register(coll); err != nil {
			return err
		}
	}
	return nil
}

// ObserveProposals increments the proposed counter by n.
func (c *Collector) ObserveProposals(n int) {
	c.proposed.Add(float64(n))
}

// ObserveAccepted increments the accepted counter by n.
func (c *Collector) ObserveAccepted(n int) {
	c.accepted.Add(float64(n))
}

// SetGeneration records the current generation index.
func (c *Collector) SetGeneration(g int) {
	c.generation.Set(float64(g))
}

// SetTolerance records the current tolerance for a named summary statistic.
func (c *Collector) SetTolerance(statistic string, eps float64) {
	c.tolerance.WithLabelValues(statistic).Set(eps)
}

// ObserveDuration records a generation's wall-clock time in seconds.
func (c *Collector) ObserveDuration(seconds float64) {
	c.duration.Observe(seconds)
}
