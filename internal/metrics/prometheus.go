package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/physics"
)

// Prometheus is a dynamo.Observer that mirrors a run into collectors on
// its own registry. Nothing is served; WriteFile dumps the text format.
type Prometheus struct {
	Registry *prometheus.Registry

	steps prometheus.Counter
	force prometheus.Histogram
	angle prometheus.Gauge
	omega prometheus.Gauge
}

func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Prometheus{
		Registry: reg,
		steps: f.NewCounter(prometheus.CounterOpts{
			Name: "fuzzypend_steps_total",
			Help: "The total number of simulation steps",
		}),
		force: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fuzzypend_force_newtons",
			Help:    "Cart force chosen by the controller",
			Buckets: prometheus.LinearBuckets(-50, 10, 11),
		}),
		angle: f.NewGauge(prometheus.GaugeOpts{
			Name: "fuzzypend_angle_degrees",
			Help: "Most recent wrapped pole angle",
		}),
		omega: f.NewGauge(prometheus.GaugeOpts{
			Name: "fuzzypend_angular_velocity_degrees",
			Help: "Most recent angular velocity in degrees per second",
		}),
	}
}

func (p *Prometheus) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	p.steps.Inc()
	if len(u) > 0 {
		p.force.Observe(u[0])
	}
	if len(x) >= 2 {
		p.angle.Set(physics.Degrees(physics.Normalize(x[0])))
		p.omega.Set(physics.Degrees(x[1]))
	}
}

func (p *Prometheus) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, p.Registry)
}
