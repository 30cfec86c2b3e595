package metrics

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/san-kum/fuzzypend/internal/dynamo"
)

// |F| is recorded in millinewtons; 100 N leaves headroom over the ±50 N
// force universe.
const (
	effortScale    = 1000.0
	effortMaxMilli = 100_000
)

// ControlEffort reports the mean absolute force and keeps a histogram of
// |F| for percentiles.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
	hist    *hdrhistogram.Histogram
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
		hist: hdrhistogram.New(1, effortMaxMilli, 3),
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	for _, val := range u {
		a := math.Abs(val)
		c.sum += a
		// values past the top are clamped so the max stays meaningful
		_ = c.hist.RecordValue(min(int64(math.Round(a*effortScale)), effortMaxMilli))
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

// Quantile returns the q-th percentile (0..100) of |F| in newtons.
func (c *ControlEffort) Quantile(q float64) float64 {
	return float64(c.hist.ValueAtQuantile(q)) / effortScale
}

func (c *ControlEffort) Max() float64 {
	return float64(c.hist.Max()) / effortScale
}

// Summary is merged into Result.Metrics by callers that want percentiles.
func (c *ControlEffort) Summary() map[string]float64 {
	return map[string]float64{
		c.name:           c.Value(),
		c.name + "_p50": c.Quantile(50),
		c.name + "_p99": c.Quantile(99),
		c.name + "_max": c.Max(),
	}
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
	c.hist.Reset()
}
