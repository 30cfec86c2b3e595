package metrics

import (
	"math"

	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/physics"
)

// Stability is the fraction of steps whose wrapped angle lies within
// band radians of target.
type Stability struct {
	name    string
	target  float64
	band    float64
	inside  int
	samples int
}

func NewStability(target, band float64) *Stability {
	return &Stability{
		name:   "stability",
		target: target,
		band:   band,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) == 0 {
		return
	}
	s.samples++
	if math.Abs(physics.Normalize(x[0]-s.target)) <= s.band {
		s.inside++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.inside) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.inside = 0
	s.samples = 0
}
