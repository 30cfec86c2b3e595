package control

import (
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/fuzzy"
	"github.com/san-kum/fuzzypend/internal/physics"
)

// Fuzzy feeds {normalised θ, ω} to an inference engine.
// It is stateless; one instance may serve concurrent runs.
type Fuzzy struct {
	engine *fuzzy.Engine
}

// NewFuzzy uses the standard pendulum engine when eng is nil.
func NewFuzzy(eng *fuzzy.Engine) *Fuzzy {
	if eng == nil {
		eng = fuzzy.NewPendulumEngine()
	}
	return &Fuzzy{engine: eng}
}

func (f *Fuzzy) Engine() *fuzzy.Engine { return f.engine }

func (f *Fuzzy) Compute(x dynamo.State, t float64) dynamo.Control {
	return dynamo.Control{f.engine.Infer(physics.Normalize(x[0]), x[1])}
}
