package fuzzy

import (
	"errors"
	"fmt"
	"math"
)

// Engine is a two-input, one-output Mamdani controller.
// It holds no mutable state; Infer is safe for concurrent use.
type Engine struct {
	angle    *Variable
	velocity *Variable
	force    *Variable
	rules    *RuleBase
	clip     bool

	// output memberships sampled once over the force universe
	points  []float64
	sampled []Degrees
}

// NewEngine precomputes the sampled output sets.
func NewEngine(angle, velocity, force *Variable, rules *RuleBase) (*Engine, error) {
	if angle == nil || velocity == nil || force == nil || rules == nil {
		return nil, errors.New("fuzzy: engine needs two inputs, one output and a rule base")
	}
	pts := force.Universe().Points()
	if len(pts) == 0 {
		return nil, fmt.Errorf("output %s: %w", force.Name(), ErrEmptyUniverse)
	}

	sampled := make([]Degrees, len(pts))
	for i, u := range pts {
		sampled[i] = force.Fuzzify(u)
	}

	return &Engine{
		angle:    angle,
		velocity: velocity,
		force:    force,
		rules:    rules,
		clip:     true,
		points:   pts,
		sampled:  sampled,
	}, nil
}

// WithoutClipping returns a copy that fuzzifies inputs as given instead of
// bounding them to their universes first.
func (e *Engine) WithoutClipping() *Engine {
	c := *e
	c.clip = false
	return &c
}

func (e *Engine) Rules() *RuleBase { return e.rules }

// Inference is the full trace of one evaluation.
type Inference struct {
	Angle      Degrees
	Velocity   Degrees
	Firing     []float64 // aligned with Rules().Rules()
	Aggregated Degrees
	Force      float64
}

// Fired reports whether any rule had a non-zero strength.
func (in Inference) Fired() bool {
	return in.Aggregated.Sum() > 0
}

// Infer returns the crisp force for the given angle (rad) and angular
// velocity (rad/s).
func (e *Engine) Infer(angle, velocity float64) float64 {
	a, v := e.fuzzify(angle, velocity)
	return e.centroid(e.aggregate(a, v, nil))
}

// Evaluate is Infer with every intermediate value kept.
func (e *Engine) Evaluate(angle, velocity float64) Inference {
	a, v := e.fuzzify(angle, velocity)
	firing := make([]float64, 0, e.rules.Len())
	agg := e.aggregate(a, v, &firing)
	return Inference{
		Angle:      a,
		Velocity:   v,
		Firing:     firing,
		Aggregated: agg,
		Force:      e.centroid(agg),
	}
}

func (e *Engine) fuzzify(angle, velocity float64) (Degrees, Degrees) {
	if e.clip {
		angle = e.angle.Universe().Clip(angle)
		velocity = e.velocity.Universe().Clip(velocity)
	}
	return e.angle.Fuzzify(angle), e.velocity.Fuzzify(velocity)
}

// aggregate applies min for AND and max across rules sharing a consequent.
func (e *Engine) aggregate(a, v Degrees, firing *[]float64) Degrees {
	var agg Degrees
	for _, la := range Labels {
		for _, lv := range Labels {
			lf, ok := e.rules.Lookup(la, lv)
			if !ok {
				continue
			}
			w := math.Min(a[la], v[lv])
			if firing != nil {
				*firing = append(*firing, w)
			}
			if w > agg[lf] {
				agg[lf] = w
			}
		}
	}
	return agg
}

// centroid defuzzifies the union of the clipped output sets over the
// sampled universe. An empty union yields 0.
func (e *Engine) centroid(agg Degrees) float64 {
	num, den := 0.0, 0.0
	for i, u := range e.points {
		mu := 0.0
		for l, w := range agg {
			if w == 0 {
				continue
			}
			mu = math.Max(mu, math.Min(w, e.sampled[i][l]))
		}
		num += u * mu
		den += mu
	}
	if den == 0 {
		return 0
	}
	return num / den
}
