package fuzzy

import (
	"fmt"
	"math"
)

// Label is a linguistic term shared by every variable of the controller.
type Label int

const (
	NG Label = iota // negative large
	NP              // negative small
	Z               // zero
	PP              // positive small
	PG              // positive large
)

// NumLabels is the size of every partition.
const NumLabels = 5

// Labels lists the terms from most negative to most positive.
var Labels = [NumLabels]Label{NG, NP, Z, PP, PG}

var labelNames = [NumLabels]string{"NG", "NP", "Z", "PP", "PG"}

func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

func (l Label) Valid() bool {
	return l >= NG && l <= PG
}

// Mirror returns the label on the opposite side of zero.
func (l Label) Mirror() Label {
	return PG - l
}

// ParseLabel accepts the short names NG, NP, Z, PP and PG.
func ParseLabel(s string) (Label, error) {
	for i, name := range labelNames {
		if name == s {
			return Label(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

// Degrees holds one membership degree per label.
type Degrees [NumLabels]float64

// Sum adds the degrees of every label.
func (d Degrees) Sum() float64 {
	s := 0.0
	for _, v := range d {
		s += v
	}
	return s
}

// Universe is a sampled interval [Min, Max) with fixed spacing.
type Universe struct {
	Min  float64
	Max  float64
	Step float64
}

// Len returns the number of samples, counting like an arange.
func (u Universe) Len() int {
	if u.Step <= 0 || u.Max <= u.Min {
		return 0
	}
	return int(math.Ceil((u.Max - u.Min) / u.Step))
}

// Points materialises the sample grid. Sample i is Min + i*Step.
func (u Universe) Points() []float64 {
	n := u.Len()
	pts := make([]float64, n)
	for i := range pts {
		pts[i] = u.Min + float64(i)*u.Step
	}
	return pts
}

// Clip bounds x to the declared range.
func (u Universe) Clip(x float64) float64 {
	return math.Max(u.Min, math.Min(u.Max, x))
}

// Set attaches a membership function to a label.
type Set struct {
	Label Label
	Fn    MembershipFunc
}

// Variable is a named dimension partitioned into five sets.
type Variable struct {
	name     string
	universe Universe
	sets     [NumLabels]MembershipFunc
}

// NewVariable checks that sets cover each label exactly once.
func NewVariable(name string, u Universe, sets ...Set) (*Variable, error) {
	if u.Len() == 0 {
		return nil, fmt.Errorf("variable %s: %w", name, ErrEmptyUniverse)
	}
	if len(sets) != NumLabels {
		return nil, fmt.Errorf("variable %s: got %d sets: %w", name, len(sets), ErrLabelCount)
	}

	v := &Variable{name: name, universe: u}
	for _, s := range sets {
		if !s.Label.Valid() {
			return nil, fmt.Errorf("variable %s: %w: %d", name, ErrUnknownLabel, int(s.Label))
		}
		if v.sets[s.Label] != nil || s.Fn == nil {
			return nil, fmt.Errorf("variable %s: label %s: %w", name, s.Label, ErrLabelCount)
		}
		v.sets[s.Label] = s.Fn
	}
	return v, nil
}

func (v *Variable) Name() string       { return v.name }
func (v *Variable) Universe() Universe { return v.universe }

// membership evaluates the set for label l at x.
func (v *Variable) membership(l Label, x float64) float64 {
	return v.sets[l](x)
}

// Fuzzify evaluates every set at x.
func (v *Variable) Fuzzify(x float64) Degrees {
	var d Degrees
	for _, l := range Labels {
		d[l] = v.membership(l, x)
	}
	return d
}
