package control

import (
	"fmt"
	"math"

	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/physics"
)

// PID regulates the wrapped pole angle towards Target. The derivative term
// uses the measured angular velocity, so wrapping at ±π does not kick it.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	Limit  float64 // |force| cap, 0 disables

	integral float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Limit:  50,
		first:  true,
	}
}

func (p *PID) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) < 2 {
		return dynamo.Control{0}
	}

	err := physics.Normalize(p.Target - x[0])

	if p.first {
		p.prevT = t
		p.first = false
	} else if dt := t - p.prevT; dt > 0 {
		p.integral += err * dt
		p.prevT = t
	}

	// a positive cart force accelerates θ negatively
	u := -(p.Kp*err + p.Ki*p.integral - p.Kd*x[1])
	if p.Limit > 0 {
		u = math.Max(-p.Limit, math.Min(p.Limit, u))
	}
	return dynamo.Control{u}
}

// Reset clears the integral term.
func (p *PID) Reset() {
	p.integral = 0
	p.first = true
}

func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     p.Kp,
		"ki":     p.Ki,
		"kd":     p.Kd,
		"target": p.Target,
		"limit":  p.Limit,
	}
}

func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	case "limit":
		p.Limit = value
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	return nil
}
