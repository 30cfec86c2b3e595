package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/fuzzypend/internal/dynamo"
)

type oscillator struct{}

func (s *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *oscillator) StateDim() int   { return 2 }
func (s *oscillator) ControlDim() int { return 0 }

// constAccel has a fixed acceleration set by the control.
type constAccel struct{}

func (c *constAccel) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], u[0]}
}

func (c *constAccel) StateDim() int   { return 2 }
func (c *constAccel) ControlDim() int { return 1 }

func TestKinematicStep(t *testing.T) {
	integ := NewKinematic()
	x := dynamo.State{0.2, -0.5}
	a, dt := 3.0, 0.01

	got := integ.Step(&constAccel{}, x, dynamo.Control{a}, 0, dt)

	v := x[1] + a*dt
	q := x[0] + v*dt + 0.5*a*dt*dt
	if got[1] != v {
		t.Errorf("velocity = %v, want %v", got[1], v)
	}
	if math.Abs(got[0]-q) > 1e-15 {
		t.Errorf("position = %v, want %v", got[0], q)
	}
}

func TestKinematicDoesNotMutateInput(t *testing.T) {
	x := dynamo.State{1, 2}
	NewKinematic().Step(&constAccel{}, x, dynamo.Control{1}, 0, 0.1)
	if x[0] != 1 || x[1] != 2 {
		t.Errorf("input state modified: %v", x)
	}
}

func TestEulerStep(t *testing.T) {
	got := NewEuler().Step(&constAccel{}, dynamo.State{1, 2}, dynamo.Control{4}, 0, 0.5)
	if got[0] != 2 || got[1] != 4 {
		t.Errorf("Euler step = %v, want [2 4]", got)
	}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(&oscillator{}, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestOrderOfAccuracy(t *testing.T) {
	run := func(integ dynamo.Integrator) float64 {
		x := dynamo.State{1.0, 0.0}
		for i := 0; i < 500; i++ {
			x = integ.Step(&oscillator{}, x, nil, float64(i)*0.01, 0.01)
		}
		return math.Hypot(x[0]-math.Cos(5), x[1]+math.Sin(5))
	}

	euler := run(NewEuler())
	kin := run(NewKinematic())
	rk4 := run(NewRK4())

	if !(rk4 < kin && rk4 < euler) {
		t.Errorf("expected RK4 most accurate: euler=%g kinematic=%g rk4=%g", euler, kin, rk4)
	}
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(&oscillator{}, x, nil, 0, 0.01)
	}
}

func BenchmarkKinematic(b *testing.B) {
	integrator := NewKinematic()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(&oscillator{}, x, nil, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(&oscillator{}, x, nil, 0, 0.01)
	}
}
