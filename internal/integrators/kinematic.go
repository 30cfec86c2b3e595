package integrators

import "github.com/san-kum/fuzzypend/internal/dynamo"

// Kinematic steps second-order systems laid out as [positions..., velocities...].
// The acceleration is evaluated once at the start of the step; velocities
// are updated first and positions use the updated velocity plus a ½·a·dt²
// correction:
//
//	v' = v + a·dt
//	q' = q + v'·dt + ½·a·dt²
type Kinematic struct{}

func NewKinematic() *Kinematic {
	return &Kinematic{}
}

func (k *Kinematic) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2

	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, n)
	halfDt2 := 0.5 * dt * dt

	for i := 0; i < half; i++ {
		acc := dx[half+i]
		v := x[half+i] + acc*dt
		result[half+i] = v
		result[i] = x[i] + v*dt + acc*halfDt2
	}

	return result
}
