// Package control provides cart force laws for the pendulum.
//
// Controllers implement the [dynamo.Controller] interface:
//
//   - [Fuzzy]: the Mamdani rule-base controller (default)
//   - [PID]: angle PID with output saturation, for comparison runs
//   - [None]: zero force
//
// # Usage
//
//	ctrl := control.NewFuzzy(fuzzy.NewPendulumEngine())
//	sim := dynamo.New(dyn, integ, ctrl)
//	// Compute is called once per step with the unwrapped state
//
// Every controller wraps the angle into (-π, π] before using it.
package control
