// Package fuzzy implements the Mamdani inference engine that drives the
// cart-pole.
//
// The package is split the same way the controller is described:
//
//   - [Triangular], [Trapezoidal]: piecewise-linear membership functions
//   - [Variable]: a universe of discourse partitioned into five [Set]s
//   - [RuleBase]: sparse (angle, velocity) -> force table
//   - [Engine]: fuzzify, min-AND, max-OR, centroid
//
// # Example
//
//	eng := fuzzy.NewPendulumEngine()
//	force := eng.Infer(theta, omega)
//
// # Thread Safety
//
// Variables, rule bases and engines are immutable after construction and
// may be shared freely between goroutines.
package fuzzy
