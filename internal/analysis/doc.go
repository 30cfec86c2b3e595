// Package analysis inspects recorded pendulum runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation content of a trace
//   - [SettlingTime]: when the angle enters and stays inside a band
//   - [Summarize]: the numbers printed by the analyze command
//   - [ClosedLoopJacobian] and [Eigenvalues]: local stability of an
//     equilibrium under a controller
//   - [NewPhasePortrait]: θ against ω, rendered as ASCII
//
// # Local stability
//
// An equilibrium is locally stable when every eigenvalue of the closed-loop
// Jacobian has a negative real part:
//
//	j := analysis.ClosedLoopJacobian(model, ctrl, dynamo.State{math.Pi, 0}, 1e-6)
//	for _, ev := range analysis.Eigenvalues(j) {
//	    fmt.Println(real(ev) < 0)
//	}
package analysis
