// Package dynamo provides the fixed-step simulation core.
//
// The package defines the interfaces the cart-pole run is assembled from:
//
//   - [State]: system state vector
//   - [System]: dX/dt = f(X, u, t)
//   - [Integrator]: advances a state by one step
//   - [Controller]: feedback law u = k(X, t)
//   - [Simulator]: drives a run and collects the trajectory
//
// # Example
//
//	dyn := physics.NewCartPole()
//	sim := dynamo.New(dyn, integrators.NewKinematic(), control.NewFuzzy())
//	result, err := sim.Run(ctx, dynamo.State{theta0, 0}, cfg)
//
// # Thread Safety
//
// A Simulator carries per-run metric state and is NOT safe for concurrent
// runs. [RunBatch] builds one simulator per run for parallel sweeps.
package dynamo
