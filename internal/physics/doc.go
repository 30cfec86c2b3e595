// Package physics provides the cart-pole plant.
//
// [CartPole] implements [dynamo.System] over the pole state {θ, ω} with the
// cart force as its only control input. θ = 0 is the pole straight up and
// angles are wrapped with [Normalize] before any trigonometry.
//
// The model also implements [dynamo.Hamiltonian] for energy metrics and
// [dynamo.Configurable] for scenario parameter overrides:
//
//	cp := physics.NewCartPole()
//	if err := cp.SetParam("pole_mass", 0.3); err != nil { ... }
//	alpha := cp.AngularAcceleration(theta, omega, force)
package physics
