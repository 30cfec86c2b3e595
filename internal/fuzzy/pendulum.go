package fuzzy

import "math"

func deg(d float64) float64 { return d * math.Pi / 180 }

// AngleVariable partitions the pole angle in radians.
// The outer sets extend to ±2.5π so that wrapped angles near ±π saturate.
func AngleVariable() *Variable {
	edge := 2.5 * math.Pi
	return mustVariable("angle", Universe{Min: -edge, Max: edge, Step: 0.01},
		Set{NG, Trap(-edge, -edge, -math.Pi, -deg(150))},
		Set{NP, Tri(-math.Pi, -deg(90), 0)},
		Set{Z, Tri(-deg(30), 0, deg(30))},
		Set{PP, Tri(0, deg(90), math.Pi)},
		Set{PG, Trap(deg(150), math.Pi, edge, edge)},
	)
}

// VelocityVariable partitions the angular velocity in rad/s.
func VelocityVariable() *Variable {
	return mustVariable("angular_velocity", Universe{Min: -10, Max: 10, Step: 0.1},
		Set{NG, Trap(-10, -10, -4, -1)},
		Set{NP, Tri(-4, -1, 0)},
		Set{Z, Tri(-1, 0, 1)},
		Set{PP, Tri(0, 1, 4)},
		Set{PG, Trap(1, 4, 10, 10)},
	)
}

// ForceVariable partitions the cart force in newtons.
func ForceVariable() *Variable {
	return mustVariable("force", Universe{Min: -50, Max: 50, Step: 0.5},
		Set{NG, Trap(-50, -50, -20, -10)},
		Set{NP, Tri(-20, -10, 0)},
		Set{Z, Tri(-10, 0, 10)},
		Set{PP, Tri(0, 10, 20)},
		Set{PG, Trap(10, 20, 50, 50)},
	)
}

// pendulumRules is the tuned table. Ten of the 25 cells are left empty on
// purpose; filling them changes the closed-loop behaviour.
var pendulumRules = []Rule{
	{NG, NG, PG}, {NG, NP, PG}, {NG, Z, PP},
	{NP, NG, PG}, {NP, NP, PP}, {NP, Z, PP},
	{Z, NG, PP}, {Z, NP, PP}, {Z, Z, Z},
	{PP, Z, NP}, {PP, PP, NP}, {PP, PG, NG},
	{PG, Z, NP}, {PG, PP, NG}, {PG, PG, NG},
}

// PendulumRules returns the 15-rule base of the cart-pole controller.
func PendulumRules() *RuleBase {
	rb, err := NewRuleBase(pendulumRules...)
	if err != nil {
		panic(err)
	}
	return rb
}

// NewPendulumEngine wires the standard variables and rules.
func NewPendulumEngine() *Engine {
	e, err := NewEngine(AngleVariable(), VelocityVariable(), ForceVariable(), PendulumRules())
	if err != nil {
		panic(err)
	}
	return e
}

func mustVariable(name string, u Universe, sets ...Set) *Variable {
	v, err := NewVariable(name, u, sets...)
	if err != nil {
		panic(err)
	}
	return v
}
