package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/fuzzypend/internal/dynamo"
)

// CartPole is a pole hinged on a cart. PoleLength is the pivot to centre of
// mass distance (half the rod).
type CartPole struct {
	Gravity    float64
	CartMass   float64
	PoleMass   float64
	PoleLength float64
}

func NewCartPole() *CartPole {
	return &CartPole{
		Gravity:    9.81,
		CartMass:   1.0,
		PoleMass:   0.2,
		PoleLength: 0.5,
	}
}

// minInertia bounds 4/3 − m_p/(m_c+m_p) away from zero.
const minInertia = 1e-9

// Validate rejects parameters for which the equations of motion break down.
func (c *CartPole) Validate() error {
	if !(c.Gravity >= 0) {
		return fmt.Errorf("gravity %g: %w", c.Gravity, dynamo.ErrParameterBounds)
	}
	if !(c.CartMass > 0) || !(c.PoleMass > 0) {
		return fmt.Errorf("masses must be positive (cart %g, pole %g): %w", c.CartMass, c.PoleMass, dynamo.ErrParameterBounds)
	}
	if !(c.PoleLength > 0) {
		return fmt.Errorf("pole length %g: %w", c.PoleLength, dynamo.ErrParameterBounds)
	}
	// The pole equation divides by L·(4/3 − m_p·cos²θ/(m_c+m_p)). With finite
	// positive masses the ratio is below 1, so this only rejects values that
	// do not reduce to a number, such as an infinite mass.
	ratio := c.PoleMass / (c.CartMass + c.PoleMass)
	if inertia := 4.0/3.0 - ratio; !(inertia >= minInertia) {
		return fmt.Errorf("mass ratio %g makes the dynamics singular: %w", ratio, dynamo.ErrParameterBounds)
	}
	return nil
}

// AngularAcceleration returns θ̈ for the given angle (rad), angular velocity
// (rad/s) and cart force (N).
func (c *CartPole) AngularAcceleration(theta, omega, force float64) float64 {
	th := Normalize(theta)
	sint, cost := math.Sincos(th)
	total := c.CartMass + c.PoleMass

	temp := (-force - c.PoleMass*c.PoleLength*omega*omega*sint) / total
	num := c.Gravity*sint + cost*temp
	den := c.PoleLength * (4.0/3.0 - c.PoleMass*cost*cost/total)

	return num / den
}

func (c *CartPole) StateDim() int {
	return 2
}

func (c *CartPole) ControlDim() int {
	return 1
}

func (c *CartPole) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}

	return dynamo.State{omega, c.AngularAcceleration(theta, omega, force)}
}

// Energy of the pole alone, with the potential measured from the pivot.
func (c *CartPole) Energy(x dynamo.State) float64 {
	theta, omega := x[0], x[1]
	l := c.PoleLength
	ke := 0.5 * (4.0 / 3.0) * c.PoleMass * l * l * omega * omega
	pe := c.PoleMass * c.Gravity * l * math.Cos(Normalize(theta))
	return ke + pe
}

func (c *CartPole) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":     c.Gravity,
		"cart_mass":   c.CartMass,
		"pole_mass":   c.PoleMass,
		"pole_length": c.PoleLength,
	}
}

func (c *CartPole) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		c.Gravity = value
	case "cart_mass":
		c.CartMass = value
	case "pole_mass":
		c.PoleMass = value
	case "pole_length":
		c.PoleLength = value
	default:
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownParam, name)
	}
	return nil
}
