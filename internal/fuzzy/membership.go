package fuzzy

// MembershipFunc maps a crisp value to a degree in [0, 1].
type MembershipFunc func(x float64) float64

// Triangular evaluates a triangle with feet a, c and peak b.
// A degenerate shoulder (a == b or b == c) turns that ramp into a step.
func Triangular(x, a, b, c float64) float64 {
	if x == b {
		return 1
	}
	if x <= a || x >= c {
		return 0
	}
	if x < b {
		return (x - a) / (b - a)
	}
	return (c - x) / (c - b)
}

// Trapezoidal evaluates a trapezoid rising over [a, b], flat over [b, c]
// and falling over [c, d].
func Trapezoidal(x, a, b, c, d float64) float64 {
	if x >= b && x <= c {
		return 1
	}
	if x <= a || x >= d {
		return 0
	}
	if x < b {
		return (x - a) / (b - a)
	}
	return (d - x) / (d - c)
}

// Tri binds triangle parameters.
func Tri(a, b, c float64) MembershipFunc {
	return func(x float64) float64 { return Triangular(x, a, b, c) }
}

// Trap binds trapezoid parameters.
func Trap(a, b, c, d float64) MembershipFunc {
	return func(x float64) float64 { return Trapezoidal(x, a, b, c, d) }
}
