package fuzzy

import (
	"math"
	"testing"
)

func TestTriangular(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"peak", 0, 1},
		{"left foot", -1, 0},
		{"right foot", 1, 0},
		{"outside left", -5, 0},
		{"outside right", 7, 0},
		{"rising", -0.5, 0.5},
		{"falling", 0.25, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Triangular(tt.x, -1, 0, 1); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Triangular(%v) = %v, want %v", tt.x, got, tt.expected)
			}
		})
	}
}

func TestTriangularDegenerateShoulder(t *testing.T) {
	if got := Triangular(0, 0, 0, 2); got != 1 {
		t.Errorf("step shoulder at peak = %v, want 1", got)
	}
	if got := Triangular(-0.01, 0, 0, 2); got != 0 {
		t.Errorf("left of step shoulder = %v, want 0", got)
	}
	if got := Triangular(1, 0, 0, 2); got != 0.5 {
		t.Errorf("ramp after step shoulder = %v, want 0.5", got)
	}
}

func TestTrapezoidal(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"left foot", 0, 0},
		{"rising", 1, 0.5},
		{"plateau start", 2, 1},
		{"plateau", 3, 1},
		{"plateau end", 4, 1},
		{"falling", 5, 0.5},
		{"right foot", 6, 0},
		{"far outside", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trapezoidal(tt.x, 0, 2, 4, 6); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Trapezoidal(%v) = %v, want %v", tt.x, got, tt.expected)
			}
		})
	}
}

func TestTrapezoidalShoulders(t *testing.T) {
	// saturating edges like the outer sets of each variable
	if got := Trapezoidal(-10, -10, -10, -4, -1); got != 1 {
		t.Errorf("left shoulder edge = %v, want 1", got)
	}
	if got := Trapezoidal(10, 1, 4, 10, 10); got != 1 {
		t.Errorf("right shoulder edge = %v, want 1", got)
	}
	if got := Trapezoidal(10.5, 1, 4, 10, 10); got != 0 {
		t.Errorf("beyond right shoulder = %v, want 0", got)
	}
}

func TestMembershipMonotonic(t *testing.T) {
	a, b, c := -3.0, 0.5, 2.0
	prev := Triangular(a, a, b, c)
	for x := a; x <= b; x += 0.01 {
		got := Triangular(x, a, b, c)
		if got < prev {
			t.Fatalf("not non-decreasing at %v: %v < %v", x, got, prev)
		}
		prev = got
	}
	prev = Triangular(b, a, b, c)
	for x := b; x <= c; x += 0.01 {
		got := Triangular(x, a, b, c)
		if got > prev {
			t.Fatalf("not non-increasing at %v: %v > %v", x, got, prev)
		}
		prev = got
	}
}

func TestMembershipRange(t *testing.T) {
	for x := -20.0; x <= 20; x += 0.05 {
		for _, mu := range []float64{Triangular(x, -4, -1, 0), Trapezoidal(x, 1, 4, 10, 10)} {
			if mu < 0 || mu > 1 {
				t.Fatalf("membership %v out of [0,1] at %v", mu, x)
			}
		}
	}
}

func TestTriTrapBind(t *testing.T) {
	if Tri(-1, 0, 1)(0.5) != Triangular(0.5, -1, 0, 1) {
		t.Error("Tri does not match Triangular")
	}
	if Trap(0, 2, 4, 6)(5) != Trapezoidal(5, 0, 2, 4, 6) {
		t.Error("Trap does not match Trapezoidal")
	}
}
