package physics

import "math"

// Normalize wraps theta into (-π, π].
func Normalize(theta float64) float64 {
	r := theta - 2*math.Pi*math.Floor((theta+math.Pi)/(2*math.Pi))
	if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
