package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fuzzypend/internal/experiment"
	"github.com/san-kum/fuzzypend/internal/physics"
)

// wrapDeg maps an angle difference in degrees to (-180, 180].
func wrapDeg(d float64) float64 {
	return physics.Degrees(physics.Normalize(physics.Radians(d)))
}

// SettlingTime is the first time after which every angle (degrees) stays
// within band of target. ok is false if the trace ends outside the band.
func SettlingTime(times, angles []float64, target, band float64) (t float64, ok bool) {
	last := -1
	for i := len(angles) - 1; i >= 0; i-- {
		if math.Abs(wrapDeg(angles[i]-target)) > band {
			last = i
			break
		}
	}
	switch {
	case last == len(angles)-1:
		return 0, false
	case last < 0:
		if len(times) == 0 {
			return 0, false
		}
		return times[0], true
	default:
		return times[last+1], true
	}
}

type Summary struct {
	Entries    int
	FinalAngle float64 // degrees
	MeanAngle  float64
	StdAngle   float64
	RMSForce   float64
	MaxForce   float64
	Settled    bool
	SettleTime float64
	DominantHz float64
}

// Summarize computes the run statistics around target ± band (degrees).
func Summarize(h *experiment.History, target, band float64) Summary {
	s := Summary{Entries: h.Len()}
	if h.Len() == 0 {
		return s
	}

	s.FinalAngle, _ = h.Final()
	s.MeanAngle, s.StdAngle = stat.MeanStdDev(h.Angles, nil)
	s.MaxForce = h.MaxAbsForce()

	sq := 0.0
	for _, f := range h.Forces {
		sq += f * f
	}
	s.RMSForce = math.Sqrt(sq / float64(h.Len()))

	s.SettleTime, s.Settled = SettlingTime(h.Times, h.Angles, target, band)
	if h.Len() > 1 {
		s.DominantHz = DominantFrequency(h.Angles, h.Times[1]-h.Times[0])
	}
	return s
}
