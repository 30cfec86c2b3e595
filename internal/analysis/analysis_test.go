package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/fuzzypend/internal/control"
	"github.com/san-kum/fuzzypend/internal/dynamo"
	"github.com/san-kum/fuzzypend/internal/experiment"
	"github.com/san-kum/fuzzypend/internal/physics"
)

func sine(n int, dt, hz, amp, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + amp*math.Sin(2*math.Pi*hz*float64(i)*dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		hz   float64
	}{
		{"slow", 0.5},
		{"2Hz", 2},
		{"fast", 7.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := sine(1000, 0.01, tt.hz, 30, 150)
			got := DominantFrequency(data, 0.01)
			// one bin is 0.1 Hz wide
			if math.Abs(got-tt.hz) > 0.05+1e-9 {
				t.Errorf("DominantFrequency = %v, want %v", got, tt.hz)
			}
		})
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	if got := DominantFrequency(make([]float64, 64), 0.01); got != 0 {
		t.Errorf("flat series gave %v Hz", got)
	}
	if got := DominantFrequency([]float64{1}, 0.01); got != 0 {
		t.Errorf("single sample gave %v Hz", got)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5, 5, 5})
	if len(ps) != 4 {
		t.Fatalf("expected n/2+1 = 4 bins, got %d", len(ps))
	}
	for k, p := range ps {
		if p > 1e-20 {
			t.Errorf("bin %d = %v, want 0", k, p)
		}
	}
}

func TestSettlingTime(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	tests := []struct {
		name   string
		angles []float64
		target float64
		want   float64
		ok     bool
	}{
		{"settles", []float64{90, 40, 8, 3, -2}, 0, 2, true},
		{"always inside", []float64{1, 2, 3, 4, 5}, 0, 0, true},
		{"leaves again", []float64{1, 2, 30, 2, 1}, 0, 3, true},
		{"never", []float64{90, 80, 70, 60, 50}, 0, 0, false},
		{"ends outside", []float64{1, 1, 1, 1, 20}, 0, 0, false},
		{"across the wrap", []float64{120, 172, -178, 179, -176}, 180, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SettlingTime(times, tt.angles, tt.target, 10)
			if ok != tt.ok || got != tt.want {
				t.Errorf("SettlingTime = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	h := &experiment.History{
		Times:      []float64{0, 0.01, 0.02, 0.03},
		Angles:     []float64{10, 20, 30, 40},
		Velocities: []float64{0, 0, 0, 0},
		Forces:     []float64{3, -4, 3, -4},
	}
	s := Summarize(h, 40, 5)

	if s.Entries != 4 || s.FinalAngle != 40 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.MeanAngle-25) > 1e-12 {
		t.Errorf("mean = %v, want 25", s.MeanAngle)
	}
	if math.Abs(s.RMSForce-3.5355339059327378) > 1e-12 {
		t.Errorf("rms = %v", s.RMSForce)
	}
	if s.MaxForce != 4 {
		t.Errorf("max = %v", s.MaxForce)
	}
	if !s.Settled || s.SettleTime != 0.03 {
		t.Errorf("settle = (%v, %v)", s.SettleTime, s.Settled)
	}

	if empty := Summarize(&experiment.History{}, 0, 1); empty.Entries != 0 || empty.Settled {
		t.Errorf("empty history summary %+v", empty)
	}
}

func TestClosedLoopJacobianOpenLoop(t *testing.T) {
	cp := physics.NewCartPole()
	j := ClosedLoopJacobian(cp, control.NewNone(1), dynamo.State{0, 0}, 1e-6)

	r, c := j.Dims()
	if r != 2 || c != 2 {
		t.Fatalf("expected 2x2, got %dx%d", r, c)
	}

	m := cp.PoleMass / (cp.CartMass + cp.PoleMass)
	a := cp.Gravity / (cp.PoleLength * (4.0/3.0 - m))
	want := [2][2]float64{{0, 1}, {a, 0}}
	for i := 0; i < 2; i++ {
		for k := 0; k < 2; k++ {
			if math.Abs(j.At(i, k)-want[i][k]) > 1e-4 {
				t.Errorf("J[%d][%d] = %v, want %v", i, k, j.At(i, k), want[i][k])
			}
		}
	}

	ev := Eigenvalues(j)
	if len(ev) != 2 {
		t.Fatalf("expected 2 eigenvalues, got %v", ev)
	}
	if LocallyStable(ev) {
		t.Error("upright without control should be unstable")
	}
	maxRe := math.Max(real(ev[0]), real(ev[1]))
	if math.Abs(maxRe-math.Sqrt(a)) > 1e-3 {
		t.Errorf("growth rate %v, want %v", maxRe, math.Sqrt(a))
	}
}

func TestClosedLoopJacobianPID(t *testing.T) {
	cp := physics.NewCartPole()
	pid := control.NewPID(40, 0, 8, 0)
	ev := Eigenvalues(ClosedLoopJacobian(cp, pid, dynamo.State{0, 0}, 1e-6))
	if !LocallyStable(ev) {
		t.Errorf("PD-controlled upright should be stable, eigenvalues %v", ev)
	}
}

func TestPhasePortrait(t *testing.T) {
	h := &experiment.History{
		Times:      []float64{0, 1, 2},
		Angles:     []float64{-90, 0, 90},
		Velocities: []float64{10, -5, 0},
		Forces:     []float64{0, 0, 0},
	}
	p := NewPhasePortrait(h)
	if len(p.Points) != 3 || p.Points[2] != (Point{90, 0}) {
		t.Fatalf("unexpected points %v", p.Points)
	}

	art := PhasePortraitToASCII(p, 40, 10)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
	if strings.Count(art, "•") != 3 {
		t.Errorf("expected 3 points plotted:\n%s", art)
	}

	if PhasePortraitToASCII(nil, 40, 10) != "" {
		t.Error("nil portrait should render empty")
	}
}
