package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fuzzypend/internal/dynamo"
)

// ClosedLoopJacobian linearises ẋ = f(x, c(x)) at x with central
// differences of width h. The controller is queried at t = 0 and must be
// stateless for the result to mean anything.
func ClosedLoopJacobian(sys dynamo.System, ctrl dynamo.Controller, x dynamo.State, h float64) *mat.Dense {
	n := len(x)
	j := mat.NewDense(n, n, nil)

	f := func(s dynamo.State) dynamo.State {
		return sys.Derive(s, ctrl.Compute(s, 0), 0)
	}

	for col := 0; col < n; col++ {
		plus, minus := x.Clone(), x.Clone()
		plus[col] += h
		minus[col] -= h
		fp, fm := f(plus), f(minus)
		for row := 0; row < n; row++ {
			j.Set(row, col, (fp[row]-fm[row])/(2*h))
		}
	}
	return j
}

// Eigenvalues of a square matrix; nil if the decomposition fails.
func Eigenvalues(a mat.Matrix) []complex128 {
	var eig mat.Eigen
	if !eig.Factorize(a, mat.EigenNone) {
		return nil
	}
	return eig.Values(nil)
}

// LocallyStable reports whether every eigenvalue lies in the open left
// half-plane.
func LocallyStable(values []complex128) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if real(v) >= 0 {
			return false
		}
	}
	return true
}
