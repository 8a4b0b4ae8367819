package descent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/descent/linesearch"
	"github.com/optviz/descent/internal/linalg"
	"github.com/optviz/descent/internal/objective"
)

// SteepestDescent minimizes fn by following the negative gradient with a
// backtracking line search. It is the baseline of the family: robust,
// first-order, and slow in narrow valleys.
func SteepestDescent(fn *objective.Function, x0 []float64, p Params) *Result {
	return run(fn, x0, p, &steepestStrategy{})
}

type steepestStrategy struct{}

// approx reports the identity: steepest descent performs no Hessian
// approximation, the field exists for display uniformity only.
func (s *steepestStrategy) approx(hess *mat.Dense) *mat.Dense {
	n, _ := hess.Dims()
	return linalg.Identity(n)
}

func (s *steepestStrategy) direction(grad []float64, hess *mat.Dense) []float64 {
	return linalg.Scale(-1, grad)
}

func (s *steepestStrategy) steplength(ev *evaluator, x, dir []float64) (float64, bool) {
	res := linesearch.Backtracking(ev.value, ev.grad, x, dir, linesearch.Params{InitialAlpha: 1.0})
	return res.Alpha, res.Success
}

func (s *steepestStrategy) observe(_, _ []float64) {}
