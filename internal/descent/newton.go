package descent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/descent/linesearch"
	"github.com/optviz/descent/internal/linalg"
	"github.com/optviz/descent/internal/objective"
)

// Newton minimizes fn with the classic Newton direction -H^-1 g, inverting
// the exact Hessian every iteration, damped by a backtracking line search.
// When the Hessian is singular the direction falls back to the raw negative
// gradient (identity in place of the inverse) instead of aborting. Indefinite
// Hessians get no special repair; near a strict minimum with positive
// definite curvature the method converges quadratically.
func Newton(fn *objective.Function, x0 []float64, p Params) *Result {
	return run(fn, x0, p, &newtonStrategy{})
}

type newtonStrategy struct{}

func (n *newtonStrategy) approx(hess *mat.Dense) *mat.Dense {
	if inv, ok := linalg.Inverse(hess); ok {
		return inv
	}
	r, _ := hess.Dims()
	return linalg.Identity(r)
}

func (n *newtonStrategy) direction(grad []float64, hess *mat.Dense) []float64 {
	return linalg.Scale(-1, linalg.MatVec(n.approx(hess), grad))
}

func (n *newtonStrategy) steplength(ev *evaluator, x, dir []float64) (float64, bool) {
	res := linesearch.Backtracking(ev.value, ev.grad, x, dir, linesearch.Params{InitialAlpha: 1.0})
	return res.Alpha, res.Success
}

func (n *newtonStrategy) observe(_, _ []float64) {}
