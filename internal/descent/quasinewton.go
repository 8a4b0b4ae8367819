package descent

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/descent/linesearch"
	"github.com/optviz/descent/internal/linalg"
	"github.com/optviz/descent/internal/objective"
)

// The quasi-Newton family maintains an inverse-Hessian approximation H,
// steps along -H g under a strong-Wolfe line search, and refreshes H with an
// algorithm-specific secant update after every step. Updates that would
// violate their safeguard (curvature condition for BFGS, near-zero
// denominators for DFP and SR1) are skipped, keeping the previous H — the
// update functions return the unchanged matrix plus an applied flag so the
// fallback is explicit and testable.
//
// When H drifts far enough that -H g stops being a descent direction, the
// step falls back to plain steepest descent with backtracking for that one
// iteration; H itself is left alone.

// BFGS minimizes fn with the Broyden-Fletcher-Goldfarb-Shanno update. The
// curvature safeguard y.s > 0 preserves positive definiteness of H across
// updates.
func BFGS(fn *objective.Function, x0 []float64, p Params) *Result {
	return run(fn, x0, p, newQuasiNewton(fn.Dim, p, bfgsUpdate))
}

// DFP minimizes fn with the Davidon-Fletcher-Powell update, the historical
// predecessor of BFGS.
func DFP(fn *objective.Function, x0 []float64, p Params) *Result {
	return run(fn, x0, p, newQuasiNewton(fn.Dim, p, dfpUpdate))
}

// SR1 minimizes fn with the symmetric-rank-one update. SR1 tracks curvature
// more faithfully than BFGS/DFP but does not guarantee a positive definite
// H, which is why the direction fallback matters most here.
func SR1(fn *objective.Function, x0 []float64, p Params) *Result {
	return run(fn, x0, p, newQuasiNewton(fn.Dim, p, sr1Update))
}

// updateRule applies a secant update to h, returning the new approximation
// and whether the update was applied. A skipped update returns h unchanged.
type updateRule func(h *mat.Dense, s, y []float64) (*mat.Dense, bool)

type quasiNewtonStrategy struct {
	h      *mat.Dense
	update updateRule
	// fellBack is set by direction when -H g was not a descent direction;
	// steplength consumes it to switch from Wolfe to backtracking for the
	// steepest-descent fallback step.
	fellBack bool
}

func newQuasiNewton(dim int, p Params, update updateRule) *quasiNewtonStrategy {
	h := p.InitialHessian
	if h == nil {
		h = linalg.Identity(dim)
	} else {
		h = linalg.CloneMat(h)
	}
	return &quasiNewtonStrategy{h: h, update: update}
}

func (q *quasiNewtonStrategy) approx(hess *mat.Dense) *mat.Dense {
	return linalg.CloneMat(q.h)
}

func (q *quasiNewtonStrategy) direction(grad []float64, hess *mat.Dense) []float64 {
	dir := linalg.Scale(-1, linalg.MatVec(q.h, grad))
	if linalg.Dot(dir, grad) >= 0 {
		q.fellBack = true
		return linalg.Scale(-1, grad)
	}
	q.fellBack = false
	return dir
}

func (q *quasiNewtonStrategy) steplength(ev *evaluator, x, dir []float64) (float64, bool) {
	if q.fellBack {
		q.fellBack = false
		res := linesearch.Backtracking(ev.value, ev.grad, x, dir, linesearch.Params{InitialAlpha: 1.0})
		return res.Alpha, res.Success
	}
	res := linesearch.StrongWolfe(ev.value, ev.grad, x, dir, linesearch.Params{InitialAlpha: 1.0})
	return res.Alpha, res.Success
}

func (q *quasiNewtonStrategy) observe(s, y []float64) {
	q.h, _ = q.update(q.h, s, y)
}

// bfgsUpdate is H' = (I - rho s y^T) H (I - rho y s^T) + rho s s^T with
// rho = 1/(y.s), skipped when the curvature condition y.s > 0 fails or rho
// is not finite.
func bfgsUpdate(h *mat.Dense, s, y []float64) (*mat.Dense, bool) {
	rho := 1 / linalg.Dot(y, s)
	if math.IsNaN(rho) || math.IsInf(rho, 0) || rho <= 0 {
		return h, false
	}
	n := len(s)
	id := linalg.Identity(n)
	left := linalg.MatSub(id, linalg.MatScale(rho, linalg.Outer(s, y)))
	right := linalg.MatSub(id, linalg.MatScale(rho, linalg.Outer(y, s)))
	out := linalg.MatMul(linalg.MatMul(left, h), right)
	return linalg.MatAdd(out, linalg.MatScale(rho, linalg.Outer(s, s))), true
}

// dfpUpdate is H' = H + s s^T/(s.y) - (H y)(H y)^T/(y.H y), skipped when
// either denominator is numerically zero.
func dfpUpdate(h *mat.Dense, s, y []float64) (*mat.Dense, bool) {
	sy := linalg.Dot(s, y)
	hy := linalg.MatVec(h, y)
	yhy := linalg.Dot(y, hy)
	if math.Abs(sy) < 1e-12 || math.Abs(yhy) < 1e-12 {
		return h, false
	}
	out := linalg.MatAdd(h, linalg.MatScale(1/sy, linalg.Outer(s, s)))
	return linalg.MatSub(out, linalg.MatScale(1/yhy, linalg.Outer(hy, hy))), true
}

// sr1Update is H' = H + v v^T/(v.y) with v = s - H y, skipped under the
// standard relative safeguard |v.y| < 1e-8 * |v| * |y| against a vanishing
// denominator. Unlike BFGS/DFP an applied SR1 update may still produce an
// indefinite H.
func sr1Update(h *mat.Dense, s, y []float64) (*mat.Dense, bool) {
	v := linalg.Sub(s, linalg.MatVec(h, y))
	denom := linalg.Dot(v, y)
	if math.Abs(denom) < 1e-8*linalg.Norm(v)*linalg.Norm(y) {
		return h, false
	}
	return linalg.MatAdd(h, linalg.MatScale(1/denom, linalg.Outer(v, v))), true
}
