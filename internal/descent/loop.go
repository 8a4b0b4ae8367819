package descent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/linalg"
	"github.com/optviz/descent/internal/objective"
)

// evaluator wraps an objective with call counters. All objective and gradient
// access during a run, line-search probes included, goes through one
// evaluator so the Result counters are complete.
type evaluator struct {
	fn        *objective.Function
	funcEvals int
	gradEvals int
}

func (e *evaluator) value(x []float64) float64 {
	e.funcEvals++
	return e.fn.Value(x)
}

func (e *evaluator) grad(x []float64) []float64 {
	e.gradEvals++
	return e.fn.Gradient(x)
}

// strategy is what distinguishes the line-search family of algorithms inside
// the shared iteration loop: how the search direction is chosen, how the step
// length is picked, and what bookkeeping follows a step.
type strategy interface {
	// approx reports the inverse-Hessian approximation currently in effect,
	// given the exact Hessian at the current point. Algorithms that
	// maintain no approximation report the identity.
	approx(hess *mat.Dense) *mat.Dense

	// direction returns the search direction at the current point. hess is
	// the exact Hessian there, already computed for the trajectory.
	direction(grad []float64, hess *mat.Dense) []float64

	// steplength picks the step along dir from x. ok=false is best-effort
	// information only; the returned alpha is used regardless, so a failed
	// search degrades the step rather than aborting the run.
	steplength(ev *evaluator, x, dir []float64) (alpha float64, ok bool)

	// observe is called after stepping with s = xNew-x and y = gNew-g,
	// giving quasi-Newton strategies their secant update hook.
	observe(s, y []float64)
}

// run drives the shared iteration loop: evaluate, emit a state, check the
// terminal conditions, then step. Direction and Alpha are recorded on the
// state the step arrives at, so iteration 0 carries nil for both and
// x_k = x_{k-1} + alpha_k * direction_k holds across the trajectory. The
// HessianApprox on each state is likewise the approximation that chose its
// incoming direction, i.e. the one in effect before the post-step update.
func run(fn *objective.Function, x0 []float64, p Params, strat strategy) *Result {
	p = p.withDefaults()
	fn.CheckDim(x0)

	ev := &evaluator{fn: fn}
	res := &Result{}

	x := linalg.Clone(x0)
	fx := ev.value(x)
	g := ev.grad(x)

	// Incoming step metadata for the state about to be emitted; nil on the
	// starting state, which reports the initial approximation instead.
	var inDir []float64
	var inAlpha *float64
	var inApprox *mat.Dense

	for k := 0; ; k++ {
		gn := linalg.Norm(g)
		hess := fn.Hessian(x)

		ap := inApprox
		if ap == nil {
			ap = strat.approx(hess)
		}
		res.Iterations = append(res.Iterations, IterationState{
			Iteration:     k,
			X:             linalg.Clone(x),
			Fx:            fx,
			Gradient:      linalg.Clone(g),
			GradientNorm:  gn,
			Direction:     inDir,
			Alpha:         inAlpha,
			HessianApprox: ap,
			TrueHessian:   hess,
		})

		if gn < p.Tolerance {
			res.Status = Converged
			break
		}
		if k == p.MaxIterations {
			res.Status = ExhaustedBudget
			break
		}

		// Snapshot before observe mutates the approximation: the next
		// state must report what its direction was computed from.
		approxAtChoice := strat.approx(hess)
		dir := strat.direction(g, hess)
		alpha, _ := strat.steplength(ev, x, dir)

		xNext := linalg.AddScaled(x, alpha, dir)
		fxNext := ev.value(xNext)
		gNext := ev.grad(xNext)

		strat.observe(linalg.Sub(xNext, x), linalg.Sub(gNext, g))

		a := alpha
		inDir, inAlpha, inApprox = dir, &a, approxAtChoice
		x, fx, g = xNext, fxNext, gNext
	}

	res.Solution = linalg.Clone(x)
	res.FinalValue = fx
	res.Converged = res.Status == Converged
	res.FunctionEvaluations = ev.funcEvals
	res.GradientEvaluations = ev.gradEvals
	return res
}
