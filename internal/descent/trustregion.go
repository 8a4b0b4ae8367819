package descent

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/linalg"
	"github.com/optviz/descent/internal/objective"
)

// Trust-region constants: initial and maximum radius, the acceptance
// threshold eta, and the shrink/grow ratio tests.
const (
	trInitialRadius = 1.0
	trMaxRadius     = 10.0
	trEta           = 0.1
	trShrinkBelow   = 0.25
	trGrowAbove     = 0.75
)

// TrustRegion minimizes fn by repeatedly solving the quadratic subproblem
// min g.d + 0.5 d.H d subject to |d| <= radius via the dogleg method, then
// accepting or rejecting the step by the agreement ratio between actual and
// model-predicted reduction. It is the one algorithm here where an iteration
// may leave the point unchanged: a rejected step records alpha = 0 and only
// shrinks the radius, so the trajectory invariant still holds.
func TrustRegion(fn *objective.Function, x0 []float64, p Params) *Result {
	p = p.withDefaults()
	fn.CheckDim(x0)

	ev := &evaluator{fn: fn}
	res := &Result{}

	x := linalg.Clone(x0)
	fx := ev.value(x)
	g := ev.grad(x)
	radius := trInitialRadius

	var inDir []float64
	var inAlpha *float64

	for k := 0; ; k++ {
		gn := linalg.Norm(g)
		hess := fn.Hessian(x)

		res.Iterations = append(res.Iterations, IterationState{
			Iteration:    k,
			X:            linalg.Clone(x),
			Fx:           fx,
			Gradient:     linalg.Clone(g),
			GradientNorm: gn,
			Direction:    inDir,
			Alpha:        inAlpha,
			// The model works on the exact Hessian; no inverse-Hessian
			// approximation exists, so display the identity like
			// steepest descent does.
			HessianApprox: linalg.Identity(fn.Dim),
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

		d := dogleg(g, hess, radius)
		predicted := -(linalg.Dot(g, d) + 0.5*linalg.Dot(d, linalg.MatVec(hess, d)))

		xTrial := linalg.AddScaled(x, 1, d)
		fTrial := ev.value(xTrial)
		actual := fx - fTrial

		// A non-positive predicted reduction means the model itself sees no
		// progress; treat the step as failed and let the radius shrink.
		rho := 0.0
		if predicted > 0 {
			rho = actual / predicted
		}

		onBoundary := linalg.Norm(d) >= radius-1e-9
		if rho < trShrinkBelow {
			radius *= 0.25
		} else if rho > trGrowAbove && onBoundary {
			radius = math.Min(2*radius, trMaxRadius)
		}

		alpha := 0.0
		if rho > trEta {
			alpha = 1.0
			x, fx = xTrial, fTrial
			g = ev.grad(x)
		}

		inDir, inAlpha = d, &alpha
	}

	res.Solution = linalg.Clone(x)
	res.FinalValue = fx
	res.Converged = res.Status == Converged
	res.FunctionEvaluations = ev.funcEvals
	res.GradientEvaluations = ev.gradEvals
	return res
}

// dogleg approximately solves min g.d + 0.5 d.H d s.t. |d| <= radius by
// interpolating between the Cauchy point and the Newton point. A singular H
// degrades to the Cauchy-only path; negative curvature along g takes the full
// radius in the steepest-descent direction.
func dogleg(g []float64, hess *mat.Dense, radius float64) []float64 {
	normG := linalg.Norm(g)
	if normG == 0 {
		return make([]float64, len(g))
	}
	gHg := linalg.Dot(g, linalg.MatVec(hess, g))

	// Cauchy point: the model minimizer along -g, clipped to the radius.
	tau := 1.0
	if gHg > 0 {
		tau = math.Min(1, normG*normG*normG/(radius*gHg))
	}
	cauchy := linalg.Scale(-tau*radius/normG, g)

	newton, ok := linalg.Solve(hess, linalg.Scale(-1, g))
	if !ok {
		return cauchy
	}
	if linalg.Norm(newton) <= radius {
		return newton
	}
	if gHg <= 0 {
		return cauchy
	}

	// Unconstrained steepest-descent minimizer; if it already leaves the
	// region the first dogleg leg is the whole answer.
	steepest := linalg.Scale(-normG*normG/gHg, g)
	if linalg.Norm(steepest) >= radius {
		return cauchy
	}

	// Second leg: find t in [0, 1] where |steepest + t*(newton-steepest)|
	// crosses the radius, the positive root of a quadratic in t.
	leg := linalg.Sub(newton, steepest)
	a := linalg.Dot(leg, leg)
	b := 2 * linalg.Dot(steepest, leg)
	c := linalg.Dot(steepest, steepest) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		disc = 0
	}
	t := (-b + math.Sqrt(disc)) / (2 * a)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return linalg.AddScaled(steepest, t, leg)
}
