// Package linesearch implements the two step-length selection algorithms used
// by the optimizers: backtracking under the Armijo condition, and a
// bracket-and-bisect search for the strong Wolfe conditions.
//
// Both searches share a contract: given f, its gradient, a point and a search
// direction, return a step length. A non-descent direction (directional
// derivative >= 0) is rejected immediately with alpha=0 and Success=false —
// that situation is a bug in the caller, not something worth probing.
// An exhausted iteration budget also reports Success=false, but the last
// trial alpha is still returned so callers can proceed best-effort.
package linesearch

import (
	"math"

	"github.com/optviz/descent/internal/linalg"
)

// Func evaluates the objective at a point.
type Func func(x []float64) float64

// Grad evaluates the objective gradient at a point.
type Grad func(x []float64) []float64

// Params configures a search. Zero values select the defaults.
type Params struct {
	// InitialAlpha is the first trial step. Default 1.0.
	InitialAlpha float64
	// C1 is the Armijo sufficient-decrease constant. Default 1e-4.
	C1 float64
	// C2 is the Wolfe curvature constant. Default 0.9. Ignored by
	// Backtracking.
	C2 float64
	// MaxIterations bounds the number of trial steps. Default 50.
	MaxIterations int
}

// Result reports the outcome of a search.
type Result struct {
	// Alpha is the accepted step length, or the last trial on failure.
	Alpha float64
	// FuncEvals and GradEvals count objective and gradient calls made by
	// the search itself, excluding anything the caller evaluated.
	FuncEvals int
	GradEvals int
	// Success is false when the direction was not a descent direction or
	// the budget ran out before the acceptance condition held.
	Success bool
}

// bracketTol is the bracket width below which the Wolfe search stops refining
// and accepts the current trial.
const bracketTol = 1e-12

func (p Params) withDefaults() Params {
	if p.InitialAlpha <= 0 {
		p.InitialAlpha = 1.0
	}
	if p.C1 <= 0 {
		p.C1 = 1e-4
	}
	if p.C2 <= 0 {
		p.C2 = 0.9
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = 50
	}
	return p
}

// Backtracking halves the trial step until the Armijo condition
// f(x+a*d) <= f(x) + c1*a*(g.d) holds. The trial sequence is deterministic:
// InitialAlpha * 0.5^i. Cost is one function evaluation per trial.
func Backtracking(f Func, grad Grad, x, dir []float64, p Params) Result {
	p = p.withDefaults()

	g0d := linalg.Dot(grad(x), dir)
	res := Result{GradEvals: 1}
	if g0d >= 0 {
		return res
	}

	f0 := f(x)
	res.FuncEvals++

	alpha := p.InitialAlpha
	for i := 0; i < p.MaxIterations; i++ {
		fa := f(linalg.AddScaled(x, alpha, dir))
		res.FuncEvals++
		if fa <= f0+p.C1*alpha*g0d {
			res.Alpha = alpha
			res.Success = true
			return res
		}
		if i < p.MaxIterations-1 {
			alpha *= 0.5
		}
	}

	res.Alpha = alpha
	return res
}

// StrongWolfe searches for a step satisfying both the Armijo condition and
// the strong curvature condition |g(x+a*d).d| <= c2*|g(x).d|, by growing a
// trial step until an upper bracket bound appears and bisecting afterwards.
// Each trial costs a function evaluation plus, when Armijo holds, a gradient
// evaluation.
func StrongWolfe(f Func, grad Grad, x, dir []float64, p Params) Result {
	p = p.withDefaults()

	g0d := linalg.Dot(grad(x), dir)
	res := Result{GradEvals: 1}
	if g0d >= 0 {
		return res
	}

	f0 := f(x)
	res.FuncEvals++

	alpha := p.InitialAlpha
	alphaLo, alphaHi := 0.0, 2*p.InitialAlpha
	// The upper bound is nominal until a shrink pins it; trial steps keep
	// doubling while it is still nominal.
	hiBounded := false
	bestF := f0

	for i := 0; i < p.MaxIterations; i++ {
		if hiBounded && alphaHi-alphaLo < bracketTol {
			res.Alpha = alpha
			res.Success = true
			return res
		}

		fa := f(linalg.AddScaled(x, alpha, dir))
		res.FuncEvals++

		armijo := fa <= f0+p.C1*alpha*g0d
		if !armijo || (i > 0 && fa >= bestF) {
			alphaHi = alpha
			hiBounded = true
		} else {
			if fa < bestF {
				bestF = fa
			}
			ga := grad(linalg.AddScaled(x, alpha, dir))
			res.GradEvals++
			gd := linalg.Dot(ga, dir)
			if math.Abs(gd) <= p.C2*math.Abs(g0d) {
				res.Alpha = alpha
				res.Success = true
				return res
			}
			if gd >= 0 {
				alphaHi = alpha
				hiBounded = true
			} else {
				alphaLo = alpha
			}
		}

		if i == p.MaxIterations-1 {
			break
		}
		if hiBounded {
			alpha = (alphaLo + alphaHi) / 2
		} else {
			alpha *= 2
		}
	}

	res.Alpha = alpha
	return res
}
