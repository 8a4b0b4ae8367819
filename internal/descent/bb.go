package descent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/linalg"
	"github.com/optviz/descent/internal/objective"
)

// Barzilai-Borwein step scale bounds. The BB1 quotient can blow up or
// collapse on ill-conditioned stretches; the scale is clamped rather than
// reset so the iteration keeps moving.
const (
	bbScaleMin = 1e-10
	bbScaleMax = 1e10
	bbCurvTol  = 1e-12
)

// BarzilaiBorwein minimizes fn with the BB1 spectral step: the "Hessian
// approximation" is the single scalar a_k, the direction is -a_k g, and the
// step length is fixed at 1 (the scaling is baked into the direction, no
// line search runs). Famously non-monotone yet often startlingly fast for a
// gradient method.
func BarzilaiBorwein(fn *objective.Function, x0 []float64, p Params) *Result {
	return run(fn, x0, p, &bbStrategy{scale: 1.0})
}

type bbStrategy struct {
	scale float64
}

// approx reports a_k * I, the scalar approximation made displayable.
func (b *bbStrategy) approx(hess *mat.Dense) *mat.Dense {
	n, _ := hess.Dims()
	return linalg.MatScale(b.scale, linalg.Identity(n))
}

func (b *bbStrategy) direction(grad []float64, hess *mat.Dense) []float64 {
	return linalg.Scale(-b.scale, grad)
}

func (b *bbStrategy) steplength(ev *evaluator, x, dir []float64) (float64, bool) {
	return 1.0, true
}

// observe recomputes the BB1 quotient a = (s.s)/(s.y), keeping the previous
// scale when the curvature s.y is too small to trust.
func (b *bbStrategy) observe(s, y []float64) {
	sy := linalg.Dot(s, y)
	if sy <= bbCurvTol {
		return
	}
	scale := linalg.Dot(s, s) / sy
	if scale < bbScaleMin {
		scale = bbScaleMin
	}
	if scale > bbScaleMax {
		scale = bbScaleMax
	}
	b.scale = scale
}
