package descent

import (
	"github.com/optviz/descent/internal/objective"
)

// OptimizerInfo is the metadata record front ends enumerate. The algorithm
// set is fixed and small, so this is a closed table rather than an open
// plugin registry.
type OptimizerInfo struct {
	ID          string
	Name        string
	Description string
	// UsesTrueHessian marks the algorithms that evaluate the exact Hessian
	// to compute steps (every algorithm still records it per state for
	// display).
	UsesTrueHessian bool
	Optimize        Optimize
}

var registry = []OptimizerInfo{
	{
		ID:          "steepest",
		Name:        "Steepest Descent",
		Description: "Negative-gradient direction with backtracking line search",
		Optimize:    SteepestDescent,
	},
	{
		ID:              "newton",
		Name:            "Newton's Method",
		Description:     "Exact Newton direction -H^-1 g, damped by backtracking",
		UsesTrueHessian: true,
		Optimize:        Newton,
	},
	{
		ID:          "bfgs",
		Name:        "BFGS",
		Description: "Quasi-Newton with the BFGS inverse-Hessian update and strong Wolfe search",
		Optimize:    BFGS,
	},
	{
		ID:          "dfp",
		Name:        "DFP",
		Description: "Quasi-Newton with the Davidon-Fletcher-Powell update and strong Wolfe search",
		Optimize:    DFP,
	},
	{
		ID:          "sr1",
		Name:        "SR1",
		Description: "Quasi-Newton with the symmetric-rank-one update and strong Wolfe search",
		Optimize:    SR1,
	},
	{
		ID:          "bb",
		Name:        "Barzilai-Borwein",
		Description: "Spectral gradient steps with the BB1 scale, no line search",
		Optimize:    BarzilaiBorwein,
	},
	{
		ID:              "trustregion",
		Name:            "Trust Region",
		Description:     "Dogleg solution of the quadratic subproblem with radius adaptation",
		UsesTrueHessian: true,
		Optimize:        TrustRegion,
	},
}

// Optimizers returns the metadata records in display order. The returned
// slice is shared; callers must not modify it.
func Optimizers() []OptimizerInfo {
	return registry
}

// ByID returns the optimizer with the given id.
func ByID(id string) (OptimizerInfo, bool) {
	for _, info := range registry {
		if info.ID == id {
			return info, true
		}
	}
	return OptimizerInfo{}, false
}

// Run validates inputs and dispatches to the optimizer with the given id.
// A nil x0 starts from the function's default start point. This is the seam
// the HTTP server and the CLI share; contract violations come back as *Error.
func Run(optimizerID string, fn *objective.Function, x0 []float64, p Params) (*Result, error) {
	const op = "descent.Run"

	info, ok := ByID(optimizerID)
	if !ok {
		return nil, newErrorf(op, "unknown optimizer %q", optimizerID)
	}
	if fn == nil {
		return nil, newErrorf(op, "nil objective function")
	}
	if x0 == nil {
		x0 = fn.DefaultStart
	}
	if len(x0) != fn.Dim {
		return nil, newErrorf(op, "start point has dimension %d, function %q wants %d",
			len(x0), fn.ID, fn.Dim)
	}
	if p.InitialHessian != nil {
		r, c := p.InitialHessian.Dims()
		if r != fn.Dim || c != fn.Dim {
			return nil, newErrorf(op, "initial Hessian approximation is %dx%d, want %dx%d",
				r, c, fn.Dim, fn.Dim)
		}
	}

	return info.Optimize(fn, x0, p), nil
}
