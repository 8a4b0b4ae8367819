// Package descent implements the optimizer core: seven iterative descent
// algorithms over differentiable objective functions, each producing a full,
// inspectable trajectory of iteration states.
//
// Every run is a synchronous, deterministic, in-memory computation bounded by
// MaxIterations. Numerical degeneracy (singular Hessian, violated curvature
// condition, non-descent direction) is absorbed by documented fallbacks so a
// run always yields a complete trajectory; only contract violations (wrong
// dimensions, unknown ids) surface as errors.
package descent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/objective"
)

// Status is the terminal state of an optimization run.
type Status int

const (
	// Running is the in-loop state; it never appears on a returned Result.
	Running Status = iota
	// Converged means the gradient-norm tolerance was reached.
	Converged
	// ExhaustedBudget means MaxIterations passed without convergence. This
	// is a normal outcome, not an error: the partial trajectory and last
	// iterate remain valid output.
	ExhaustedBudget
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case ExhaustedBudget:
		return "exhausted_budget"
	default:
		return "unknown"
	}
}

// Params configures an optimization run. Zero values select the defaults.
type Params struct {
	// MaxIterations bounds the iteration count. Default 100.
	MaxIterations int
	// Tolerance is the gradient-norm convergence threshold. Default 1e-6.
	Tolerance float64
	// InitialHessian optionally seeds the inverse-Hessian approximation of
	// the quasi-Newton methods. Defaults to the identity. Ignored by the
	// other algorithms.
	InitialHessian *mat.Dense
}

func (p Params) withDefaults() Params {
	if p.MaxIterations < 1 {
		p.MaxIterations = 100
	}
	if p.Tolerance <= 0 {
		p.Tolerance = 1e-6
	}
	return p
}

// IterationState is an immutable snapshot emitted once per loop iteration.
//
// Direction and Alpha describe the step that produced this state from the
// previous one: X = prev.X + Alpha*Direction, exactly in floating point.
// Both are nil on the starting state (iteration 0).
type IterationState struct {
	// Iteration is the 0-based index within the trajectory.
	Iteration int
	// X is the current point.
	X []float64
	// Fx is the objective value at X.
	Fx float64
	// Gradient is the objective gradient at X; GradientNorm its 2-norm.
	Gradient     []float64
	GradientNorm float64
	// Direction is the search direction that led to X, nil at iteration 0.
	Direction []float64
	// Alpha is the step length along Direction, nil at iteration 0.
	Alpha *float64
	// HessianApprox is the inverse-Hessian approximation that was in effect
	// when Direction was chosen. Algorithms that maintain no approximation
	// report the identity, for display uniformity.
	HessianApprox *mat.Dense
	// TrueHessian is the exact Hessian at X, always computed so front ends
	// can compare it against HessianApprox.
	TrueHessian *mat.Dense
}

// Result is the full outcome of one optimizer invocation. It is never
// mutated after return; callers may re-read any index freely.
type Result struct {
	// Iterations is the ordered trajectory, starting state included.
	Iterations []IterationState
	// Solution is the final point and FinalValue the objective there.
	Solution   []float64
	FinalValue float64
	// Status is the terminal state; Converged mirrors Status == Converged.
	Status    Status
	Converged bool
	// FunctionEvaluations and GradientEvaluations count every objective and
	// gradient call made during the run, line-search probes included.
	FunctionEvaluations int
	GradientEvaluations int
}

// Optimize is the uniform entry point implemented by all seven algorithms.
type Optimize func(fn *objective.Function, x0 []float64, p Params) *Result
