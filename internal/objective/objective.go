// Package objective defines the contract between test functions and the
// optimizers, plus the shipped catalog of 2-D benchmark functions. A Function
// bundles pure Value/Gradient/Hessian callables with the metadata the
// visual front ends need (box bounds, known minima, a sensible start point).
package objective

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Function is a differentiable objective. Value, Gradient and Hessian must be
// pure and mutually consistent: Gradient is the derivative of Value, Hessian
// the (symmetric) derivative of Gradient. Instances are constructed once and
// never mutated.
type Function struct {
	ID          string
	Name        string
	Description string

	// Dim is the input dimension. All shipped functions are 2-D; the
	// optimizers themselves are dimension-generic.
	Dim int

	// Bounds is a per-dimension [min, max] box used for plotting. It is not
	// an optimization constraint.
	Bounds [][2]float64

	// Minima lists the known optimal points, for validation and display.
	Minima [][]float64

	// DefaultStart is the starting point used when a caller supplies none.
	DefaultStart []float64

	Value    func(x []float64) float64
	Gradient func(x []float64) []float64
	Hessian  func(x []float64) *mat.Dense
}

// CheckDim panics unless x matches the function's dimension. Shape errors are
// caller bugs, caught at the boundary rather than absorbed downstream.
func (f *Function) CheckDim(x []float64) {
	if len(x) != f.Dim {
		panic(fmt.Sprintf("objective: %s: point has dimension %d, want %d", f.ID, len(x), f.Dim))
	}
}
