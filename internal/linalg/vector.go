// Package linalg provides the small dense linear-algebra kernel shared by the
// optimizers and the objective-function catalog. Vectors are plain []float64
// slices, matrices are gonum *mat.Dense. Every operation allocates its result;
// inputs are never mutated.
//
// Dimension mismatches are contract violations, not runtime conditions: all
// operations panic on non-conformant operands. The only operation with a
// non-panicking failure mode is Inverse (and Solve, which is built on it),
// because a singular matrix is an expected numerical outcome.
package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// checkLen panics unless a and b have the same length.
func checkLen(op string, a, b []float64) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("linalg: %s: dimension mismatch %d vs %d", op, len(a), len(b)))
	}
}

// Clone returns a copy of v.
func Clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Add returns a + b.
func Add(a, b []float64) []float64 {
	checkLen("Add", a, b)
	out := make([]float64, len(a))
	floats.AddTo(out, a, b)
	return out
}

// Sub returns a - b.
func Sub(a, b []float64) []float64 {
	checkLen("Sub", a, b)
	out := make([]float64, len(a))
	floats.SubTo(out, a, b)
	return out
}

// Scale returns c * v.
func Scale(c float64, v []float64) []float64 {
	out := Clone(v)
	floats.Scale(c, out)
	return out
}

// AddScaled returns a + c*b, the fused step update x + alpha*d.
func AddScaled(a []float64, c float64, b []float64) []float64 {
	checkLen("AddScaled", a, b)
	out := Clone(a)
	floats.AddScaled(out, c, b)
	return out
}

// Dot returns the inner product of a and b.
func Dot(a, b []float64) float64 {
	checkLen("Dot", a, b)
	return floats.Dot(a, b)
}

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}
