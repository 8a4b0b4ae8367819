package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// pivotTol is the magnitude below which a pivot candidate is treated as zero
// during Gauss-Jordan elimination. A matrix whose best pivot falls under this
// threshold is reported as singular.
const pivotTol = 1e-12

// Identity returns the n x n identity matrix.
func Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// MatAdd returns A + B.
func MatAdd(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Add(a, b)
	return &out
}

// MatSub returns A - B.
func MatSub(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Sub(a, b)
	return &out
}

// MatScale returns c * A.
func MatScale(c float64, a *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Scale(c, a)
	return &out
}

// Outer returns the outer product a b^T.
func Outer(a, b []float64) *mat.Dense {
	out := mat.NewDense(len(a), len(b), nil)
	out.Outer(1, mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b))
	return out
}

// MatVec returns M v.
func MatVec(m *mat.Dense, v []float64) []float64 {
	r, c := m.Dims()
	if c != len(v) {
		panic(fmt.Sprintf("linalg: MatVec: dimension mismatch %dx%d vs %d", r, c, len(v)))
	}
	out := mat.NewVecDense(r, nil)
	out.MulVec(m, mat.NewVecDense(len(v), v))
	return out.RawVector().Data
}

// MatMul returns A B.
func MatMul(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// Transpose returns M^T.
func Transpose(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(c, r, nil)
	out.Copy(m.T())
	return out
}

// Trace returns the sum of the diagonal of the square matrix M.
func Trace(m *mat.Dense) float64 {
	return mat.Trace(m)
}

// FrobeniusNorm returns the Frobenius norm of M.
func FrobeniusNorm(m *mat.Dense) float64 {
	return mat.Norm(m, 2)
}

// CloneMat returns a copy of M.
func CloneMat(m *mat.Dense) *mat.Dense {
	return mat.DenseCopyOf(m)
}

// Rows returns M as a row-major slice of rows, for serialization.
func Rows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		mat.Row(out[i], i, m)
	}
	return out
}

// Inverse returns the inverse of the square matrix M, or ok=false when M is
// singular or too ill-conditioned to invert. Singularity is a normal outcome
// here, not an error: callers fall back (identity direction, Cauchy-only
// dogleg path) rather than abort.
//
// The 2x2 case uses the adjugate/determinant closed form. Larger matrices go
// through Gauss-Jordan elimination with partial pivoting on the augmented
// [M | I] system.
func Inverse(m *mat.Dense) (*mat.Dense, bool) {
	r, c := m.Dims()
	if r != c {
		panic(fmt.Sprintf("linalg: Inverse: matrix is %dx%d, want square", r, c))
	}

	if r == 2 {
		det := m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0)
		if math.Abs(det) < pivotTol {
			return nil, false
		}
		inv := mat.NewDense(2, 2, []float64{
			m.At(1, 1) / det, -m.At(0, 1) / det,
			-m.At(1, 0) / det, m.At(0, 0) / det,
		})
		return inv, true
	}

	// Augmented [M | I], reduced in place.
	aug := mat.NewDense(r, 2*r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			aug.Set(i, j, m.At(i, j))
		}
		aug.Set(i, r+i, 1)
	}

	for col := 0; col < r; col++ {
		// Partial pivoting: pick the row with the largest magnitude in this
		// column at or below the diagonal.
		pivotRow := col
		pivotVal := math.Abs(aug.At(col, col))
		for i := col + 1; i < r; i++ {
			if v := math.Abs(aug.At(i, col)); v > pivotVal {
				pivotRow, pivotVal = i, v
			}
		}
		if pivotVal < pivotTol {
			return nil, false
		}
		if pivotRow != col {
			for j := 0; j < 2*r; j++ {
				tmp := aug.At(col, j)
				aug.Set(col, j, aug.At(pivotRow, j))
				aug.Set(pivotRow, j, tmp)
			}
		}

		pivot := aug.At(col, col)
		for j := 0; j < 2*r; j++ {
			aug.Set(col, j, aug.At(col, j)/pivot)
		}
		for i := 0; i < r; i++ {
			if i == col {
				continue
			}
			factor := aug.At(i, col)
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*r; j++ {
				aug.Set(i, j, aug.At(i, j)-factor*aug.At(col, j))
			}
		}
	}

	inv := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			inv.Set(i, j, aug.At(i, r+j))
		}
	}
	return inv, true
}

// Solve returns the solution x of A x = b, or ok=false when A is singular.
// It inherits Inverse's failure mode by construction.
func Solve(a *mat.Dense, b []float64) ([]float64, bool) {
	inv, ok := Inverse(a)
	if !ok {
		return nil, false
	}
	return MatVec(inv, b), true
}
