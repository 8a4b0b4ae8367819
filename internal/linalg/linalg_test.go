package linalg

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func approxEqual(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("got %v, want %v (tolerance %v)", got, want, tol)
	}
}

func approxEqualSlice(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("at index %d: got %v, want %v (tolerance %v)", i, got[i], want[i], tol)
		}
	}
}

func approxEqualMat(t *testing.T, got, want *mat.Dense, tol float64) {
	t.Helper()
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		t.Fatalf("dimension mismatch: got %dx%d, want %dx%d", gr, gc, wr, wc)
	}
	for i := 0; i < gr; i++ {
		for j := 0; j < gc; j++ {
			if math.Abs(got.At(i, j)-want.At(i, j)) > tol {
				t.Fatalf("at (%d,%d): got %v, want %v (tolerance %v)", i, j, got.At(i, j), want.At(i, j), tol)
			}
		}
	}
}

func TestVectorOps(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, -1, 0.5}

	approxEqualSlice(t, Add(a, b), []float64{5, 1, 3.5}, 1e-15)
	approxEqualSlice(t, Sub(a, b), []float64{-3, 3, 2.5}, 1e-15)
	approxEqualSlice(t, Scale(2, a), []float64{2, 4, 6}, 1e-15)
	approxEqualSlice(t, AddScaled(a, 0.5, b), []float64{3, 1.5, 3.25}, 1e-15)
	approxEqual(t, Dot(a, b), 3.5, 1e-15)
	approxEqual(t, Norm([]float64{3, 4}), 5, 1e-15)

	// Inputs must not be mutated.
	approxEqualSlice(t, a, []float64{1, 2, 3}, 0)
	approxEqualSlice(t, b, []float64{4, -1, 0.5}, 0)
}

func TestDimensionMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on dimension mismatch")
		}
	}()
	Dot([]float64{1, 2}, []float64{1, 2, 3})
}

func TestMatrixOps(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{0, 1, 1, 0})

	approxEqualMat(t, MatAdd(a, b), mat.NewDense(2, 2, []float64{1, 3, 4, 4}), 1e-15)
	approxEqualMat(t, MatSub(a, b), mat.NewDense(2, 2, []float64{1, 1, 2, 4}), 1e-15)
	approxEqualMat(t, MatScale(2, a), mat.NewDense(2, 2, []float64{2, 4, 6, 8}), 1e-15)
	approxEqualMat(t, MatMul(a, b), mat.NewDense(2, 2, []float64{2, 1, 4, 3}), 1e-15)
	approxEqualMat(t, Transpose(a), mat.NewDense(2, 2, []float64{1, 3, 2, 4}), 1e-15)
	approxEqual(t, Trace(a), 5, 1e-15)
	approxEqual(t, FrobeniusNorm(a), math.Sqrt(1+4+9+16), 1e-12)

	approxEqualMat(t, Outer([]float64{1, 2}, []float64{3, 4}),
		mat.NewDense(2, 2, []float64{3, 4, 6, 8}), 1e-15)
	approxEqualSlice(t, MatVec(a, []float64{1, 1}), []float64{3, 7}, 1e-15)
	approxEqualMat(t, Identity(3), mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}), 0)
}

func TestInverse(t *testing.T) {
	tests := []struct {
		name string
		m    *mat.Dense
		ok   bool
	}{
		{
			name: "2x2 well conditioned",
			m:    mat.NewDense(2, 2, []float64{4, 1, 1, 2}),
			ok:   true,
		},
		{
			name: "2x2 rank deficient",
			m:    mat.NewDense(2, 2, []float64{1, 2, 2, 4}),
			ok:   false,
		},
		{
			name: "3x3 requiring pivoting",
			m:    mat.NewDense(3, 3, []float64{0, 2, 1, 1, 1, 1, 2, 0, 3}),
			ok:   true,
		},
		{
			name: "3x3 singular",
			m:    mat.NewDense(3, 3, []float64{1, 2, 3, 2, 4, 6, 1, 0, 1}),
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := Inverse(tt.m)
			if ok != tt.ok {
				t.Fatalf("Inverse ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			n, _ := tt.m.Dims()
			approxEqualMat(t, MatMul(inv, tt.m), Identity(n), 1e-10)
			approxEqualMat(t, MatMul(tt.m, inv), Identity(n), 1e-10)
		})
	}
}

func TestSolve(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 1, 1, 3})
	x, ok := Solve(a, []float64{5, 10})
	if !ok {
		t.Fatal("Solve reported singular for a non-singular system")
	}
	approxEqualSlice(t, x, []float64{1, 3}, 1e-10)

	if _, ok := Solve(mat.NewDense(2, 2, []float64{1, 2, 2, 4}), []float64{1, 1}); ok {
		t.Fatal("Solve should report singular for a rank-deficient matrix")
	}
}

func TestRows(t *testing.T) {
	rows := Rows(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))
	want := [][]float64{{1, 2, 3}, {4, 5, 6}}
	for i := range want {
		approxEqualSlice(t, rows[i], want[i], 0)
	}
}
