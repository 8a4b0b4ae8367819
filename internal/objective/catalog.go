package objective

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/optviz/descent/internal/linalg"
)

// NewQuadratic builds f(x) = 0.5 x^T A x + b^T x + c for a symmetric matrix A.
// The gradient is Ax + b and the Hessian is A itself. When A is invertible the
// unique stationary point solve(A, -b) is recorded as the known minimum.
func NewQuadratic(id, name string, a *mat.Dense, b []float64, c float64) *Function {
	r, cols := a.Dims()
	if r != cols {
		panic(fmt.Sprintf("objective: quadratic %q: A is %dx%d, want square", id, r, cols))
	}
	if r != len(b) {
		panic(fmt.Sprintf("objective: quadratic %q: A is %dx%d but b has length %d", id, r, cols, len(b)))
	}
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			if math.Abs(a.At(i, j)-a.At(j, i)) > 1e-12 {
				panic(fmt.Sprintf("objective: quadratic %q: A is not symmetric", id))
			}
		}
	}

	var minima [][]float64
	if xStar, ok := linalg.Solve(a, linalg.Scale(-1, b)); ok {
		minima = [][]float64{xStar}
	}

	bounds := make([][2]float64, r)
	start := make([]float64, r)
	for i := range bounds {
		bounds[i] = [2]float64{-5, 5}
		start[i] = 2
	}

	return &Function{
		ID:           id,
		Name:         name,
		Description:  "Convex quadratic form 0.5 x^T A x + b^T x + c",
		Dim:          r,
		Bounds:       bounds,
		Minima:       minima,
		DefaultStart: start,
		Value: func(x []float64) float64 {
			ax := linalg.MatVec(a, x)
			return 0.5*linalg.Dot(x, ax) + linalg.Dot(b, x) + c
		},
		Gradient: func(x []float64) []float64 {
			return linalg.Add(linalg.MatVec(a, x), b)
		},
		Hessian: func(x []float64) *mat.Dense {
			return linalg.CloneMat(a)
		},
	}
}

// Sphere is f(x, y) = x^2 + y^2, the simplest convex benchmark.
func Sphere() *Function {
	return &Function{
		ID:           "sphere",
		Name:         "Sphere",
		Description:  "x^2 + y^2, global minimum at the origin",
		Dim:          2,
		Bounds:       [][2]float64{{-4, 4}, {-4, 4}},
		Minima:       [][]float64{{0, 0}},
		DefaultStart: []float64{3, 2},
		Value: func(x []float64) float64 {
			return x[0]*x[0] + x[1]*x[1]
		},
		Gradient: func(x []float64) []float64 {
			return []float64{2 * x[0], 2 * x[1]}
		},
		Hessian: func(x []float64) *mat.Dense {
			return mat.NewDense(2, 2, []float64{2, 0, 0, 2})
		},
	}
}

// Rosenbrock is the classic banana valley (1-x)^2 + 100(y-x^2)^2. Its narrow
// curved valley makes first-order methods crawl and separates the
// quasi-Newton methods from steepest descent.
func Rosenbrock() *Function {
	return &Function{
		ID:           "rosenbrock",
		Name:         "Rosenbrock",
		Description:  "(1-x)^2 + 100(y-x^2)^2, banana-shaped valley with minimum at (1, 1)",
		Dim:          2,
		Bounds:       [][2]float64{{-2, 2}, {-1, 3}},
		Minima:       [][]float64{{1, 1}},
		DefaultStart: []float64{-1, 1},
		Value: func(x []float64) float64 {
			a := 1 - x[0]
			b := x[1] - x[0]*x[0]
			return a*a + 100*b*b
		},
		Gradient: func(x []float64) []float64 {
			b := x[1] - x[0]*x[0]
			return []float64{
				-2*(1-x[0]) - 400*x[0]*b,
				200 * b,
			}
		},
		Hessian: func(x []float64) *mat.Dense {
			return mat.NewDense(2, 2, []float64{
				2 - 400*x[1] + 1200*x[0]*x[0], -400 * x[0],
				-400 * x[0], 200,
			})
		},
	}
}

// Himmelblau is (x^2+y-11)^2 + (x+y^2-7)^2 with four distinct global minima,
// useful for showing basin-of-attraction sensitivity to the start point.
func Himmelblau() *Function {
	return &Function{
		ID:          "himmelblau",
		Name:        "Himmelblau",
		Description: "(x^2+y-11)^2 + (x+y^2-7)^2 with four global minima",
		Dim:         2,
		Bounds:      [][2]float64{{-5, 5}, {-5, 5}},
		Minima: [][]float64{
			{3, 2},
			{-2.805118, 3.131312},
			{-3.779310, -3.283186},
			{3.584428, -1.848126},
		},
		DefaultStart: []float64{0, 0},
		Value: func(x []float64) float64 {
			a := x[0]*x[0] + x[1] - 11
			b := x[0] + x[1]*x[1] - 7
			return a*a + b*b
		},
		Gradient: func(x []float64) []float64 {
			a := x[0]*x[0] + x[1] - 11
			b := x[0] + x[1]*x[1] - 7
			return []float64{
				4*x[0]*a + 2*b,
				2*a + 4*x[1]*b,
			}
		},
		Hessian: func(x []float64) *mat.Dense {
			return mat.NewDense(2, 2, []float64{
				12*x[0]*x[0] + 4*x[1] - 42, 4 * (x[0] + x[1]),
				4 * (x[0] + x[1]), 12*x[1]*x[1] + 4*x[0] - 26,
			})
		},
	}
}

// Booth is (x+2y-7)^2 + (2x+y-5)^2, a gently conditioned quadratic bowl with
// minimum at (1, 3).
func Booth() *Function {
	return &Function{
		ID:           "booth",
		Name:         "Booth",
		Description:  "(x+2y-7)^2 + (2x+y-5)^2, quadratic bowl with minimum at (1, 3)",
		Dim:          2,
		Bounds:       [][2]float64{{-10, 10}, {-10, 10}},
		Minima:       [][]float64{{1, 3}},
		DefaultStart: []float64{-5, -5},
		Value: func(x []float64) float64 {
			a := x[0] + 2*x[1] - 7
			b := 2*x[0] + x[1] - 5
			return a*a + b*b
		},
		Gradient: func(x []float64) []float64 {
			a := x[0] + 2*x[1] - 7
			b := 2*x[0] + x[1] - 5
			return []float64{2*a + 4*b, 4*a + 2*b}
		},
		Hessian: func(x []float64) *mat.Dense {
			return mat.NewDense(2, 2, []float64{10, 8, 8, 10})
		},
	}
}

// Matyas is 0.26(x^2+y^2) - 0.48xy, a nearly flat plate whose weak coupling
// term makes it a mild ill-conditioning test.
func Matyas() *Function {
	return &Function{
		ID:           "matyas",
		Name:         "Matyas",
		Description:  "0.26(x^2+y^2) - 0.48xy, shallow plate with minimum at the origin",
		Dim:          2,
		Bounds:       [][2]float64{{-10, 10}, {-10, 10}},
		Minima:       [][]float64{{0, 0}},
		DefaultStart: []float64{8, -8},
		Value: func(x []float64) float64 {
			return 0.26*(x[0]*x[0]+x[1]*x[1]) - 0.48*x[0]*x[1]
		},
		Gradient: func(x []float64) []float64 {
			return []float64{
				0.52*x[0] - 0.48*x[1],
				0.52*x[1] - 0.48*x[0],
			}
		},
		Hessian: func(x []float64) *mat.Dense {
			return mat.NewDense(2, 2, []float64{0.52, -0.48, -0.48, 0.52})
		},
	}
}

// defaultQuadratic is the catalog's stock quadratic, a well-conditioned
// positive-definite form every optimizer should dispatch quickly.
func defaultQuadratic() *Function {
	a := mat.NewDense(2, 2, []float64{4, 1, 1, 2})
	return NewQuadratic("quadratic", "Quadratic", a, []float64{0, 0}, 0)
}

// catalog is the fixed set of shipped functions, in display order.
var catalog = []*Function{
	Sphere(),
	defaultQuadratic(),
	Rosenbrock(),
	Himmelblau(),
	Booth(),
	Matyas(),
}

// All returns the shipped functions in display order. The returned slice is
// shared; callers must not modify it.
func All() []*Function {
	return catalog
}

// ByID returns the catalog function with the given id.
func ByID(id string) (*Function, bool) {
	for _, f := range catalog {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}
