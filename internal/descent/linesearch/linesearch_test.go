package linesearch

import (
	"math"
	"testing"

	"github.com/optviz/descent/internal/linalg"
)

// quadratic bowl f(x) = x.x with gradient 2x; exact minimizer along -g from
// any point is alpha = 0.5.
func bowl(x []float64) float64 {
	return linalg.Dot(x, x)
}

func bowlGrad(x []float64) []float64 {
	return linalg.Scale(2, x)
}

func TestBacktrackingSatisfiesArmijo(t *testing.T) {
	x := []float64{2, 2}
	dir := linalg.Scale(-1, bowlGrad(x))
	p := Params{}

	res := Backtracking(bowl, bowlGrad, x, dir, p)
	if !res.Success {
		t.Fatal("backtracking failed on a convex quadratic")
	}

	g0d := linalg.Dot(bowlGrad(x), dir)
	lhs := bowl(linalg.AddScaled(x, res.Alpha, dir))
	rhs := bowl(x) + 1e-4*res.Alpha*g0d
	if lhs > rhs {
		t.Fatalf("Armijo violated at returned alpha %v: %v > %v", res.Alpha, lhs, rhs)
	}
}

func TestBacktrackingTrialSequence(t *testing.T) {
	// f(x) = x^4 around x=1 with full gradient step overshooting: the search
	// must return InitialAlpha * 0.5^i for some i.
	f := func(x []float64) float64 { return math.Pow(x[0], 4) }
	g := func(x []float64) []float64 { return []float64{4 * math.Pow(x[0], 3)} }

	res := Backtracking(f, g, []float64{1}, []float64{-4}, Params{InitialAlpha: 1.0})
	if !res.Success {
		t.Fatal("expected success")
	}
	ratio := 1.0 / res.Alpha
	if math.Abs(ratio-math.Round(ratio)) > 1e-12 || math.Log2(ratio) != math.Round(math.Log2(ratio)) {
		t.Fatalf("alpha %v is not of the form 0.5^i", res.Alpha)
	}
}

func TestNonDescentDirectionRejected(t *testing.T) {
	x := []float64{1, 1}
	uphill := bowlGrad(x) // points uphill

	for name, search := range map[string]func(Func, Grad, []float64, []float64, Params) Result{
		"backtracking": Backtracking,
		"strong_wolfe": StrongWolfe,
	} {
		t.Run(name, func(t *testing.T) {
			res := search(bowl, bowlGrad, x, uphill, Params{})
			if res.Success {
				t.Fatal("non-descent direction must not succeed")
			}
			if res.Alpha != 0 {
				t.Fatalf("alpha = %v, want 0", res.Alpha)
			}
			if res.FuncEvals != 0 {
				t.Fatalf("search probed %d times despite non-descent precondition", res.FuncEvals)
			}
		})
	}
}

func TestStrongWolfeConditionsHold(t *testing.T) {
	x := []float64{3, -1}
	dir := linalg.Scale(-1, bowlGrad(x))
	p := Params{InitialAlpha: 1.0, C1: 1e-4, C2: 0.9, MaxIterations: 50}

	res := StrongWolfe(bowl, bowlGrad, x, dir, p)
	if !res.Success {
		t.Fatal("strong Wolfe failed on a convex quadratic")
	}

	g0d := linalg.Dot(bowlGrad(x), dir)
	xNew := linalg.AddScaled(x, res.Alpha, dir)

	if bowl(xNew) > bowl(x)+p.C1*res.Alpha*g0d {
		t.Fatalf("Armijo violated at alpha %v", res.Alpha)
	}
	if gd := linalg.Dot(bowlGrad(xNew), dir); math.Abs(gd) > p.C2*math.Abs(g0d) {
		t.Fatalf("curvature violated at alpha %v: |%v| > %v", res.Alpha, gd, p.C2*math.Abs(g0d))
	}
}

func TestBudgetExhaustionReportsFailure(t *testing.T) {
	// A descent direction on a function that punishes every positive step:
	// min at 0 approached only as alpha -> 0, so Armijo with the huge
	// initial step keeps failing until the budget runs out.
	f := func(x []float64) float64 { return math.Abs(x[0]) }
	g := func(x []float64) []float64 {
		if x[0] >= 0 {
			return []float64{1}
		}
		return []float64{-1}
	}

	res := Backtracking(f, g, []float64{1e-30}, []float64{-1}, Params{InitialAlpha: 1e6, MaxIterations: 5})
	if res.Success {
		t.Fatal("expected budget exhaustion")
	}
	if res.Alpha <= 0 {
		t.Fatalf("failed search must still report the last trial, got %v", res.Alpha)
	}
	if res.FuncEvals != 6 { // f(x) plus five trials
		t.Fatalf("FuncEvals = %d, want 6", res.FuncEvals)
	}
}

func TestDefaultsApplied(t *testing.T) {
	p := Params{}.withDefaults()
	if p.InitialAlpha != 1.0 || p.C1 != 1e-4 || p.C2 != 0.9 || p.MaxIterations != 50 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}
