package descent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optviz/descent/internal/linalg"
)

func TestBBScaleFollowsQuotient(t *testing.T) {
	b := &bbStrategy{scale: 1.0}
	s := []float64{2, 0}
	y := []float64{4, 0} // s.s/s.y = 4/8 = 0.5

	b.observe(s, y)
	assert.InDelta(t, 0.5, b.scale, 1e-15)
}

func TestBBScaleKeptOnBadCurvature(t *testing.T) {
	b := &bbStrategy{scale: 0.25}

	b.observe([]float64{1, 0}, []float64{-1, 0}) // s.y < 0
	assert.Equal(t, 0.25, b.scale)

	b.observe([]float64{1, 0}, []float64{0, 1}) // s.y = 0
	assert.Equal(t, 0.25, b.scale)
}

func TestBBScaleClamped(t *testing.T) {
	b := &bbStrategy{scale: 1.0}

	// Huge quotient: s.s/s.y = 1/1e-11 = 1e11, above the cap.
	b.observe([]float64{1, 0}, []float64{1e-11, 0})
	assert.Equal(t, bbScaleMax, b.scale)

	// Tiny quotient: s.s/s.y = 1e-22/1e-11 = 1e-11, below the floor.
	b.observe([]float64{1e-11, 0}, []float64{1, 0})
	assert.Equal(t, bbScaleMin, b.scale)
}

func TestBBUsesFixedUnitStep(t *testing.T) {
	fn := testQuadratic(t)
	res := BarzilaiBorwein(fn, []float64{2, 2}, Params{MaxIterations: 200})
	require.True(t, res.Converged)

	for k := 1; k < len(res.Iterations); k++ {
		st := res.Iterations[k]
		require.NotNil(t, st.Alpha)
		assert.Equal(t, 1.0, *st.Alpha, "iteration %d", k)

		// The scaling lives in the direction, which is anti-parallel to the
		// previous gradient.
		prevGrad := res.Iterations[k-1].Gradient
		if linalg.Norm(prevGrad) > 0 {
			cross := st.Direction[0]*prevGrad[1] - st.Direction[1]*prevGrad[0]
			assert.InDelta(t, 0, cross, 1e-9, "iteration %d direction not collinear with gradient", k)
			assert.LessOrEqual(t, linalg.Dot(st.Direction, prevGrad), 0.0)
		}
	}
}
