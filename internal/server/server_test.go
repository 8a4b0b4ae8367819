package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/optviz/descent/internal/config"
)

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	cfg := &config.Config{}
	cfg.Optimizer.MaxIterations = 100
	cfg.Optimizer.Tolerance = 1e-6

	r := chi.NewRouter()
	NewServer(cfg, zap.NewNop()).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListOptimizers(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/v1/optimizers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []optimizerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 7)

	ids := map[string]bool{}
	for _, o := range out {
		assert.NotEmpty(t, o.Name)
		assert.NotEmpty(t, o.Description)
		ids[o.ID] = true
	}
	for _, want := range []string{"steepest", "newton", "bfgs", "dfp", "sr1", "bb", "trustregion"} {
		assert.True(t, ids[want], "missing optimizer %s", want)
	}
}

func TestListFunctions(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/api/v1/functions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []functionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out)

	for _, fn := range out {
		assert.Equal(t, fn.Dimension, len(fn.DefaultStart), "%s default start", fn.ID)
		assert.Equal(t, fn.Dimension, len(fn.Bounds), "%s bounds", fn.ID)
	}
}

func TestOptimizeEndpoint(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/v1/optimize", optimizeRequest{
		OptimizerID: "bfgs",
		FunctionID:  "quadratic",
		X0:          []float64{2, 2},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out optimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	assert.Equal(t, "bfgs", out.OptimizerID)
	assert.Equal(t, "quadratic", out.FunctionID)
	assert.True(t, out.Converged)
	assert.Equal(t, "converged", out.Status)
	require.NotEmpty(t, out.Iterations)

	// The starting state carries no step metadata; later states carry both.
	assert.Nil(t, out.Iterations[0].Direction)
	assert.Nil(t, out.Iterations[0].Alpha)
	last := out.Iterations[len(out.Iterations)-1]
	assert.NotNil(t, last.Direction)
	assert.NotNil(t, last.Alpha)
	assert.Len(t, last.HessianApprox, 2)
	assert.Len(t, last.TrueHessian, 2)

	assert.InDelta(t, 0, out.Solution[0], 1e-4)
	assert.InDelta(t, 0, out.Solution[1], 1e-4)
	assert.Positive(t, out.FunctionEvaluations)
	assert.Positive(t, out.GradientEvaluations)
}

func TestOptimizeDefaultsFromConfig(t *testing.T) {
	r := testRouter(t)
	// No x0, iterations or tolerance supplied: the run starts at the
	// function's default start under the configured budget.
	rec := doJSON(t, r, http.MethodPost, "/api/v1/optimize", optimizeRequest{
		OptimizerID: "trustregion",
		FunctionID:  "sphere",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out optimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Converged)
	assert.LessOrEqual(t, len(out.Iterations), 101)
}

func TestOptimizeUnknownFunction(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/v1/optimize", optimizeRequest{
		OptimizerID: "bfgs",
		FunctionID:  "nope",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Contains(t, out["error"], "nope")
}

func TestOptimizeUnknownOptimizer(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/v1/optimize", optimizeRequest{
		OptimizerID: "gradient-descent-9000",
		FunctionID:  "sphere",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeDimensionMismatch(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/api/v1/optimize", optimizeRequest{
		OptimizerID: "steepest",
		FunctionID:  "sphere",
		X0:          []float64{1, 2, 3},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeMalformedBody(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
