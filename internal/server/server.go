// Package server exposes the optimizer core over HTTP as a read-only
// presentation layer: enumerate algorithms and catalog functions, run one
// optimization, get the full trajectory back. Runs are bounded in-memory
// computations, so the optimize endpoint is synchronous.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/optviz/descent/internal/config"
	"github.com/optviz/descent/internal/descent"
	"github.com/optviz/descent/internal/linalg"
	"github.com/optviz/descent/internal/objective"
)

// Server wires the HTTP handlers to the optimizer registry and the function
// catalog. It holds no per-run state: every request is independent.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewServer creates a server instance with the given config and logger.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/optimizers", s.handleOptimizers)
		r.Get("/functions", s.handleFunctions)
		r.Post("/optimize", s.handleOptimize)
	})
}

type optimizerResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	UsesTrueHessian bool   `json:"uses_true_hessian"`
}

type functionResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Dimension    int          `json:"dimension"`
	Bounds       [][2]float64 `json:"bounds"`
	Minima       [][]float64  `json:"minima,omitempty"`
	DefaultStart []float64    `json:"default_start"`
}

type optimizeRequest struct {
	OptimizerID   string    `json:"optimizer_id"`
	FunctionID    string    `json:"function_id"`
	X0            []float64 `json:"x0,omitempty"`
	MaxIterations int       `json:"max_iterations,omitempty"`
	Tolerance     float64   `json:"tolerance,omitempty"`
}

type iterationResponse struct {
	Iteration     int         `json:"iteration"`
	X             []float64   `json:"x"`
	Fx            float64     `json:"fx"`
	Gradient      []float64   `json:"gradient"`
	GradientNorm  float64     `json:"gradient_norm"`
	Direction     []float64   `json:"direction,omitempty"`
	Alpha         *float64    `json:"alpha,omitempty"`
	HessianApprox [][]float64 `json:"hessian_approx"`
	TrueHessian   [][]float64 `json:"true_hessian"`
}

type optimizeResponse struct {
	OptimizerID         string              `json:"optimizer_id"`
	FunctionID          string              `json:"function_id"`
	Iterations          []iterationResponse `json:"iterations"`
	Solution            []float64           `json:"solution"`
	FinalValue          float64             `json:"final_value"`
	Status              string              `json:"status"`
	Converged           bool                `json:"converged"`
	FunctionEvaluations int                 `json:"function_evaluations"`
	GradientEvaluations int                 `json:"gradient_evaluations"`
}

func (s *Server) handleOptimizers(w http.ResponseWriter, r *http.Request) {
	infos := descent.Optimizers()
	out := make([]optimizerResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, optimizerResponse{
			ID:              info.ID,
			Name:            info.Name,
			Description:     info.Description,
			UsesTrueHessian: info.UsesTrueHessian,
		})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	fns := objective.All()
	out := make([]functionResponse, 0, len(fns))
	for _, fn := range fns {
		out = append(out, functionResponse{
			ID:           fn.ID,
			Name:         fn.Name,
			Description:  fn.Description,
			Dimension:    fn.Dim,
			Bounds:       fn.Bounds,
			Minima:       fn.Minima,
			DefaultStart: fn.DefaultStart,
		})
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	fn, ok := objective.ByID(req.FunctionID)
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown function "+req.FunctionID)
		return
	}

	params := descent.Params{
		MaxIterations: req.MaxIterations,
		Tolerance:     req.Tolerance,
	}
	if params.MaxIterations == 0 {
		params.MaxIterations = s.cfg.Optimizer.MaxIterations
	}
	if params.Tolerance == 0 {
		params.Tolerance = s.cfg.Optimizer.Tolerance
	}

	start := time.Now()
	result, err := descent.Run(req.OptimizerID, fn, req.X0, params)
	if err != nil {
		if _, ok := descent.IsContractError(err); ok {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	runsTotal.WithLabelValues(req.OptimizerID, result.Status.String()).Inc()
	runIterations.WithLabelValues(req.OptimizerID).Observe(float64(len(result.Iterations) - 1))
	runDuration.WithLabelValues(req.OptimizerID).Observe(time.Since(start).Seconds())

	s.logger.Info("optimization run",
		zap.String("optimizer", req.OptimizerID),
		zap.String("function", req.FunctionID),
		zap.String("status", result.Status.String()),
		zap.Int("iterations", len(result.Iterations)-1),
		zap.Float64("final_value", result.FinalValue),
	)

	s.respondJSON(w, http.StatusOK, toResponse(req, result))
}

func toResponse(req optimizeRequest, result *descent.Result) optimizeResponse {
	iters := make([]iterationResponse, 0, len(result.Iterations))
	for _, st := range result.Iterations {
		iters = append(iters, iterationResponse{
			Iteration:     st.Iteration,
			X:             st.X,
			Fx:            st.Fx,
			Gradient:      st.Gradient,
			GradientNorm:  st.GradientNorm,
			Direction:     st.Direction,
			Alpha:         st.Alpha,
			HessianApprox: linalg.Rows(st.HessianApprox),
			TrueHessian:   linalg.Rows(st.TrueHessian),
		})
	}
	return optimizeResponse{
		OptimizerID:         req.OptimizerID,
		FunctionID:          req.FunctionID,
		Iterations:          iters,
		Solution:            result.Solution,
		FinalValue:          result.FinalValue,
		Status:              result.Status.String(),
		Converged:           result.Converged,
		FunctionEvaluations: result.FunctionEvaluations,
		GradientEvaluations: result.GradientEvaluations,
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.logger.Warn("request rejected", zap.Int("status", status), zap.String("message", msg))
	s.respondJSON(w, status, map[string]string{"error": msg})
}
