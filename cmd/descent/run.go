package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optviz/descent/internal/descent"
	"github.com/optviz/descent/internal/objective"
)

var (
	runFunction  string
	runOptimizer string
	runStart     string
	runIters     int
	runTolerance float64
	runOut       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one optimizer on one catalog function",
	Long:  `Runs a single optimization and writes the trajectory as JSON.`,
	RunE:  runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&runFunction, "function", "rosenbrock", "Objective function id (see 'descent list')")
	runCmd.Flags().StringVar(&runOptimizer, "optimizer", "bfgs", "Optimizer id (see 'descent list')")
	runCmd.Flags().StringVar(&runStart, "x0", "", "Start point as comma-separated floats (default: function's start)")
	runCmd.Flags().IntVar(&runIters, "max-iters", 100, "Iteration budget")
	runCmd.Flags().Float64Var(&runTolerance, "tol", 1e-6, "Gradient-norm convergence tolerance")
	runCmd.Flags().StringVar(&runOut, "out", "-", "Output path, '-' for stdout")
	rootCmd.AddCommand(runCmd)
}

// runIteration is the CLI's trimmed trajectory entry; the HTTP API carries
// the full per-state matrices.
type runIteration struct {
	Iteration    int       `json:"iteration"`
	X            []float64 `json:"x"`
	Fx           float64   `json:"fx"`
	GradientNorm float64   `json:"gradient_norm"`
	Direction    []float64 `json:"direction,omitempty"`
	Alpha        *float64  `json:"alpha,omitempty"`
}

type runOutput struct {
	Optimizer           string         `json:"optimizer"`
	Function            string         `json:"function"`
	Solution            []float64      `json:"solution"`
	FinalValue          float64        `json:"final_value"`
	Status              string         `json:"status"`
	Converged           bool           `json:"converged"`
	FunctionEvaluations int            `json:"function_evaluations"`
	GradientEvaluations int            `json:"gradient_evaluations"`
	Iterations          []runIteration `json:"iterations"`
}

func runOptimization(cmd *cobra.Command, args []string) error {
	fn, ok := objective.ByID(runFunction)
	if !ok {
		return fmt.Errorf("unknown function %q", runFunction)
	}

	var x0 []float64
	if runStart != "" {
		var err error
		x0, err = parsePoint(runStart)
		if err != nil {
			return err
		}
	}

	result, err := descent.Run(runOptimizer, fn, x0, descent.Params{
		MaxIterations: runIters,
		Tolerance:     runTolerance,
	})
	if err != nil {
		return err
	}

	logger.Info("run finished",
		zap.String("optimizer", runOptimizer),
		zap.String("function", runFunction),
		zap.String("status", result.Status.String()),
		zap.Int("iterations", len(result.Iterations)-1),
		zap.Float64("final_value", result.FinalValue),
		zap.Int("function_evaluations", result.FunctionEvaluations),
		zap.Int("gradient_evaluations", result.GradientEvaluations),
	)

	out := runOutput{
		Optimizer:           runOptimizer,
		Function:            runFunction,
		Solution:            result.Solution,
		FinalValue:          result.FinalValue,
		Status:              result.Status.String(),
		Converged:           result.Converged,
		FunctionEvaluations: result.FunctionEvaluations,
		GradientEvaluations: result.GradientEvaluations,
	}
	for _, st := range result.Iterations {
		out.Iterations = append(out.Iterations, runIteration{
			Iteration:    st.Iteration,
			X:            st.X,
			Fx:           st.Fx,
			GradientNorm: st.GradientNorm,
			Direction:    st.Direction,
			Alpha:        st.Alpha,
		})
	}

	w := os.Stdout
	if runOut != "-" {
		f, err := os.Create(runOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parsePoint(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid start point %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}
