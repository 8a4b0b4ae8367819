// Package logging builds the zap logger used by the service and CLI shells.
// The optimizer core stays silent: runs are pure computations and their
// trajectories are the observable output, so logging lives at the boundary.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the logger configuration.
type Config struct {
	// Level is the minimum level to emit (debug, info, warn, error).
	Level string
	// Format is the encoder (json, console).
	Format string
	// Output is the destination (stdout, stderr, or a file path).
	Output string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{Level: "info", Format: "json", Output: "stderr"}
}

// New creates a zap logger from cfg.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case "json", "":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("logging: invalid format %q", cfg.Format)
	}

	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller()), nil
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr", "":
		return zapcore.Lock(os.Stderr), nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open %q: %w", output, err)
		}
		return zapcore.Lock(f), nil
	}
}
