// Package logging builds the CLI's structured logger: a logr.Logger backed
// by zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures the logger.
type Options struct {
	// Verbose enables V(1) messages.
	Verbose bool
	// Format is FormatConsole or FormatJSON.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a logger from opts.
func New(opts Options) (logr.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch opts.Format {
	case "", FormatConsole:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return logr.Discard(), fmt.Errorf("unknown log format %q (expected %s or %s)", opts.Format, FormatConsole, FormatJSON)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	return zapr.NewLogger(zap.New(core)), nil
}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

// IntoContext stores log in ctx.
func IntoContext(ctx context.Context, log logr.Logger) context.Context {
	return logr.NewContext(ctx, log)
}
