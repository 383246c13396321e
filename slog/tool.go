package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/askpage"
)

// LoggingTool returns tool with its function wrapped to log every invocation.
func LoggingTool(tool askpage.Tool, logger *slog.Logger) askpage.Tool {
	next := tool.Func
	tool.Func = func(ctx context.Context, input string) (out string, err error) {
		defer func(begin time.Time) {
			logger.Info("tool",
				"name", tool.Name,
				"input", input,
				"output_chars", len(out),
				"duration", time.Since(begin),
				"err", err,
			)
		}(time.Now())
		return next(ctx, input)
	}
	return tool
}
