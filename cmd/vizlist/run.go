package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zojize/viz-list/pkg/driver"
	"github.com/zojize/viz-list/pkg/interpreter"
)

func runProgram(ctx context.Context, session *driver.Session, out *renderer, logger *slog.Logger) int {
	res, err := session.Run(ctx)
	if err != nil {
		logger.Error("run failed", failureAttrs(res.Steps, err)...)
		return 1
	}
	return finish(session, res, out, logger)
}

// traceProgram prints the initial state and then one snapshot per
// suspension point.
func traceProgram(ctx context.Context, session *driver.Session, out *renderer, logger *slog.Logger) int {
	if err := out.snapshot(session.Snapshot()); err != nil {
		logger.Error("write snapshot", "error", err)
		return 1
	}
	res, err := session.Trace(ctx, out.snapshot)
	if err != nil {
		logger.Error("trace failed", failureAttrs(res.Steps, err)...)
		return 1
	}
	return finish(session, res, out, logger)
}

func finish(session *driver.Session, res driver.Result, out *renderer, logger *slog.Logger) int {
	err := out.summary(summary{
		Program: session.Source().Name,
		Result:  interpreter.FormatValue(res.Value),
		Steps:   res.Steps,
	})
	if err != nil {
		logger.Error("write summary", "error", err)
		return 1
	}
	return 0
}

// failureAttrs adds the error category for failures inside the program.
func failureAttrs(steps int, err error) []any {
	attrs := []any{"steps", steps}
	var rtErr *interpreter.RuntimeError
	if errors.As(err, &rtErr) {
		attrs = append(attrs, "category", rtErr.Category())
	}
	return append(attrs, "error", err)
}
