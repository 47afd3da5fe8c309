package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/zojize/viz-list/pkg/interpreter"
	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

// ErrStepLimit is returned when a run exceeds its step budget.
var ErrStepLimit = errors.New("driver: step limit reached")

// Options configures a Session.
type Options struct {
	// MaxSteps bounds Run and Trace; zero means DefaultMaxSteps.
	MaxSteps int
	Logger   *slog.Logger
}

// Session owns one parsed program and the interpreter stepping it.
type Session struct {
	source   Source
	tree     *syntax.Tree
	interp   *interpreter.Interpreter
	logger   *slog.Logger
	maxSteps int
}

// Result summarizes a finished run.
type Result struct {
	Value runtime.Value
	Steps int
}

// Open parses src and initializes an interpreter on it.
func Open(src Source, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	tree, err := syntax.Parse(src.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	s := &Session{
		source:   src,
		tree:     tree,
		interp:   interpreter.New(),
		logger:   logger.With("program", src.Name),
		maxSteps: maxSteps,
	}
	if err := s.Restart(); err != nil {
		tree.Close()
		return nil, err
	}
	return s, nil
}

// Restart resets the interpreter and initializes it again on the same tree.
func (s *Session) Restart() error {
	if err := s.interp.Init(s.tree.Root()); err != nil {
		s.logger.Debug("init failed", "error", err)
		return fmt.Errorf("%s: %w", s.source.Name, err)
	}
	s.logger.Debug("initialized", "cells", s.interp.Store().Len())
	return nil
}

// Step advances one suspension point.
func (s *Session) Step() (bool, error) {
	done, err := s.interp.Step()
	if err != nil {
		s.logger.Debug("step failed", "step", s.interp.Steps(), "error", err)
		return true, err
	}
	if done {
		s.logger.Debug("finished", "steps", s.interp.Steps())
	}
	return done, nil
}

// Run steps to completion under the session's step budget.
func (s *Session) Run(ctx context.Context) (Result, error) {
	return s.Trace(ctx, nil)
}

// Trace steps to completion, calling fn with a snapshot after every
// suspension point. A non-nil error from fn stops the run.
func (s *Session) Trace(ctx context.Context, fn func(interpreter.Snapshot) error) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Result{Steps: s.interp.Steps()}, err
		}
		if s.interp.Steps() >= s.maxSteps && s.interp.Running() {
			s.logger.Warn("step limit reached", "max_steps", s.maxSteps)
			return Result{Steps: s.interp.Steps()}, fmt.Errorf("%w after %d steps", ErrStepLimit, s.maxSteps)
		}
		done, err := s.Step()
		if err != nil {
			return Result{Steps: s.interp.Steps()}, err
		}
		if done {
			val, _ := s.interp.Result()
			return Result{Value: val, Steps: s.interp.Steps()}, nil
		}
		if fn != nil {
			if err := fn(s.interp.Snapshot()); err != nil {
				return Result{Steps: s.interp.Steps()}, err
			}
		}
	}
}

// Snapshot projects the current interpreter state.
func (s *Session) Snapshot() interpreter.Snapshot { return s.interp.Snapshot() }

// Interpreter exposes the underlying interpreter.
func (s *Session) Interpreter() *interpreter.Interpreter { return s.interp }

// Source returns the program the session runs.
func (s *Session) Source() Source { return s.source }

// Close stops any suspended run and frees the syntax tree.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.interp.Reset()
	s.tree.Close()
}
