package interpreter

import (
	"errors"
	"iter"

	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

// ErrNotInitialized is returned by Step before a successful Init.
var ErrNotInitialized = errors.New("interpreter: not initialized")

// errHalted unwinds a suspended evaluation when Reset stops it.
var errHalted = errors.New("interpreter: halted")

// execution is the resumable evaluation of main. The evaluator runs inside
// an iter.Pull coroutine; control passes back and forth on every yield so
// the driver and evaluator never run at the same time.
type execution struct {
	next    func() (struct{}, bool)
	stop    func()
	suspend func(struct{}) bool

	steps    int
	finished bool
	result   runtime.Value
	err      error
}

// Init resets all state, scans the top-level declarations of root, and
// prepares main for stepping. Global initializers run here and never
// suspend.
func (i *Interpreter) Init(root syntax.Node) error {
	i.Reset()
	if root == nil {
		return runtime.Unsupportedf("empty syntax tree")
	}
	globals, err := i.declareTopLevel(root)
	if err != nil {
		return err
	}
	main, ok := i.functions["main"]
	if !ok {
		return runtime.ErrMissingEntryPoint
	}
	if len(main.Params) > 0 {
		return wrapNode(main.Node, runtime.Unsupportedf("main with parameters"))
	}
	if err := i.declareGlobals(globals); err != nil {
		return err
	}

	run := &execution{}
	i.env.Call(main.Name, nil)
	run.next, run.stop = iter.Pull(func(yield func(struct{}) bool) {
		run.suspend = yield
		defer func() { run.suspend = nil }()
		run.result, run.err = i.invoke(main)
	})
	i.run = run
	return nil
}

// Step resumes evaluation until the next suspension point or completion.
// It reports whether the run has finished. A failure terminates the run and
// is returned on this and every later call.
func (i *Interpreter) Step() (bool, error) {
	run := i.run
	if run == nil {
		return true, ErrNotInitialized
	}
	if run.finished {
		return true, run.err
	}
	if _, ok := run.next(); ok {
		run.steps++
		return false, nil
	}
	run.finished = true
	run.stop()
	if errors.Is(run.err, errHalted) {
		run.err = nil
	}
	return true, run.err
}

// Reset discards all interpreter state. A suspended evaluation is stopped
// without running any further program code.
func (i *Interpreter) Reset() {
	if i.run != nil && i.run.stop != nil {
		i.run.stop()
	}
	i.clear()
}

// Running reports whether an initialized run has not yet finished.
func (i *Interpreter) Running() bool {
	return i.run != nil && !i.run.finished
}

// Steps is the number of suspension points reached so far.
func (i *Interpreter) Steps() int {
	if i.run == nil {
		return 0
	}
	return i.run.steps
}

// Result returns main's return value once the run finished successfully.
func (i *Interpreter) Result() (runtime.Value, bool) {
	if i.run == nil || !i.run.finished || i.run.err != nil {
		return nil, false
	}
	return i.run.result, true
}

// Err returns the failure that terminated the run, if any.
func (i *Interpreter) Err() error {
	if i.run == nil {
		return nil
	}
	return i.run.err
}

// pause records node as the current position and hands control back to the
// driver. Outside a stepped run (global initializers) it only records.
func (i *Interpreter) pause(node syntax.Node) error {
	i.current = node
	if i.run == nil || i.run.suspend == nil {
		return nil
	}
	if !i.run.suspend(struct{}{}) {
		return errHalted
	}
	return nil
}
