// Package runtime holds the memory model shared by the interpreter: types,
// values, the cell store with its reserved NULL cell, lexical scopes and the
// call stack. It knows nothing about syntax.
package runtime
