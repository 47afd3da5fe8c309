package runtime

import (
	"errors"
	"fmt"
)

// Error categories. Every failure raised by the engine wraps exactly one of
// these so callers can classify it with errors.Is.
var (
	ErrUnsupported       = errors.New("unsupported")
	ErrBinding           = errors.New("binding error")
	ErrMemory            = errors.New("memory error")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrMissingEntryPoint = errors.New("missing entry point: no main function")
)

// Binding failures.
var (
	ErrUndeclared     = fmt.Errorf("%w: undeclared identifier", ErrBinding)
	ErrRedeclared     = fmt.Errorf("%w: redeclaration", ErrBinding)
	ErrStructNotFound = fmt.Errorf("%w: struct not found", ErrBinding)
	ErrFieldNotFound  = fmt.Errorf("%w: field not found", ErrBinding)
	ErrArity          = fmt.Errorf("%w: wrong argument count", ErrBinding)
)

// Memory-safety failures.
var (
	ErrNullDereference = fmt.Errorf("%w: null pointer dereference", ErrMemory)
	ErrDeadCell        = fmt.Errorf("%w: access to dead cell", ErrMemory)
	ErrInvalidDelete   = fmt.Errorf("%w: invalid deletion target", ErrMemory)
	ErrOutOfBounds     = fmt.Errorf("%w: index out of bounds", ErrMemory)
)

// Unsupportedf reports a construct the engine does not implement.
func Unsupportedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}

// Mismatchf reports a value whose shape does not fit the requested type.
func Mismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}

// Detailf attaches a detail message to one of the sentinel errors above.
func Detailf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// Category returns a short label for the error's category.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrBinding):
		return "binding"
	case errors.Is(err, ErrMemory):
		return "memory"
	case errors.Is(err, ErrTypeMismatch):
		return "type"
	case errors.Is(err, ErrDivisionByZero):
		return "arithmetic"
	case errors.Is(err, ErrMissingEntryPoint):
		return "entry"
	default:
		return "internal"
	}
}
