package check

import "fmt"

// InternalError reports an invariant violation inside the engine. It is
// always fatal.
type InternalError string

func (e InternalError) Error() string {
	return "internal error: " + string(e)
}

func internalErrorf(format string, args ...interface{}) InternalError {
	return InternalError(fmt.Sprintf(format, args...))
}

// UnknownError is returned when the solver answered `unknown` and the
// configuration asks for that to be fatal.
type UnknownError struct {
	During string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("solver returned unknown during %s", e.During)
}
