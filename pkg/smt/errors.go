package smt

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a request is issued on a torn-down session.
var ErrClosed = errors.New("solver session is closed")

// ErrUnknown is a sentinel for a check-sat that came back unknown; no
// function of this package returns it. CheckSat itself reports Unknown as a
// value, not an error; the checkers decide whether it is fatal.
var ErrUnknown = errors.New("solver returned unknown")

// SpawnError reports that the solver child process could not be started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not spawn solver %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ProtocolError reports a malformed or unexpected solver response.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return "solver protocol error: " + e.Msg
}

func protocolErrorf(format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}
