package parse

import "fmt"

// Error is a source parse failure. Row and Col are zero-based; Line is the
// full source line the failure points into, kept for caret rendering by the
// CLI.
type Error struct {
	Row  int
	Col  int
	Line string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Row+1, e.Col+1, e.Msg)
}
