package interp

import (
	"fmt"

	"github.com/nlangteam/nlang/internal/token"
)

// RuntimeError is a fatal interpreter failure: division/modulo by zero,
// invalid conversion, non-existent built-in dispatch. It aborts the run.
type RuntimeError struct {
	Pos     token.Position
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: runtime error: %s", e.Pos, e.Message)
}
