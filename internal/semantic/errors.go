package semantic

import (
	"fmt"

	"github.com/nlangteam/nlang/internal/token"
)

// Error is one semantic diagnostic: undefined name, type mismatch, arity
// mismatch, illegal break/continue, duplicate declaration, or a missing
// entry function.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
