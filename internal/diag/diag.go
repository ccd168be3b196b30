// Package diag is the shared diagnostic shape every phase of the pipeline
// reports through: lexer, parser, semantic analyzer, and the runtime
// (interpreter/driver) errors all normalize into a Diagnostic before
// reaching the CLI, so `cmd/nlang` renders one format regardless of which
// phase failed.
package diag

import (
	"fmt"

	"github.com/nlangteam/nlang/internal/lexer"
	"github.com/nlangteam/nlang/internal/parser"
	"github.com/nlangteam/nlang/internal/semantic"
	"github.com/nlangteam/nlang/internal/token"
)

// Severity distinguishes a hard failure from an advisory note. The pipeline
// itself only ever produces errors today; Warning exists so the shape
// doesn't need to change the day a phase starts emitting one (e.g. an
// unreachable statement after a `return`).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Phase names which pipeline stage raised the diagnostic, per SPEC_FULL.md
// §7's four error taxa.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseSemantic Phase = "semantic"
	PhaseRuntime  Phase = "runtime"
)

// Diagnostic is one reported problem, uniform across all four phases.
type Diagnostic struct {
	Severity Severity
	Phase    Phase
	Pos      token.Position
	Message  string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Phase, d.Pos, d.Message)
}

// FromLexerError wraps a lexer error as a Diagnostic, or nil if err is nil.
func FromLexerError(err *lexer.Error) *Diagnostic {
	if err == nil {
		return nil
	}
	return &Diagnostic{Severity: SeverityError, Phase: PhaseLexer, Pos: err.Pos, Message: err.Message}
}

// FromParserErrors wraps every parser error as a Diagnostic.
func FromParserErrors(errs []*parser.Error) []*Diagnostic {
	out := make([]*Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = &Diagnostic{Severity: SeverityError, Phase: PhaseParser, Pos: e.Pos, Message: e.Message}
	}
	return out
}

// FromSemanticErrors wraps every semantic error as a Diagnostic.
func FromSemanticErrors(errs []*semantic.Error) []*Diagnostic {
	out := make([]*Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = &Diagnostic{Severity: SeverityError, Phase: PhaseSemantic, Pos: e.Pos, Message: e.Message}
	}
	return out
}

// Runtime builds a single Diagnostic for a runtime/driver failure, which
// has no source position of its own (a failed compiler invocation, an
// interpreter panic recovered at the top level, and so on).
func Runtime(pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Phase: PhaseRuntime, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
