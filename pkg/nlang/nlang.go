// Package nlang is the stable Go API surface for the nlang toolchain: the
// single entry point `cmd/nlang` (and any embedder) drives the pipeline
// through, per SPEC_FULL.md §2/§6. It wraps lexer -> parser -> semantic
// analyzer and then hands the result to one of the three back-ends
// (internal/interp, internal/irgen, internal/cgen).
//
// Mirrors the shape of the teacher's own pkg/dwscript facade: a New()
// constructor returning an Engine, with output/input redirected via
// SetOutput/SetInput before a run.
package nlang

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/cgen"
	"github.com/nlangteam/nlang/internal/config"
	"github.com/nlangteam/nlang/internal/diag"
	"github.com/nlangteam/nlang/internal/driver"
	"github.com/nlangteam/nlang/internal/interp"
	"github.com/nlangteam/nlang/internal/irgen"
	"github.com/nlangteam/nlang/internal/lexer"
	"github.com/nlangteam/nlang/internal/parser"
	"github.com/nlangteam/nlang/internal/semantic"
)

// Engine holds the built-in registry and the I/O streams a `run` uses. The
// registry is built once in New and is immutable process-wide state (spec.md
// §9's "Global state" note, read literally: no package-level var racing
// against table construction).
type Engine struct {
	reg    *builtins.Registry
	stdout io.Writer
	stdin  io.Reader
}

// New builds an Engine with the built-in registry constructed once and
// stdout/stdin defaulted to the process's own.
func New() *Engine {
	return &Engine{
		reg:    builtins.NewRegistry(),
		stdout: os.Stdout,
		stdin:  os.Stdin,
	}
}

// SetOutput redirects the output a subsequent Run writes program stdout to.
func (e *Engine) SetOutput(w io.Writer) { e.stdout = w }

// SetInput redirects the stream a subsequent Run reads the `input` built-in
// from.
func (e *Engine) SetInput(r io.Reader) { e.stdin = r }

// Builtins returns every registered built-in's schema, for `nlang builtins`.
func (e *Engine) Builtins() []*builtins.Schema {
	names := e.reg.Names()
	out := make([]*builtins.Schema, 0, len(names))
	for _, name := range names {
		out = append(out, e.reg.Lookup(name))
	}
	return out
}

// Analysis is a parsed-and-checked program: the AST and the resolved entry
// function name. Front-end diagnostics are not part of it; Check returns
// them separately, together with a nil *Analysis.
type Analysis struct {
	Program    *ast.Program
	EntryPoint string
}

// Check runs source through the lexer, parser, and semantic analyzer. On
// success it returns the checked program and its resolved entry point; on
// failure it returns the diagnostics from whichever phase rejected the
// source first.
func (e *Engine) Check(source string) (*Analysis, []*diag.Diagnostic) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if lexErr := l.Err(); lexErr != nil {
		return nil, []*diag.Diagnostic{diag.FromLexerError(lexErr)}
	}
	if errs := p.Errors(); len(errs) != 0 {
		return nil, diag.FromParserErrors(errs)
	}

	a := semantic.NewAnalyzer(e.reg)
	if !a.Analyze(program) {
		return nil, diag.FromSemanticErrors(a.Errors())
	}

	return &Analysis{Program: program, EntryPoint: a.EntryPoint()}, nil
}

// Run checks source and executes it in-process with the tree-walking
// interpreter, returning the program's exit code.
func (e *Engine) Run(source string) (int, []*diag.Diagnostic, error) {
	analysis, diags := e.Check(source)
	if diags != nil {
		return 0, diags, nil
	}

	it := interp.New(analysis.Program, e.reg, analysis.EntryPoint, e.stdout, e.stdin)
	code, err := it.Run()
	if err != nil {
		return 0, nil, fmt.Errorf("nlang: run: %w", err)
	}
	return code, nil, nil
}

// Eval runs source and returns everything it printed to stdout, mirroring
// the one-shot convenience method the teacher's own facade exposes.
func (e *Engine) Eval(source string) (string, error) {
	var buf bytes.Buffer
	prevOut := e.stdout
	e.stdout = &buf
	defer func() { e.stdout = prevOut }()

	_, diags, err := e.Run(source)
	if err != nil {
		return "", err
	}
	if diags != nil {
		return "", fmt.Errorf("nlang: eval: %s", diag.Render(diags, source))
	}
	return buf.String(), nil
}

// GenerateIR checks source and emits its textual LLVM-style IR.
func (e *Engine) GenerateIR(source string) (string, []*diag.Diagnostic, error) {
	analysis, diags := e.Check(source)
	if diags != nil {
		return "", diags, nil
	}
	ir, err := irgen.Generate(analysis.Program, e.reg, analysis.EntryPoint)
	if err != nil {
		return "", nil, fmt.Errorf("nlang: generate-ir: %w", err)
	}
	return ir, nil, nil
}

// GenerateC checks source and emits a freestanding C99 translation unit.
func (e *Engine) GenerateC(source string) (string, []*diag.Diagnostic, error) {
	analysis, diags := e.Check(source)
	if diags != nil {
		return "", diags, nil
	}
	src, err := cgen.Generate(analysis.Program, e.reg, analysis.EntryPoint)
	if err != nil {
		return "", nil, fmt.Errorf("nlang: generate-c: %w", err)
	}
	return src, nil, nil
}

// Compile checks source, emits C, and invokes the configured system
// compiler to produce outputPath. cfg may be nil, in which case
// config.Default() is used.
func (e *Engine) Compile(source, outputPath string, cfg *config.Driver) (string, []*diag.Diagnostic, error) {
	cSource, diags, err := e.GenerateC(source)
	if err != nil {
		return "", nil, err
	}
	if diags != nil {
		return "", diags, nil
	}
	out, err := driver.Compile(cSource, outputPath, cfg)
	if err != nil {
		return out, nil, fmt.Errorf("nlang: compile: %w", err)
	}
	return out, nil, nil
}
