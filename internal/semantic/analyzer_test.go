package semantic

import (
	"testing"

	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/lexer"
	"github.com/nlangteam/nlang/internal/parser"
)

func analyze(t *testing.T, src string) (*Analyzer, bool) {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	a := NewAnalyzer(builtins.NewRegistry())
	ok := a.Analyze(program)
	return a, ok
}

func TestAnalyzeFactorialInfersIntParamAndReturn(t *testing.T) {
	src := `
def factorial(n) {
	if (n <= 1) { return 1; }
	return n * factorial(n - 1);
}
def main() {
	store result = factorial(5);
	println(result);
}
`
	a, ok := analyze(t, src)
	if !ok {
		t.Fatalf("expected success, got errors: %v", a.Errors())
	}
	if a.EntryPoint() != "main" {
		t.Errorf("entry point = %q, want main", a.EntryPoint())
	}
	fn := a.funcDecls["factorial"]
	if fn.ParamTypes[0].Kind.String() != "Int" {
		t.Errorf("factorial param inferred as %s, want Int", fn.ParamTypes[0])
	}
	if fn.ReturnType.Kind.String() != "Int" {
		t.Errorf("factorial return inferred as %s, want Int", fn.ReturnType)
	}
}

func TestAnalyzeUndefinedIdentifier(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	println(missing);
}
`)
	if ok {
		t.Fatal("expected failure for undefined identifier")
	}
	if len(a.Errors()) == 0 {
		t.Fatal("expected at least one error")
	}
}

func TestAnalyzeDuplicateDeclaration(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	store x = 1;
	store x = 2;
}
`)
	if ok {
		t.Fatal("expected failure for duplicate declaration")
	}
	found := false
	for _, e := range a.Errors() {
		if e.Message == `duplicate declaration of "x" in this scope` {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duplicate-declaration error, got %v", a.Errors())
	}
}

func TestAnalyzeTypeMismatchOnAssign(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	store x = 1;
	x = "oops";
}
`)
	if ok {
		t.Fatal("expected failure for type mismatch")
	}
	if len(a.Errors()) == 0 {
		t.Fatal("expected at least one error")
	}
}

func TestAnalyzeIntWidensToFloatOnAssign(t *testing.T) {
	_, ok := analyze(t, `
def main() {
	store x = 1.5;
	x = 2;
	println(x);
}
`)
	if !ok {
		t.Fatal("expected Int->Float widening to be allowed on assignment")
	}
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	break;
}
`)
	if ok {
		t.Fatal("expected failure for break outside while")
	}
	if a.Errors()[0].Message != "break outside of while loop" {
		t.Errorf("got %v", a.Errors())
	}
}

func TestAnalyzeContinueInsideWhileOK(t *testing.T) {
	_, ok := analyze(t, `
def main() {
	store i = 0;
	while (i < 3) {
		i = i + 1;
		if (i == 2) { continue; }
		println(i);
	}
}
`)
	if !ok {
		t.Fatal("expected continue inside while to be legal")
	}
}

func TestAnalyzeMissingEntryFunction(t *testing.T) {
	a, ok := analyze(t, `
def helper() {
	return 1;
}
`)
	if ok {
		t.Fatal("expected failure for missing entry function")
	}
	found := false
	for _, e := range a.Errors() {
		if e.Message == "no entry function: declare a function named main or use assign_main" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected missing-entry-function error, got %v", a.Errors())
	}
}

func TestAnalyzeAssignMainResolvesEntry(t *testing.T) {
	a, ok := analyze(t, `
def start() {
	println("hi");
}
assign_main start;
`)
	if !ok {
		t.Fatalf("expected success, got %v", a.Errors())
	}
	if a.EntryPoint() != "start" {
		t.Errorf("entry point = %q, want start", a.EntryPoint())
	}
}

func TestAnalyzeAssignMainConflictsWithLiteralMain(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	println("a");
}
def start() {
	println("b");
}
assign_main start;
`)
	if ok {
		t.Fatal("expected failure when assign_main disagrees with a literal main")
	}
	if len(a.Errors()) == 0 {
		t.Fatal("expected at least one error")
	}
}

func TestAnalyzeArityMismatch(t *testing.T) {
	a, ok := analyze(t, `
def add(a, b) {
	return a + b;
}
def main() {
	store x = add(1);
}
`)
	if ok {
		t.Fatal("expected failure for arity mismatch")
	}
	if len(a.Errors()) == 0 {
		t.Fatal("expected at least one error")
	}
}

func TestAnalyzePolymorphicBuiltinJoinsToFloat(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	store x = max(1, 2.5);
	println(x);
}
`)
	if !ok {
		t.Fatalf("expected success, got %v", a.Errors())
	}
	_ = a
}

func TestAnalyzeWhileConditionMustBeBool(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	while (1) {
		break;
	}
}
`)
	if ok {
		t.Fatal("expected failure for non-Bool while condition")
	}
	if len(a.Errors()) == 0 {
		t.Fatal("expected at least one error")
	}
}

func TestAnalyzeModuloRequiresInt(t *testing.T) {
	a, ok := analyze(t, `
def main() {
	store x = 5.0 % 2;
}
`)
	if ok {
		t.Fatal("expected failure: %% requires Int operands")
	}
	if len(a.Errors()) == 0 {
		t.Fatal("expected at least one error")
	}
}
