package cgen

import (
	"strings"
	"testing"

	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/lexer"
	"github.com/nlangteam/nlang/internal/parser"
	"github.com/nlangteam/nlang/internal/semantic"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	reg := builtins.NewRegistry()
	a := semantic.NewAnalyzer(reg)
	if !a.Analyze(program) {
		t.Fatalf("unexpected semantic errors: %v", a.Errors())
	}
	c, err := Generate(program, reg, a.EntryPoint())
	if err != nil {
		t.Fatalf("unexpected cgen error: %v", err)
	}
	return c
}

func TestGenerateCallsEntryFunctionFromMain(t *testing.T) {
	c := generate(t, `
def start() {
	println("hi");
}
assign_main start;
`)
	if !strings.Contains(c, "int main(void) {") {
		t.Fatalf("expected a main(), got:\n%s", c)
	}
	if !strings.Contains(c, "start();") {
		t.Errorf("expected main to call the entry function by its source name:\n%s", c)
	}
}

func TestGenerateMainReturnsEntryIntResult(t *testing.T) {
	c := generate(t, `
def main() {
	return 42;
}
`)
	if !strings.Contains(c, "return (int)main();") {
		t.Errorf("expected main's numeric result propagated to the process exit code:\n%s", c)
	}
}

func TestGenerateIntDivisionGuardsZero(t *testing.T) {
	c := generate(t, `
def main() {
	println(10 / 2);
}
`)
	if !strings.Contains(c, "nlang_idiv(") {
		t.Errorf("expected integer division routed through the zero-guarding helper:\n%s", c)
	}
	if !strings.Contains(c, "nlang_fatal") {
		t.Errorf("expected the fatal-error helper defined in the prologue:\n%s", c)
	}
}

func TestGenerateWidensIntToFloat(t *testing.T) {
	c := generate(t, `
def half(x) {
	return x / 2.0;
}
def main() {
	println(half(5));
}
`)
	if !strings.Contains(c, "(double)(") {
		t.Errorf("expected an explicit Int->Float cast:\n%s", c)
	}
}

func TestGenerateStringConcatUsesRuntimeHelper(t *testing.T) {
	c := generate(t, `
def main() {
	store s = "a" + "b";
	println(s);
}
`)
	if !strings.Contains(c, "nlang_strcat(") {
		t.Errorf("expected a call to the string concat helper:\n%s", c)
	}
}

func TestGeneratePolymorphicPowDispatchesByType(t *testing.T) {
	c := generate(t, `
def main() {
	println(pow(2, 10));
	println(pow(2.0, 0.5));
}
`)
	if !strings.Contains(c, "nlang_ipow(") {
		t.Errorf("expected Int/Int pow to call nlang_ipow:\n%s", c)
	}
	if !strings.Contains(c, "pow(2.0, 0.5)") {
		t.Errorf("expected Float pow to call libm pow:\n%s", c)
	}
}

func TestGenerateGlobalVisibleFromNonEntryFunction(t *testing.T) {
	c := generate(t, `
store x = 42;
def foo() {
	return x;
}
def main() {
	println(foo());
}
`)
	if !strings.Contains(c, "static int64_t x;") {
		t.Errorf("expected a file-scope global declaration for x:\n%s", c)
	}
	if !strings.Contains(c, "return x;") {
		t.Errorf("expected foo to read the global directly:\n%s", c)
	}
	mainIdx := strings.Index(c, "int main(void) {")
	if mainIdx < 0 || !strings.Contains(c[mainIdx:], "x = 42LL;") {
		t.Errorf("expected main to initialize the global by assignment, not declaration:\n%s", c)
	}
}

func TestGenerateGlobalAssignedFromNonEntryFunction(t *testing.T) {
	c := generate(t, `
store counter = 0;
def bump() {
	counter = counter + 1;
}
def main() {
	bump();
	println(counter);
}
`)
	if !strings.Contains(c, "counter = (counter + 1LL);") {
		t.Errorf("expected bump to assign the global directly:\n%s", c)
	}
}

func TestGenerateForwardDeclaresEveryFunction(t *testing.T) {
	c := generate(t, `
def helper(x) {
	return x + 1;
}
def main() {
	println(helper(1));
}
`)
	if !strings.Contains(c, "int64_t helper(int64_t x);") {
		t.Errorf("expected a forward declaration for helper:\n%s", c)
	}
}
