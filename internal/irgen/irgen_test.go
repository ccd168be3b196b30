package irgen

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
	ir, err := Generate(program, reg, a.EntryPoint())
	if err != nil {
		t.Fatalf("unexpected irgen error: %v", err)
	}
	return ir
}

func TestGenerateRenamesEntryToMain(t *testing.T) {
	ir := generate(t, `
def start() {
	println("hi");
}
assign_main start;
`)
	if !strings.Contains(ir, "define i64 @main()") {
		t.Errorf("expected entry function renamed to @main, got:\n%s", ir)
	}
	if strings.Contains(ir, "@start(") {
		t.Errorf("source name %q should not appear as a function symbol:\n%s", "start", ir)
	}
}

func TestGenerateEveryBlockHasOneTerminator(t *testing.T) {
	ir := generate(t, `
def main() {
	store i = 0;
	while (i < 3) {
		if (i == 1) { continue; }
		println(i);
		i = i + 1;
	}
}
`)
	lines := strings.Split(ir, "\n")
	terminators := 0
	labels := 0
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if strings.HasSuffix(trimmed, ":") && !strings.HasPrefix(trimmed, ";") {
			labels++
		}
		if strings.HasPrefix(trimmed, "ret ") || strings.HasPrefix(trimmed, "br ") || trimmed == "unreachable" {
			terminators++
		}
	}
	if labels == 0 {
		t.Fatal("expected at least one labeled basic block")
	}
	if terminators < labels {
		t.Errorf("expected at least one terminator per label (%d labels, %d terminators):\n%s", labels, terminators, ir)
	}
}

func TestGenerateIntDivisionGuardsZero(t *testing.T) {
	ir := generate(t, `
def main() {
	println(10 / 2);
}
`)
	if !strings.Contains(ir, "nlang_fatal") {
		t.Errorf("expected a fatal-error guard around integer division:\n%s", ir)
	}
	if !strings.Contains(ir, "sdiv i64") {
		t.Errorf("expected an sdiv instruction:\n%s", ir)
	}
}

func TestGenerateWidensIntToFloat(t *testing.T) {
	ir := generate(t, `
def half(x) {
	return x / 2.0;
}
def main() {
	println(half(5));
}
`)
	if !strings.Contains(ir, "sitofp") {
		t.Errorf("expected an explicit sitofp conversion:\n%s", ir)
	}
}

func TestGenerateStringConcatUsesRuntimeHelper(t *testing.T) {
	ir := generate(t, `
def main() {
	store s = "a" + "b";
	println(s);
}
`)
	if !strings.Contains(ir, "call i8* @nlang_strcat") {
		t.Errorf("expected a call to the string concat helper:\n%s", ir)
	}
}

func TestGenerateGlobalVisibleFromNonEntryFunction(t *testing.T) {
	ir := generate(t, `
store x = 42;
def foo() {
	return x;
}
def main() {
	println(foo());
}
`)
	if !strings.Contains(ir, "@g.x = global i64 0") {
		t.Errorf("expected a module-level global for x:\n%s", ir)
	}
	if strings.Contains(ir, "%local.x") {
		t.Errorf("a top-level store must not become a local alloca:\n%s", ir)
	}
	if !strings.Contains(ir, "load i64, i64* @g.x") {
		t.Errorf("expected foo to load the global directly, not a hardcoded literal:\n%s", ir)
	}
}

func TestGeneratePolymorphicPowDispatchesByType(t *testing.T) {
	ir := generate(t, `
def main() {
	println(pow(2, 10));
	println(pow(2.0, 0.5));
}
`)
	if !strings.Contains(ir, "call i64 @nlang_ipow") {
		t.Errorf("expected Int/Int pow to call nlang_ipow:\n%s", ir)
	}
	if !strings.Contains(ir, "call double @pow") {
		t.Errorf("expected Float pow to call libm pow:\n%s", ir)
	}
}
