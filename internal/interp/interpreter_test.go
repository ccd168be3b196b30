package interp

import (
	"strings"
	"testing"

	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/lexer"
	"github.com/nlangteam/nlang/internal/parser"
	"github.com/nlangteam/nlang/internal/semantic"
)

func runProgram(t *testing.T, src string, stdin string) (string, int, error) {
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
	var out strings.Builder
	interp := New(program, reg, a.EntryPoint(), &out, strings.NewReader(stdin))
	code, err := interp.Run()
	return out.String(), code, err
}

func TestInterpHelloWorld(t *testing.T) {
	out, code, err := runProgram(t, `
def main() {
	println("Hello, World!");
	return 0;
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hello, World!\n" {
		t.Errorf("got %q", out)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestInterpFactorial(t *testing.T) {
	out, _, err := runProgram(t, `
def factorial(n) {
	if (n <= 1) { return 1; }
	return n * factorial(n - 1);
}
def main() {
	println(factorial(5));
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "120\n" {
		t.Errorf("got %q, want 120", out)
	}
}

func TestInterpArithmeticPrecedence(t *testing.T) {
	out, _, err := runProgram(t, `
def main() {
	println((12 * 8) + (5 / 2));
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "98\n" {
		t.Errorf("got %q, want 98", out)
	}
}

func TestInterpWhileBreakContinue(t *testing.T) {
	out, _, err := runProgram(t, `
def main() {
	store i = 0;
	while (i < 8) {
		i = i + 1;
		if (i == 3) { continue; }
		if (i == 7) { break; }
		println(i);
	}
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "1\n2\n4\n5\n6\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpDivisionByZeroRuntimeError(t *testing.T) {
	_, code, err := runProgram(t, `
def main() {
	println(10 / 0);
}
`, "")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestInterpFloatDivisionByZeroIsInfinity(t *testing.T) {
	out, _, err := runProgram(t, `
def main() {
	println(1.0 / 0.0);
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "inf\n" {
		t.Errorf("got %q, want inf", out)
	}
}

func TestInterpStringConcatenation(t *testing.T) {
	out, _, err := runProgram(t, `
def main() {
	store greeting = "Hello, " + "nlang!";
	println(greeting);
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hello, nlang!\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpBuiltinsAbsMaxMinPow(t *testing.T) {
	out, _, err := runProgram(t, `
def main() {
	println(abs(-7));
	println(max(3, 9));
	println(min(3, 9));
	println(pow(2, 10));
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "7\n9\n3\n1024\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestInterpInputReadsLine(t *testing.T) {
	out, _, err := runProgram(t, `
def main() {
	store name = input();
	println("hi " + name);
}
`, "Ada\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi Ada\n" {
		t.Errorf("got %q", out)
	}
}

func TestInterpIntFloatWideningInCall(t *testing.T) {
	out, _, err := runProgram(t, `
def half(x) {
	return x / 2.0;
}
def main() {
	println(half(5));
}
`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "2.5\n" {
		t.Errorf("got %q, want 2.5", out)
	}
}
