package nlang

import (
	"strings"
	"testing"
)

func TestEvalCapturesProgramOutput(t *testing.T) {
	e := New()
	out, err := e.Eval(`def main() { println("hello"); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello\n" {
		t.Errorf("expected %q, got %q", "hello\n", out)
	}
}

func TestCheckReportsParseDiagnostics(t *testing.T) {
	e := New()
	_, diags := e.Check("def (")
	if diags == nil {
		t.Fatal("expected diagnostics for unparsable source")
	}
}

func TestGenerateIRAndGenerateCAgreeOnEntryPoint(t *testing.T) {
	e := New()
	src := `def main() { println("x"); }`

	ir, diags, err := e.GenerateIR(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(ir, "@main") {
		t.Errorf("expected IR to rename the entry function to @main, got:\n%s", ir)
	}

	c, diags, err := e.GenerateC(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diags != nil {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !strings.Contains(c, "main(") {
		t.Errorf("expected C output to define main(), got:\n%s", c)
	}
}

func TestBuiltinsReturnsEveryRegisteredSchema(t *testing.T) {
	e := New()
	schemas := e.Builtins()
	if len(schemas) == 0 {
		t.Fatal("expected at least one built-in")
	}
	var sawPrintln bool
	for _, s := range schemas {
		if s.Name == "println" {
			sawPrintln = true
		}
	}
	if !sawPrintln {
		t.Error("expected println in the built-in catalogue")
	}
}
