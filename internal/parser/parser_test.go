package parser

import (
	"testing"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			t.Errorf("parse error: %s", e)
		}
		t.FailNow()
	}
	return program
}

func TestParseVarDecl(t *testing.T) {
	program := parseProgram(t, `store x = 5;`)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.VarDeclStatement)
	if !ok {
		t.Fatalf("expected *ast.VarDeclStatement, got %T", program.Statements[0])
	}
	if stmt.Name.Value != "x" {
		t.Errorf("got name %q, want x", stmt.Name.Value)
	}
	lit, ok := stmt.Value.(*ast.IntegerLiteral)
	if !ok || lit.Value != 5 {
		t.Errorf("got value %#v, want IntegerLiteral(5)", stmt.Value)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	program := parseProgram(t, `def add(a, b) { return a + b; }`)
	fn, ok := program.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", program.Statements[0])
	}
	if fn.Name.Value != "add" || len(fn.Params) != 2 {
		t.Fatalf("got %+v", fn)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
}

func TestOperatorPrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"1 < 2 == 3 < 4;", "((1 < 2) == (3 < 4))"},
		{"a or b and c;", "(a or (b and c))"},
		{"-a * b;", "((-a) * b)"},
		{"not a and b;", "((not a) and b)"},
	}
	for _, c := range cases {
		program := parseProgram(t, c.src)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		if got := stmt.Expression.String(); got != c.want {
			t.Errorf("%q: got %q, want %q", c.src, got, c.want)
		}
	}
}

func TestParseIfElseWhile(t *testing.T) {
	program := parseProgram(t, `
		while (i < 10) {
			if (i == 3) {
				continue;
			} else {
				println(i);
			}
		}
	`)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	ws, ok := program.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected *ast.WhileStatement, got %T", program.Statements[0])
	}
	ifs, ok := ws.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", ws.Body.Statements[0])
	}
	if ifs.Alternative == nil {
		t.Fatal("expected else branch")
	}
}

func TestParseImportAndFromImport(t *testing.T) {
	program := parseProgram(t, `
		import mathutils as mu;
		from strings { upper, lower };
	`)
	imp, ok := program.Statements[0].(*ast.ImportStatement)
	if !ok || imp.Alias == nil || imp.Alias.Value != "mu" {
		t.Fatalf("got %#v", program.Statements[0])
	}
	from, ok := program.Statements[1].(*ast.FromImportStatement)
	if !ok || len(from.Names) != 2 {
		t.Fatalf("got %#v", program.Statements[1])
	}
}

func TestParseExportAndAssignMain(t *testing.T) {
	program := parseProgram(t, `
		export def helper() { return; }
		assign_main helper;
	`)
	exp, ok := program.Statements[0].(*ast.ExportStatement)
	if !ok || !exp.Function.Exported {
		t.Fatalf("got %#v", program.Statements[0])
	}
	am, ok := program.Statements[1].(*ast.AssignMainStatement)
	if !ok || am.Name.Value != "helper" {
		t.Fatalf("got %#v", program.Statements[1])
	}
}

func TestParseErrorRecoveryReportsMultiple(t *testing.T) {
	p := New(lexer.New(`
		store x = ;
		store y = 5;
		store z = ;
	`))
	p.ParseProgram()
	if len(p.Errors()) < 2 {
		t.Fatalf("expected at least 2 errors, got %d: %v", len(p.Errors()), p.Errors())
	}
}
