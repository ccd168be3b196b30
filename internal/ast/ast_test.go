package ast

import (
	"testing"

	"github.com/nlangteam/nlang/internal/token"
)

func TestVarDeclString(t *testing.T) {
	stmt := &VarDeclStatement{
		Token: token.Token{Type: token.STORE, Lexeme: "store"},
		Name:  &Identifier{Token: token.Token{Lexeme: "x"}, Value: "x"},
		Value: &IntegerLiteral{Token: token.Token{Lexeme: "5"}, Value: 5},
	}
	want := "store x = 5;"
	if got := stmt.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIfStatementString(t *testing.T) {
	stmt := &IfStatement{
		Token:     token.Token{Lexeme: "if"},
		Condition: &BooleanLiteral{Token: token.Token{Lexeme: "true"}, Value: true},
		Consequence: &BlockStatement{
			Token: token.Token{Lexeme: "{"},
			Statements: []Statement{
				&BreakStatement{Token: token.Token{Lexeme: "break"}},
			},
		},
	}
	want := "if (true) { break;}"
	if got := stmt.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallExprString(t *testing.T) {
	call := &CallExpr{
		Callee: &Identifier{Value: "max"},
		Args: []Expression{
			&IntegerLiteral{Token: token.Token{Lexeme: "1"}, Value: 1},
			&IntegerLiteral{Token: token.Token{Lexeme: "2"}, Value: 2},
		},
	}
	want := "max(1, 2)"
	if got := call.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProgramPosFallsBackWhenEmpty(t *testing.T) {
	p := &Program{}
	pos := p.Pos()
	if pos.Line != 1 || pos.Column != 1 {
		t.Errorf("got %v, want 1:1", pos)
	}
}
