package ast

import (
	"bytes"
	"strings"

	"github.com/nlangteam/nlang/internal/token"
	"github.com/nlangteam/nlang/internal/types"
)

// VarDeclStatement is `store NAME = EXPR;`.
type VarDeclStatement struct {
	Token token.Token // 'store'
	Name  *Identifier
	Value Expression
}

func (s *VarDeclStatement) statementNode()       {}
func (s *VarDeclStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *VarDeclStatement) Pos() token.Position  { return s.Token.Pos }
func (s *VarDeclStatement) String() string {
	return "store " + s.Name.String() + " = " + s.Value.String() + ";"
}

// AssignStatement is `NAME = EXPR;`.
type AssignStatement struct {
	Token token.Token // the target identifier token
	Name  *Identifier
	Value Expression
}

func (s *AssignStatement) statementNode()       {}
func (s *AssignStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *AssignStatement) Pos() token.Position  { return s.Token.Pos }
func (s *AssignStatement) String() string {
	return s.Name.String() + " = " + s.Value.String() + ";"
}

// ExpressionStatement wraps an expression evaluated for its side effects.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *ExpressionStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ExpressionStatement) String() string       { return s.Expression.String() + ";" }

// ReturnStatement is `return EXPR?;`.
type ReturnStatement struct {
	Token       token.Token
	ReturnValue Expression // nil for a bare `return;`
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *ReturnStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ReturnStatement) String() string {
	if s.ReturnValue == nil {
		return "return;"
	}
	return "return " + s.ReturnValue.String() + ";"
}

// IfStatement is `if (COND) BLOCK (else BLOCK)?`.
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil when there is no else clause
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *IfStatement) Pos() token.Position  { return s.Token.Pos }
func (s *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(s.Condition.String())
	out.WriteString(") ")
	out.WriteString(s.Consequence.String())
	if s.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(s.Alternative.String())
	}
	return out.String()
}

// WhileStatement is `while (COND) BLOCK`.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *WhileStatement) Pos() token.Position  { return s.Token.Pos }
func (s *WhileStatement) String() string {
	return "while (" + s.Condition.String() + ") " + s.Body.String()
}

// BreakStatement is `break;`.
type BreakStatement struct{ Token token.Token }

func (s *BreakStatement) statementNode()       {}
func (s *BreakStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *BreakStatement) Pos() token.Position  { return s.Token.Pos }
func (s *BreakStatement) String() string       { return "break;" }

// ContinueStatement is `continue;`.
type ContinueStatement struct{ Token token.Token }

func (s *ContinueStatement) statementNode()       {}
func (s *ContinueStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *ContinueStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ContinueStatement) String() string       { return "continue;" }

// Param is one `def` parameter: a name with no declared type. Semantic
// analysis hoists it as Unknown and fixes its type from its first typed use
// inside the function body; call-site argument types are not used.
type Param struct {
	Name *Identifier
}

// FunctionDecl is `def NAME(PARAMS) BLOCK`.
type FunctionDecl struct {
	Token      token.Token // 'def'
	Name       *Identifier
	Params     []*Param
	Body       *BlockStatement
	Exported   bool // set by a preceding `export` marker
	ParamTypes []types.Type // filled in by the semantic analyzer
	ReturnType types.Type   // filled in by the semantic analyzer
}

func (s *FunctionDecl) statementNode()       {}
func (s *FunctionDecl) TokenLiteral() string { return s.Token.Lexeme }
func (s *FunctionDecl) Pos() token.Position  { return s.Token.Pos }
func (s *FunctionDecl) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Name.Value
	}
	return "def " + s.Name.Value + "(" + strings.Join(params, ", ") + ") " + s.Body.String()
}

// ImportStatement is `import MODULE (as ALIAS)?;`.
type ImportStatement struct {
	Token  token.Token
	Module *Identifier
	Alias  *Identifier // nil when there is no `as` clause
}

func (s *ImportStatement) statementNode()       {}
func (s *ImportStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *ImportStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ImportStatement) String() string {
	out := "import " + s.Module.Value
	if s.Alias != nil {
		out += " as " + s.Alias.Value
	}
	return out + ";"
}

// FromImportStatement is `from MODULE { NAMES };`, a selective import.
type FromImportStatement struct {
	Token   token.Token
	Module  *Identifier
	Names   []*Identifier
}

func (s *FromImportStatement) statementNode()       {}
func (s *FromImportStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *FromImportStatement) Pos() token.Position  { return s.Token.Pos }
func (s *FromImportStatement) String() string {
	names := make([]string, len(s.Names))
	for i, n := range s.Names {
		names[i] = n.Value
	}
	return "from " + s.Module.Value + " { " + strings.Join(names, ", ") + " };"
}

// ExportStatement marks the following function declaration as exported.
type ExportStatement struct {
	Token    token.Token
	Function *FunctionDecl
}

func (s *ExportStatement) statementNode()       {}
func (s *ExportStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *ExportStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ExportStatement) String() string       { return "export " + s.Function.String() }

// AssignMainStatement is `assign_main NAME;`, designating the entry function.
type AssignMainStatement struct {
	Token token.Token
	Name  *Identifier
}

func (s *AssignMainStatement) statementNode()       {}
func (s *AssignMainStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *AssignMainStatement) Pos() token.Position  { return s.Token.Pos }
func (s *AssignMainStatement) String() string       { return "assign_main " + s.Name.Value + ";" }
