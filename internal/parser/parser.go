// Package parser implements nlang's recursive-descent parser with a
// Pratt-style precedence climb for expressions.
//
// Error recovery: on a syntax error the parser records a diagnostic,
// advances to the next ';', '}' or statement-starting keyword, and
// continues — so a single ParseProgram call may surface several errors.
// The skip does not track brace nesting: it stops at the first such token,
// whichever block that token belongs to.
// A program with any parse error yields no usable AST to later stages;
// callers must check Errors() before using the returned *ast.Program.
package parser

import (
	"fmt"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/lexer"
	"github.com/nlangteam/nlang/internal/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	LOGIC_OR
	LOGIC_AND
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	PREFIX
	CALL
)

var precedences = map[token.Type]int{
	token.OR:      LOGIC_OR,
	token.AND:     LOGIC_AND,
	token.EQ:      EQUALITY,
	token.NOT_EQ:  EQUALITY,
	token.LT:      COMPARISON,
	token.LT_EQ:   COMPARISON,
	token.GT:      COMPARISON,
	token.GT_EQ:   COMPARISON,
	token.PLUS:    ADDITIVE,
	token.MINUS:   ADDITIVE,
	token.STAR:    MULTIPLICATIVE,
	token.SLASH:   MULTIPLICATIVE,
	token.PERCENT: MULTIPLICATIVE,
	token.LPAREN:  CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Error is a single parse diagnostic.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token

	errors []*Error

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{}
	p.infixParseFns = map[token.Type]infixParseFn{}

	p.registerPrefix(token.IDENT, p.parseIdentifierOrCall)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.NOT, p.parseUnaryExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	for _, t := range []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR,
	} {
		p.registerInfix(t, p.parseBinaryExpression)
	}

	// Prime cur/peek.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

// Errors returns the diagnostics accumulated during parsing.
func (p *Parser) Errors() []*Error { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peek.Pos, "expected next token to be %s, got %s instead", t, p.peek.Type)
	return false
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func peekPrecedence(p *Parser) int {
	if prec, ok := precedences[p.peek.Type]; ok {
		return prec
	}
	return LOWEST
}

func curPrecedence(p *Parser) int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return LOWEST
}

// synchronize advances past tokens until a statement boundary: ';', '}', a
// statement-starting keyword, or EOF. It leaves cur positioned so that the
// next ParseProgram loop iteration starts cleanly.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.nextToken()
			return
		}
		if p.curIs(token.RBRACE) {
			return
		}
		switch p.peek.Type {
		case token.STORE, token.IF, token.WHILE, token.DEF, token.RETURN,
			token.BREAK, token.CONTINUE, token.IMPORT, token.FROM,
			token.EXPORT, token.ASSIGN_MAIN:
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// ParseProgram parses an entire source file into a Program AST.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
			continue
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.STORE:
		return p.parseVarDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		return &ast.BreakStatement{Token: p.cur}
	case token.CONTINUE:
		return &ast.ContinueStatement{Token: p.cur}
	case token.DEF:
		return p.parseFunctionDecl()
	case token.EXPORT:
		return p.parseExport()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseFromImport()
	case token.ASSIGN_MAIN:
		return p.parseAssignMain()
	case token.IDENT:
		if p.peek.Type == token.ASSIGN {
			return p.parseAssign()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVarDecl() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.VarDeclStatement{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseAssign() ast.Statement {
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	tok := p.cur
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.AssignStatement{Token: tok, Name: name, Value: value}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

func (p *Parser) parseReturn() ast.Statement {
	tok := p.cur
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
		return &ast.ReturnStatement{Token: tok}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.ReturnStatement{Token: tok, ReturnValue: value}
}

func (p *Parser) parseBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur}
	if !p.curIs(token.LBRACE) {
		p.errorf(p.cur.Pos, "expected '{', got %s instead", p.cur.Type)
		return nil
	}
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
			p.nextToken()
		} else {
			p.synchronize()
		}
	}
	if !p.curIs(token.RBRACE) {
		p.errorf(p.cur.Pos, "expected '}' to close block, got %s instead", p.cur.Type)
		return nil
	}
	return block
}

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	consequence := p.parseBlock()
	if consequence == nil {
		return nil
	}
	stmt := &ast.IfStatement{Token: tok, Condition: cond, Consequence: consequence}
	if p.peekIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		alt := p.parseBlock()
		if alt == nil {
			return nil
		}
		stmt.Alternative = alt
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	tok := p.cur
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	var params []*ast.Param
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		params = append(params, &ast.Param{Name: &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}})
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			params = append(params, &ast.Param{Name: &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}})
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.FunctionDecl{Token: tok, Name: name, Params: params, Body: body}
}

func (p *Parser) parseExport() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.DEF) {
		return nil
	}
	fn := p.parseFunctionDecl()
	if fn == nil {
		return nil
	}
	fn.Exported = true
	return &ast.ExportStatement{Token: tok, Function: fn}
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	module := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	stmt := &ast.ImportStatement{Token: tok, Module: module}
	if p.peekIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Alias = &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseFromImport() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	module := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	var names []*ast.Identifier
	if !p.peekIs(token.RBRACE) {
		p.nextToken()
		names = append(names, &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme})
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			names = append(names, &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme})
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.FromImportStatement{Token: tok, Module: module, Names: names}
}

func (p *Parser) parseAssignMain() ast.Statement {
	tok := p.cur
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.AssignMainStatement{Token: tok, Name: name}
}

// ---- expressions ----

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.cur.Type]
	if prefix == nil {
		p.errorf(p.cur.Pos, "no prefix parse function for %s found", p.cur.Type)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(token.SEMICOLON) && precedence < peekPrecedence(p) {
		infix := p.infixParseFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifierOrCall() ast.Expression {
	name := &ast.Identifier{Token: p.cur, Value: p.cur.Lexeme}
	if !p.peekIs(token.LPAREN) {
		return name
	}
	p.nextToken() // consume '('
	call := &ast.CallExpr{Token: p.cur, Callee: name}
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	call.Args = append(call.Args, arg)
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.cur
	var value int64
	for _, ch := range tok.Lexeme {
		value = value*10 + int64(ch-'0')
	}
	return &ast.IntegerLiteral{Token: tok, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	var value float64
	if _, err := fmt.Sscanf(tok.Lexeme, "%g", &value); err != nil {
		p.errorf(tok.Pos, "malformed float literal %q", tok.Lexeme)
		return nil
	}
	return &ast.FloatLiteral{Token: tok, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.cur, Value: p.cur.Lexeme}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.cur, Value: p.cur.Type == token.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.cur}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpr{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.cur
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if inner == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.GroupedExpr{Token: tok, Inner: inner}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	op := tok.Lexeme
	precedence := curPrecedence(p)
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpr{Token: tok, Left: left, Operator: op, Right: right}
}
