package interp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/token"
)

// hostPow delegates Float exponentiation to the host's exponential,
// per spec.md §4.4.
func hostPow(base, exp float64) float64 { return math.Pow(base, exp) }

// maxCallDepth bounds recursion so unbounded recursion fails as a clean
// RuntimeError instead of a host stack overflow (spec.md §4.4: "Recursion
// depth is bounded by the host call stack; exceeding it is a fatal runtime
// error").
const maxCallDepth = 10000

// Interpreter is a tree-walking evaluator over a semantically-checked
// *ast.Program. One Interpreter executes exactly one program end to end.
type Interpreter struct {
	global   *Environment
	funcs    map[string]*ast.FunctionDecl
	builtins *builtins.Registry

	entryPoint string
	callStack  []string
	topLevel   []ast.Statement

	stdout *bufio.Writer
	stdin  *bufio.Reader
}

// New builds an Interpreter for program, whose functions are already typed
// and whose entry point has already been resolved by semantic analysis.
func New(program *ast.Program, reg *builtins.Registry, entryPoint string, stdout io.Writer, stdin io.Reader) *Interpreter {
	interp := &Interpreter{
		global:     NewGlobalEnvironment(),
		funcs:      make(map[string]*ast.FunctionDecl),
		builtins:   reg,
		entryPoint: entryPoint,
		stdout:     bufio.NewWriter(stdout),
		stdin:      bufio.NewReader(stdin),
	}
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			interp.funcs[s.Name.Value] = s
		case *ast.ExportStatement:
			interp.funcs[s.Function.Name.Value] = s.Function
		}
	}
	interp.topLevel = program.Statements
	return interp
}

// Run executes the program's top-level statements, then invokes the entry
// function with no arguments. Returns the entry function's exit-code value
// (0 if it returns Null or nothing) and any fatal RuntimeError.
func (interp *Interpreter) Run() (int, error) {
	defer interp.stdout.Flush()

	for _, stmt := range interp.topLevel {
		switch stmt.(type) {
		case *ast.FunctionDecl, *ast.ExportStatement,
			*ast.ImportStatement, *ast.FromImportStatement, *ast.AssignMainStatement:
			continue
		default:
			if _, err := interp.evalStatement(stmt, interp.global); err != nil {
				return 2, err
			}
		}
	}

	fn, ok := interp.funcs[interp.entryPoint]
	if !ok {
		return 2, &RuntimeError{Message: fmt.Sprintf("entry function %q not found", interp.entryPoint)}
	}
	result, err := interp.callFunction(fn, nil, token.Position{Line: 1, Column: 1})
	if err != nil {
		return 2, err
	}
	if iv, ok := result.(IntValue); ok {
		return int(iv.V), nil
	}
	return 0, nil
}

func (interp *Interpreter) evalStatements(stmts []ast.Statement, env *Environment) (flow, error) {
	for _, s := range stmts {
		f, err := interp.evalStatement(s, env)
		if err != nil {
			return flow{}, err
		}
		if f.sig != sigNormal {
			return f, nil
		}
	}
	return normalFlow, nil
}

func (interp *Interpreter) evalStatement(stmt ast.Statement, env *Environment) (flow, error) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		v, err := interp.evalExpr(s.Value, env)
		if err != nil {
			return flow{}, err
		}
		env.Define(s.Name.Value, v)
		return normalFlow, nil

	case *ast.AssignStatement:
		v, err := interp.evalExpr(s.Value, env)
		if err != nil {
			return flow{}, err
		}
		env.Set(s.Name.Value, v)
		return normalFlow, nil

	case *ast.ExpressionStatement:
		if _, err := interp.evalExpr(s.Expression, env); err != nil {
			return flow{}, err
		}
		return normalFlow, nil

	case *ast.ReturnStatement:
		if s.ReturnValue == nil {
			return returningFlow(Null), nil
		}
		v, err := interp.evalExpr(s.ReturnValue, env)
		if err != nil {
			return flow{}, err
		}
		return returningFlow(v), nil

	case *ast.IfStatement:
		cond, err := interp.evalExpr(s.Condition, env)
		if err != nil {
			return flow{}, err
		}
		if Truthy(cond) {
			return interp.evalStatements(s.Consequence.Statements, env)
		}
		if s.Alternative != nil {
			return interp.evalStatements(s.Alternative.Statements, env)
		}
		return normalFlow, nil

	case *ast.WhileStatement:
		for {
			cond, err := interp.evalExpr(s.Condition, env)
			if err != nil {
				return flow{}, err
			}
			if !Truthy(cond) {
				return normalFlow, nil
			}
			f, err := interp.evalStatements(s.Body.Statements, env)
			if err != nil {
				return flow{}, err
			}
			switch f.sig {
			case sigBreaking:
				return normalFlow, nil
			case sigReturning:
				return f, nil
			case sigContinuing, sigNormal:
				// fall through to next iteration
			}
		}

	case *ast.BreakStatement:
		return breakingFlow, nil

	case *ast.ContinueStatement:
		return continuingFlow, nil

	case *ast.FunctionDecl, *ast.ExportStatement,
		*ast.ImportStatement, *ast.FromImportStatement, *ast.AssignMainStatement:
		return normalFlow, nil

	default:
		return normalFlow, nil
	}
}

func (interp *Interpreter) evalExpr(expr ast.Expression, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return IntValue{V: e.Value}, nil
	case *ast.FloatLiteral:
		return FloatValue{V: e.Value}, nil
	case *ast.StringLiteral:
		return StringValue{V: e.Value}, nil
	case *ast.BooleanLiteral:
		return BoolValue{V: e.Value}, nil
	case *ast.NullLiteral:
		return Null, nil
	case *ast.GroupedExpr:
		return interp.evalExpr(e.Inner, env)
	case *ast.Identifier:
		v, ok := env.Get(e.Value)
		if !ok {
			return nil, &RuntimeError{Pos: e.Pos(), Message: fmt.Sprintf("undefined identifier %q", e.Value)}
		}
		return v, nil
	case *ast.UnaryExpr:
		return interp.evalUnary(e, env)
	case *ast.BinaryExpr:
		return interp.evalBinary(e, env)
	case *ast.CallExpr:
		return interp.evalCall(e, env)
	default:
		return nil, &RuntimeError{Pos: expr.Pos(), Message: "unsupported expression node"}
	}
}

func (interp *Interpreter) evalUnary(e *ast.UnaryExpr, env *Environment) (Value, error) {
	operand, err := interp.evalExpr(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		switch v := operand.(type) {
		case IntValue:
			return IntValue{V: -v.V}, nil
		case FloatValue:
			return FloatValue{V: -v.V}, nil
		}
	case "not":
		return BoolValue{V: !Truthy(operand)}, nil
	}
	return nil, &RuntimeError{Pos: e.Pos(), Message: fmt.Sprintf("invalid operand for unary %s", e.Operator)}
}

func (interp *Interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, error) {
	if e.Operator == "and" {
		left, err := interp.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !Truthy(left) {
			return BoolValue{V: false}, nil
		}
		right, err := interp.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return BoolValue{V: Truthy(right)}, nil
	}
	if e.Operator == "or" {
		left, err := interp.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		if Truthy(left) {
			return BoolValue{V: true}, nil
		}
		right, err := interp.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return BoolValue{V: Truthy(right)}, nil
	}

	left, err := interp.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := interp.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}
	return interp.applyBinaryOp(e, e.Operator, left, right)
}

func (interp *Interpreter) applyBinaryOp(node ast.Node, op string, left, right Value) (Value, error) {
	switch op {
	case "+":
		if ls, ok := left.(StringValue); ok {
			if rs, ok := right.(StringValue); ok {
				return StringValue{V: ls.V + rs.V}, nil
			}
		}
		return interp.numericBinaryOp(node, op, left, right)
	case "-", "*", "/":
		return interp.numericBinaryOp(node, op, left, right)
	case "%":
		li, lok := left.(IntValue)
		ri, rok := right.(IntValue)
		if !lok || !rok {
			return nil, &RuntimeError{Pos: node.Pos(), Message: "% requires Int operands"}
		}
		if ri.V == 0 {
			return nil, &RuntimeError{Pos: node.Pos(), Message: "modulo by zero"}
		}
		return IntValue{V: li.V % ri.V}, nil
	case "==":
		return BoolValue{V: valuesEqual(left, right)}, nil
	case "!=":
		return BoolValue{V: !valuesEqual(left, right)}, nil
	case "<", "<=", ">", ">=":
		return interp.compare(node, op, left, right)
	}
	return nil, &RuntimeError{Pos: node.Pos(), Message: fmt.Sprintf("unsupported operator %s", op)}
}

// numericBinaryOp implements +, -, *, / with Int/Float widening. Integer
// division truncates toward zero (Go's native int64 division); division by
// zero on Int is a runtime error, on Float yields IEEE infinity/NaN.
func (interp *Interpreter) numericBinaryOp(node ast.Node, op string, left, right Value) (Value, error) {
	li, lIsInt := left.(IntValue)
	ri, rIsInt := right.(IntValue)
	if lIsInt && rIsInt {
		switch op {
		case "+":
			return IntValue{V: li.V + ri.V}, nil
		case "-":
			return IntValue{V: li.V - ri.V}, nil
		case "*":
			return IntValue{V: li.V * ri.V}, nil
		case "/":
			if ri.V == 0 {
				return nil, &RuntimeError{Pos: node.Pos(), Message: "division by zero"}
			}
			return IntValue{V: li.V / ri.V}, nil
		}
	}

	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, &RuntimeError{Pos: node.Pos(), Message: fmt.Sprintf("operator %s requires numeric operands", op)}
	}
	switch op {
	case "+":
		return FloatValue{V: lf + rf}, nil
	case "-":
		return FloatValue{V: lf - rf}, nil
	case "*":
		return FloatValue{V: lf * rf}, nil
	case "/":
		return FloatValue{V: lf / rf}, nil
	}
	return nil, &RuntimeError{Pos: node.Pos(), Message: fmt.Sprintf("unsupported operator %s", op)}
}

func (interp *Interpreter) compare(node ast.Node, op string, left, right Value) (Value, error) {
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, &RuntimeError{Pos: node.Pos(), Message: fmt.Sprintf("operator %s requires numeric operands", op)}
	}
	var result bool
	switch op {
	case "<":
		result = lf < rf
	case "<=":
		result = lf <= rf
	case ">":
		result = lf > rf
	case ">=":
		result = lf >= rf
	}
	return BoolValue{V: result}, nil
}

func asFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntValue:
		return float64(val.V), true
	case FloatValue:
		return val.V, true
	default:
		return 0, false
	}
}

func valuesEqual(left, right Value) bool {
	if lf, lok := asFloat(left); lok {
		if rf, rok := asFloat(right); rok {
			return lf == rf
		}
	}
	switch l := left.(type) {
	case StringValue:
		r, ok := right.(StringValue)
		return ok && l.V == r.V
	case BoolValue:
		r, ok := right.(BoolValue)
		return ok && l.V == r.V
	case NullValue:
		_, ok := right.(NullValue)
		return ok
	}
	return false
}

func (interp *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, error) {
	args := make([]Value, len(e.Args))
	for i, argExpr := range e.Args {
		v, err := interp.evalExpr(argExpr, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	name := e.Callee.Value
	if schema := interp.builtins.Lookup(name); schema != nil {
		return interp.callBuiltin(schema, args, e.Pos())
	}
	fn, ok := interp.funcs[name]
	if !ok {
		return nil, &RuntimeError{Pos: e.Pos(), Message: fmt.Sprintf("call to non-existent function %q", name)}
	}
	return interp.callFunction(fn, args, e.Pos())
}

func (interp *Interpreter) callFunction(fn *ast.FunctionDecl, args []Value, pos token.Position) (Value, error) {
	if len(interp.callStack) >= maxCallDepth {
		return nil, &RuntimeError{Pos: pos, Message: fmt.Sprintf("maximum recursion depth exceeded (%d)", maxCallDepth)}
	}
	interp.callStack = append(interp.callStack, fn.Name.Value)
	defer func() { interp.callStack = interp.callStack[:len(interp.callStack)-1] }()

	callEnv := NewCallEnvironment(interp.global)
	for i, p := range fn.Params {
		if i < len(args) {
			callEnv.Define(p.Name.Value, args[i])
		}
	}

	f, err := interp.evalStatements(fn.Body.Statements, callEnv)
	if err != nil {
		return nil, err
	}
	if f.sig == sigReturning {
		return f.value, nil
	}
	return Null, nil
}

func (interp *Interpreter) callBuiltin(schema *builtins.Schema, args []Value, pos token.Position) (Value, error) {
	switch schema.Tag {
	case builtins.TagPrint:
		fmt.Fprint(interp.stdout, args[0].String())
		return Null, nil
	case builtins.TagPrintln:
		fmt.Fprintln(interp.stdout, args[0].String())
		return Null, nil
	case builtins.TagInput:
		line, err := interp.stdin.ReadString('\n')
		if err != nil && line == "" {
			return StringValue{V: ""}, nil
		}
		return StringValue{V: trimNewline(line)}, nil
	case builtins.TagLen:
		s, ok := args[0].(StringValue)
		if !ok {
			return nil, &RuntimeError{Pos: pos, Message: "len() requires a String argument"}
		}
		return IntValue{V: int64(len(s.V))}, nil
	case builtins.TagStr:
		return StringValue{V: args[0].String()}, nil
	case builtins.TagInt:
		s, ok := args[0].(StringValue)
		if !ok {
			return nil, &RuntimeError{Pos: pos, Message: "int() requires a String argument"}
		}
		n, err := strconv.ParseInt(s.V, 10, 64)
		if err != nil {
			return nil, &RuntimeError{Pos: pos, Message: fmt.Sprintf("int(): invalid decimal integer %q", s.V)}
		}
		return IntValue{V: n}, nil
	case builtins.TagFloat:
		s, ok := args[0].(StringValue)
		if !ok {
			return nil, &RuntimeError{Pos: pos, Message: "float() requires a String argument"}
		}
		f, err := strconv.ParseFloat(s.V, 64)
		if err != nil {
			return nil, &RuntimeError{Pos: pos, Message: fmt.Sprintf("float(): invalid decimal number %q", s.V)}
		}
		return FloatValue{V: f}, nil
	case builtins.TagBool:
		return BoolValue{V: Truthy(args[0])}, nil
	case builtins.TagAbs:
		return interp.builtinAbs(args[0], pos)
	case builtins.TagMax:
		return interp.builtinMinMax(args[0], args[1], pos, false)
	case builtins.TagMin:
		return interp.builtinMinMax(args[0], args[1], pos, true)
	case builtins.TagPow:
		return interp.builtinPow(args[0], args[1], pos)
	default:
		return nil, &RuntimeError{Pos: pos, Message: fmt.Sprintf("non-existent built-in dispatch %q", schema.Tag)}
	}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
	}
	if n := len(s); n > 0 && s[n-1] == '\r' {
		s = s[:n-1]
	}
	return s
}

func (interp *Interpreter) builtinAbs(v Value, pos token.Position) (Value, error) {
	switch x := v.(type) {
	case IntValue:
		if x.V < 0 {
			return IntValue{V: -x.V}, nil
		}
		return x, nil
	case FloatValue:
		if x.V < 0 {
			return FloatValue{V: -x.V}, nil
		}
		return x, nil
	default:
		return nil, &RuntimeError{Pos: pos, Message: "abs() requires a numeric argument"}
	}
}

func (interp *Interpreter) builtinMinMax(a, b Value, pos token.Position, wantMin bool) (Value, error) {
	ai, aIsInt := a.(IntValue)
	bi, bIsInt := b.(IntValue)
	if aIsInt && bIsInt {
		if wantMin == (ai.V < bi.V) {
			return ai, nil
		}
		return bi, nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, &RuntimeError{Pos: pos, Message: "max()/min() require numeric arguments"}
	}
	if wantMin == (af < bf) {
		return FloatValue{V: af}, nil
	}
	return FloatValue{V: bf}, nil
}

// builtinPow: Int base with Int exponent uses repeated multiplication (no
// exponent widening); any Float operand uses the host's exponential,
// per spec.md §4.4.
func (interp *Interpreter) builtinPow(base, exp Value, pos token.Position) (Value, error) {
	bi, bIsInt := base.(IntValue)
	ei, eIsInt := exp.(IntValue)
	if bIsInt && eIsInt {
		if ei.V < 0 {
			return nil, &RuntimeError{Pos: pos, Message: "pow(): negative exponent requires a Float base"}
		}
		result := int64(1)
		for n := ei.V; n > 0; n-- {
			result *= bi.V
		}
		return IntValue{V: result}, nil
	}
	bf, bok := asFloat(base)
	ef, eok := asFloat(exp)
	if !bok || !eok {
		return nil, &RuntimeError{Pos: pos, Message: "pow() requires numeric arguments"}
	}
	return FloatValue{V: hostPow(bf, ef)}, nil
}
