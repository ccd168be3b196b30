package cgen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/types"
)

// emitter lowers one function body (or the synthesized `main`) to C
// statement text. Unlike internal/irgen, C's native `if`/`while` and
// `break`/`continue` need no explicit basic blocks or label stack — they
// map one-to-one onto the host language's own control-flow constructs,
// per spec.md §4.6 ("control flow and operators map one-to-one to C
// equivalents").
type emitter struct {
	reg        *builtins.Registry
	buf        bytes.Buffer
	indent     int
	returnType types.Type

	// locals tracks each declared variable's/parameter's static type: the
	// analyzer resolves assignability through the symbol table rather than
	// by writing back onto the Identifier node, so the emitter keeps its
	// own parallel record (mirroring internal/irgen's funcEmitter.locals)
	// to know what to coerce an assigned value into.
	locals map[string]types.Type

	// globals is the set of module-level `store` declarations (spec.md §3),
	// shared read-only across every function's emitter instance — unlike
	// locals, it is never re-created per function, since a global is
	// visible from all of them.
	globals map[string]types.Type
}

func newEmitter(reg *builtins.Registry, globals map[string]types.Type) *emitter {
	return &emitter{reg: reg, indent: 1, locals: make(map[string]types.Type), globals: globals}
}

func (em *emitter) writeLine(format string, args ...any) {
	fmt.Fprint(&em.buf, strings.Repeat("    ", em.indent))
	fmt.Fprintf(&em.buf, format, args...)
	em.buf.WriteByte('\n')
}

func (em *emitter) emitFunctionDef(fn *ast.FunctionDecl) string {
	body := newEmitter(em.reg, em.globals)
	body.returnType = fn.ReturnType
	for i, p := range fn.Params {
		body.locals[p.Name.Value] = fn.ParamTypes[i]
	}
	body.emitStatements(fn.Body.Statements)

	var out bytes.Buffer
	out.WriteString(signature(fn))
	out.WriteString(" {\n")
	out.Write(body.buf.Bytes())
	out.WriteString("}\n")
	return out.String()
}

func (em *emitter) emitStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		em.emitStatement(s)
	}
}

func (em *emitter) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		valTy := s.Value.GetType()
		val := em.emitExpr(s.Value)
		em.locals[s.Name.Value] = valTy
		em.writeLine("%s %s = %s;", cType(valTy), s.Name.Value, val)
	case *ast.AssignStatement:
		declTy, ok := em.locals[s.Name.Value]
		if !ok {
			// Not a local/parameter: must be a module-level global
			// (semantic analysis rejects assignment to any other name).
			declTy = em.globals[s.Name.Value]
		}
		val := em.coerce(em.emitExpr(s.Value), s.Value.GetType(), declTy)
		em.writeLine("%s = %s;", s.Name.Value, val)
	case *ast.ExpressionStatement:
		em.writeLine("%s;", em.emitExpr(s.Expression))
	case *ast.ReturnStatement:
		if s.ReturnValue == nil {
			em.writeLine("return;")
			return
		}
		em.writeLine("return %s;", em.coerce(em.emitExpr(s.ReturnValue), s.ReturnValue.GetType(), em.returnType))
	case *ast.IfStatement:
		em.emitIf(s)
	case *ast.WhileStatement:
		em.emitWhile(s)
	case *ast.BreakStatement:
		em.writeLine("break;")
	case *ast.ContinueStatement:
		em.writeLine("continue;")
	}
}

func (em *emitter) emitIf(s *ast.IfStatement) {
	em.writeLine("if (%s) {", em.emitExpr(s.Condition))
	em.indent++
	em.emitStatements(s.Consequence.Statements)
	em.indent--
	if s.Alternative != nil {
		em.writeLine("} else {")
		em.indent++
		em.emitStatements(s.Alternative.Statements)
		em.indent--
	}
	em.writeLine("}")
}

// emitGlobalInit runs one top-level statement as part of `main`'s bootstrap
// (matching internal/interp's Run semantics, which evaluates top-level
// statements against the global environment before calling the entry
// function). Unlike emitStatement's VarDeclStatement case, a top-level
// `store` assigns the file-scope global emitGlobalDecls already declared
// for it rather than introducing a new C local.
func (em *emitter) emitGlobalInit(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		declTy := em.globals[s.Name.Value]
		val := em.coerce(em.emitExpr(s.Value), s.Value.GetType(), declTy)
		em.writeLine("%s = %s;", s.Name.Value, val)
	default:
		em.emitStatement(stmt)
	}
}

func (em *emitter) emitWhile(s *ast.WhileStatement) {
	em.writeLine("while (%s) {", em.emitExpr(s.Condition))
	em.indent++
	em.emitStatements(s.Body.Statements)
	em.indent--
	em.writeLine("}")
}

// coerce inserts the explicit cast spec.md §4.6 requires whenever a value
// of static type `from` flows into a context typed `to` (the sole
// implicit conversion being Int -> Float).
func (em *emitter) coerce(val string, from, to types.Type) string {
	if from.Kind == types.Int && to.Kind == types.Float {
		return fmt.Sprintf("(double)(%s)", val)
	}
	return val
}

func (em *emitter) emitExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return fmt.Sprintf("%dLL", e.Value)
	case *ast.FloatLiteral:
		return floatLiteral(e.Value)
	case *ast.StringLiteral:
		return strconv.Quote(e.Value)
	case *ast.BooleanLiteral:
		if e.Value {
			return "1"
		}
		return "0"
	case *ast.NullLiteral:
		return "0"
	case *ast.Identifier:
		// The bare source name resolves correctly under real C scoping
		// whether e names a local/parameter or a module-level global
		// (emitGlobalDecls declares every global at file scope under this
		// same name, and a local of the same name shadows it exactly the
		// way nlang's own scope rules require).
		return e.Value
	case *ast.GroupedExpr:
		return "(" + em.emitExpr(e.Inner) + ")"
	case *ast.UnaryExpr:
		return em.emitUnary(e)
	case *ast.BinaryExpr:
		return em.emitBinary(e)
	case *ast.CallExpr:
		return em.emitCall(e)
	}
	return "0"
}

func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (em *emitter) emitUnary(e *ast.UnaryExpr) string {
	operand := em.emitExpr(e.Operand)
	switch e.Operator {
	case "-":
		return "(-(" + operand + "))"
	case "not":
		return "(!(" + operand + "))"
	}
	return operand
}

func (em *emitter) emitBinary(e *ast.BinaryExpr) string {
	leftTy, rightTy := e.Left.GetType(), e.Right.GetType()
	left := em.emitExpr(e.Left)
	right := em.emitExpr(e.Right)

	if leftTy.Kind == types.String || rightTy.Kind == types.String {
		switch e.Operator {
		case "+":
			return fmt.Sprintf("nlang_strcat(%s, %s)", left, right)
		case "==":
			return fmt.Sprintf("nlang_streq(%s, %s)", left, right)
		case "!=":
			return fmt.Sprintf("(!nlang_streq(%s, %s))", left, right)
		}
	}

	// Widen the narrower numeric operand with an explicit cast.
	if leftTy.Kind == types.Int && rightTy.Kind == types.Float {
		left = "(double)(" + left + ")"
	} else if rightTy.Kind == types.Int && leftTy.Kind == types.Float {
		right = "(double)(" + right + ")"
	}

	isInt := leftTy.Kind == types.Int && rightTy.Kind == types.Int

	switch e.Operator {
	case "and":
		return fmt.Sprintf("(%s && %s)", left, right)
	case "or":
		return fmt.Sprintf("(%s || %s)", left, right)
	case "/":
		if isInt {
			return fmt.Sprintf("nlang_idiv(%s, %s)", left, right)
		}
		return fmt.Sprintf("(%s / %s)", left, right)
	case "%":
		return fmt.Sprintf("nlang_imod(%s, %s)", left, right)
	case "+", "-", "*", "==", "!=", "<", "<=", ">", ">=":
		return fmt.Sprintf("(%s %s %s)", left, e.Operator, right)
	}
	return "0"
}

func (em *emitter) emitCall(e *ast.CallExpr) string {
	name := e.Callee.Value
	if schema := em.reg.Lookup(name); schema != nil {
		return em.emitBuiltinCall(e, schema)
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = em.emitExpr(a)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}

// stringify renders val (of static type t) as a `const char *`, the same
// per-type conversion print/println/str() share.
func (em *emitter) stringify(val string, t types.Type) string {
	switch t.Kind {
	case types.String:
		return val
	case types.Int:
		return fmt.Sprintf("nlang_int_to_str(%s)", val)
	case types.Float:
		return fmt.Sprintf("nlang_float_to_str(%s)", val)
	case types.Bool:
		return fmt.Sprintf("nlang_bool_to_str(%s)", val)
	default:
		return `"null"`
	}
}

func (em *emitter) emitBuiltinCall(e *ast.CallExpr, schema *builtins.Schema) string {
	switch schema.Tag {
	case builtins.TagPrint:
		val := em.stringify(em.emitExpr(e.Args[0]), e.Args[0].GetType())
		return fmt.Sprintf(`printf("%%s", %s)`, val)
	case builtins.TagPrintln:
		val := em.stringify(em.emitExpr(e.Args[0]), e.Args[0].GetType())
		return fmt.Sprintf(`printf("%%s\n", %s)`, val)
	case builtins.TagInput:
		return "nlang_read_line()"
	case builtins.TagLen:
		return fmt.Sprintf("((int64_t)strlen(%s))", em.emitExpr(e.Args[0]))
	case builtins.TagStr:
		return em.stringify(em.emitExpr(e.Args[0]), e.Args[0].GetType())
	case builtins.TagInt:
		return fmt.Sprintf("nlang_parse_int(%s)", em.emitExpr(e.Args[0]))
	case builtins.TagFloat:
		return fmt.Sprintf("nlang_parse_float(%s)", em.emitExpr(e.Args[0]))
	case builtins.TagBool:
		return em.emitBoolConversion(e)
	case builtins.TagAbs:
		return em.emitAbs(e)
	case builtins.TagMax:
		return em.emitMinMax(e, true)
	case builtins.TagMin:
		return em.emitMinMax(e, false)
	case builtins.TagPow:
		return em.emitPow(e)
	}
	return "0"
}

func (em *emitter) emitBoolConversion(e *ast.CallExpr) string {
	val := em.emitExpr(e.Args[0])
	switch e.Args[0].GetType().Kind {
	case types.Int:
		return fmt.Sprintf("(%s != 0)", val)
	case types.Float:
		return fmt.Sprintf("(%s != 0.0)", val)
	case types.String:
		return fmt.Sprintf("(strlen(%s) != 0)", val)
	case types.Bool:
		return val
	default:
		return "0"
	}
}

func (em *emitter) emitAbs(e *ast.CallExpr) string {
	val := em.emitExpr(e.Args[0])
	if e.Args[0].GetType().Kind == types.Float {
		return fmt.Sprintf("fabs(%s)", val)
	}
	return fmt.Sprintf("nlang_iabs(%s)", val)
}

func (em *emitter) emitMinMax(e *ast.CallExpr, wantMax bool) string {
	leftTy, rightTy := e.Args[0].GetType(), e.Args[1].GetType()
	left := em.emitExpr(e.Args[0])
	right := em.emitExpr(e.Args[1])
	if leftTy.Kind == types.Int && rightTy.Kind == types.Float {
		left = "(double)(" + left + ")"
	} else if rightTy.Kind == types.Int && leftTy.Kind == types.Float {
		right = "(double)(" + right + ")"
	}
	isFloat := leftTy.Kind == types.Float || rightTy.Kind == types.Float
	fn := "nlang_imax"
	if isFloat {
		fn = "fmax"
	}
	if !wantMax {
		fn = "nlang_imin"
		if isFloat {
			fn = "fmin"
		}
	}
	return fmt.Sprintf("%s(%s, %s)", fn, left, right)
}

func (em *emitter) emitPow(e *ast.CallExpr) string {
	leftTy, rightTy := e.Args[0].GetType(), e.Args[1].GetType()
	left := em.emitExpr(e.Args[0])
	right := em.emitExpr(e.Args[1])
	if leftTy.Kind == types.Int && rightTy.Kind == types.Int {
		return fmt.Sprintf("nlang_ipow(%s, %s)", left, right)
	}
	if leftTy.Kind == types.Int {
		left = "(double)(" + left + ")"
	}
	if rightTy.Kind == types.Int {
		right = "(double)(" + right + ")"
	}
	return fmt.Sprintf("pow(%s, %s)", left, right)
}
