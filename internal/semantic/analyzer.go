// Package semantic implements nlang's two-pass semantic analysis: hoisting
// of top-level declarations, followed by a combined scope-resolution,
// type-inference, and type-checking walk of the AST.
//
// Type inference is intentionally shallow (spec.md §9 "Type inference as
// local unification"): a function parameter starts as Unknown and is fixed
// the first time it participates in a comparison, arithmetic operation,
// assignment, or return statement inside that function's own body. A
// forward call to a not-yet-analyzed function triggers that function's
// analysis on demand; recursive/mutual calls are guarded against re-entry
// by validating against the callee's current (possibly still-Unknown)
// signature rather than re-entering it. If a parameter's type is still
// Unknown once its function's body has been fully walked, that is a
// semantic error — analysis fails fast rather than unifying across the
// whole call graph.
package semantic

import (
	"fmt"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/token"
	"github.com/nlangteam/nlang/internal/types"
)

// Analyzer performs semantic analysis on an nlang program.
type Analyzer struct {
	symbols  *SymbolTable
	builtins *builtins.Registry

	funcDecls map[string]*ast.FunctionDecl
	analyzing map[string]bool
	analyzed  map[string]bool

	currentFunction *ast.FunctionDecl
	loopDepth       int

	entryPoint       string
	sawAssignMain    bool
	assignMainTarget string
	assignMainPos    token.Position

	errors []*Error
}

// NewAnalyzer creates an Analyzer with the global scope initialized from
// reg, per spec.md §3 ("The global scope is initialized with all
// built-in names").
func NewAnalyzer(reg *builtins.Registry) *Analyzer {
	a := &Analyzer{
		symbols:   NewSymbolTable(),
		builtins:  reg,
		funcDecls: make(map[string]*ast.FunctionDecl),
		analyzing: make(map[string]bool),
		analyzed:  make(map[string]bool),
	}
	for _, name := range reg.Names() {
		schema := reg.Lookup(name)
		a.symbols.DefineGlobal(name, SymBuiltIn, builtinSymbolType(schema))
	}
	return a
}

func builtinSymbolType(s *builtins.Schema) types.Type {
	ret := s.Return
	if s.Polymorphic && s.Return.Kind == types.Unknown {
		ret = types.TUnknown // resolved per call site
	}
	return types.NewFunction(s.Params, ret)
}

// Errors returns the diagnostics accumulated during analysis.
func (a *Analyzer) Errors() []*Error { return a.errors }

// EntryPoint returns the name of the function designated as the program's
// entry point, valid only after a successful Analyze call.
func (a *Analyzer) EntryPoint() string { return a.entryPoint }

func (a *Analyzer) errorf(pos token.Position, format string, args ...any) {
	a.errors = append(a.errors, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Analyze runs both passes over program. It always returns the full set of
// errors via Errors(); the boolean result reports overall success.
func (a *Analyzer) Analyze(program *ast.Program) bool {
	a.hoist(program)
	a.resolveEntryPoint()

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			a.analyzeFunction(s)
		case *ast.ExportStatement:
			a.analyzeFunction(s.Function)
		case *ast.ImportStatement, *ast.FromImportStatement, *ast.AssignMainStatement:
			// no-op at checking time; fully handled during hoisting.
		default:
			a.checkStatement(stmt)
		}
	}

	return len(a.errors) == 0
}

func (a *Analyzer) hoist(program *ast.Program) {
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			a.hoistFunction(s)
		case *ast.ExportStatement:
			a.hoistFunction(s.Function)
		case *ast.ImportStatement:
			// Imports are recorded as no-ops per spec.md §9 (Open Questions):
			// module resolution is not part of this implementation.
		case *ast.FromImportStatement:
			a.hoistFromImport(s)
		case *ast.AssignMainStatement:
			if a.sawAssignMain {
				a.errorf(s.Pos(), "multiple assign_main directives")
				continue
			}
			a.sawAssignMain = true
			a.assignMainTarget = s.Name.Value
			a.assignMainPos = s.Pos()
		}
	}
}

func (a *Analyzer) hoistFunction(fn *ast.FunctionDecl) {
	paramTypes := make([]types.Type, len(fn.Params))
	for i := range paramTypes {
		paramTypes[i] = types.TUnknown
	}
	fn.ParamTypes = paramTypes
	fn.ReturnType = types.TUnknown

	if !a.symbols.DefineGlobal(fn.Name.Value, SymFunction, types.NewFunction(paramTypes, types.TUnknown)) {
		a.errorf(fn.Pos(), "duplicate declaration of %q", fn.Name.Value)
		return
	}
	a.funcDecls[fn.Name.Value] = fn
}

// hoistFromImport binds each selectively-imported name in the global scope
// as if it referred to a same-named built-in, if one exists — the
// resolution of the Open Question in spec.md §9 ("Selective imports").
func (a *Analyzer) hoistFromImport(s *ast.FromImportStatement) {
	for _, name := range s.Names {
		schema := a.builtins.Lookup(name.Value)
		if schema == nil {
			continue
		}
		a.symbols.DefineGlobal(name.Value, SymBuiltIn, builtinSymbolType(schema))
	}
}

func (a *Analyzer) resolveEntryPoint() {
	_, hasLiteralMain := a.funcDecls["main"]

	switch {
	case a.sawAssignMain:
		if _, ok := a.funcDecls[a.assignMainTarget]; !ok {
			a.errorf(a.assignMainPos, "assign_main designates undefined function %q", a.assignMainTarget)
			return
		}
		if hasLiteralMain && a.assignMainTarget != "main" {
			a.errorf(a.assignMainPos, "assign_main designates %q but a function literally named main also exists", a.assignMainTarget)
			return
		}
		a.entryPoint = a.assignMainTarget
	case hasLiteralMain:
		a.entryPoint = "main"
	default:
		a.errorf(token.Position{Line: 1, Column: 1}, "no entry function: declare a function named main or use assign_main")
		return
	}

	if entry := a.funcDecls[a.entryPoint]; entry != nil && len(entry.Params) != 0 {
		a.errorf(entry.Pos(), "entry function %q must take no parameters", a.entryPoint)
	}
}

// analyzeFunction ensures fn's body has been type-checked, guarding against
// re-entry for (mutually) recursive calls.
func (a *Analyzer) analyzeFunction(fn *ast.FunctionDecl) {
	if a.analyzed[fn.Name.Value] || a.analyzing[fn.Name.Value] {
		return
	}
	a.analyzing[fn.Name.Value] = true
	defer func() { a.analyzing[fn.Name.Value] = false }()

	previousFn := a.currentFunction
	a.currentFunction = fn
	a.symbols.Push()

	paramSyms := make([]*Symbol, len(fn.Params))
	for i, p := range fn.Params {
		if !a.symbols.Define(p.Name.Value, SymParameter, types.TUnknown) {
			a.errorf(p.Name.Pos(), "duplicate parameter name %q in function %q", p.Name.Value, fn.Name.Value)
			continue
		}
		sym, _ := a.symbols.Resolve(p.Name.Value)
		paramSyms[i] = sym
	}

	a.checkStatements(fn.Body.Statements)

	for i, sym := range paramSyms {
		if sym == nil {
			continue
		}
		fn.ParamTypes[i] = sym.Type
		if sym.Type.Kind == types.Unknown {
			a.errorf(fn.Pos(), "cannot infer type of parameter %q of function %q: it is never used in a typed context", fn.Params[i].Name.Value, fn.Name.Value)
		}
	}
	if fn.ReturnType.Kind == types.Unknown {
		fn.ReturnType = types.TNull
	}

	a.symbols.Pop()
	a.currentFunction = previousFn
	a.analyzed[fn.Name.Value] = true

	if sym, ok := a.symbols.ResolveGlobal(fn.Name.Value); ok {
		sym.Type = types.NewFunction(fn.ParamTypes, fn.ReturnType)
	}
}

func (a *Analyzer) checkStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		a.checkStatement(s)
	}
}

func (a *Analyzer) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		a.checkVarDecl(s)
	case *ast.AssignStatement:
		a.checkAssign(s)
	case *ast.ExpressionStatement:
		a.checkExpr(s.Expression)
	case *ast.ReturnStatement:
		a.checkReturn(s)
	case *ast.IfStatement:
		a.checkIf(s)
	case *ast.WhileStatement:
		a.checkWhile(s)
	case *ast.BreakStatement:
		if a.loopDepth == 0 {
			a.errorf(s.Pos(), "break outside of while loop")
		}
	case *ast.ContinueStatement:
		if a.loopDepth == 0 {
			a.errorf(s.Pos(), "continue outside of while loop")
		}
	case *ast.FunctionDecl:
		a.errorf(s.Pos(), "nested function definitions are not supported")
	case *ast.ExportStatement:
		a.errorf(s.Pos(), "export is only valid at the top level")
	default:
		// ImportStatement / FromImportStatement / AssignMainStatement nested
		// in a block body: not part of the grammar, but harmless no-ops if
		// they ever reach here.
	}
}

func (a *Analyzer) checkVarDecl(s *ast.VarDeclStatement) {
	valType := a.checkExpr(s.Value)
	if !a.symbols.Define(s.Name.Value, SymVariable, valType) {
		a.errorf(s.Pos(), "duplicate declaration of %q in this scope", s.Name.Value)
	}
}

func (a *Analyzer) checkAssign(s *ast.AssignStatement) {
	valType := a.checkExpr(s.Value)
	sym, ok := a.symbols.Resolve(s.Name.Value)
	if !ok {
		a.errorf(s.Pos(), "undefined identifier %q", s.Name.Value)
		return
	}
	if sym.Kind != SymVariable && sym.Kind != SymParameter {
		a.errorf(s.Pos(), "%q is not assignable", s.Name.Value)
		return
	}
	if sym.Type.Kind == types.Unknown {
		sym.Type = valType
		return
	}
	if !types.AssignableTo(valType, sym.Type) {
		a.errorf(s.Pos(), "cannot assign %s to %q of type %s", valType, s.Name.Value, sym.Type)
	}
}

func (a *Analyzer) checkReturn(s *ast.ReturnStatement) {
	if a.currentFunction == nil {
		a.errorf(s.Pos(), "return statement outside of a function")
		return
	}
	var retType types.Type
	if s.ReturnValue == nil {
		retType = types.TNull
	} else {
		retType = a.checkExpr(s.ReturnValue)
	}
	fn := a.currentFunction
	if retType.Kind == types.Unknown {
		// Nothing to unify from yet (e.g. the value came from a still being
		// analyzed recursive call) — leave fn.ReturnType as is.
		return
	}
	if fn.ReturnType.Kind == types.Unknown {
		fn.ReturnType = retType
		return
	}
	if retType.Equal(fn.ReturnType) {
		return
	}
	if widened, ok := types.Widen(retType, fn.ReturnType); ok && widened.Equal(fn.ReturnType) {
		return
	}
	a.errorf(s.Pos(), "return type %s does not match function %q's established return type %s", retType, fn.Name.Value, fn.ReturnType)
}

func (a *Analyzer) checkIf(s *ast.IfStatement) {
	condType := a.checkExpr(s.Condition)
	if condType.Kind != types.Bool && condType.Kind != types.Unknown {
		a.errorf(s.Condition.Pos(), "if condition must be Bool, got %s", condType)
	}
	a.checkStatements(s.Consequence.Statements)
	if s.Alternative != nil {
		a.checkStatements(s.Alternative.Statements)
	}
}

func (a *Analyzer) checkWhile(s *ast.WhileStatement) {
	condType := a.checkExpr(s.Condition)
	if condType.Kind != types.Bool && condType.Kind != types.Unknown {
		a.errorf(s.Condition.Pos(), "while condition must be Bool, got %s", condType)
	}
	a.loopDepth++
	a.checkStatements(s.Body.Statements)
	a.loopDepth--
}

// checkExpr type-checks expr, annotates it with its resolved type, and
// returns that type.
func (a *Analyzer) checkExpr(expr ast.Expression) types.Type {
	var t types.Type
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		t = types.TInt
	case *ast.FloatLiteral:
		t = types.TFloat
	case *ast.StringLiteral:
		t = types.TString
	case *ast.BooleanLiteral:
		t = types.TBool
	case *ast.NullLiteral:
		t = types.TNull
	case *ast.Identifier:
		t = a.checkIdentifier(e)
	case *ast.GroupedExpr:
		t = a.checkExpr(e.Inner)
	case *ast.UnaryExpr:
		t = a.checkUnary(e)
	case *ast.BinaryExpr:
		t = a.checkBinary(e)
	case *ast.CallExpr:
		t = a.checkCall(e)
	default:
		t = types.TUnknown
	}
	expr.SetType(t)
	return t
}

func (a *Analyzer) checkIdentifier(e *ast.Identifier) types.Type {
	sym, ok := a.symbols.Resolve(e.Value)
	if !ok {
		a.errorf(e.Pos(), "undefined identifier %q", e.Value)
		return types.TUnknown
	}
	return sym.Type
}

func (a *Analyzer) checkUnary(e *ast.UnaryExpr) types.Type {
	operandType := a.checkExpr(e.Operand)
	switch e.Operator {
	case "-":
		if !operandType.IsNumeric() && operandType.Kind != types.Unknown {
			a.errorf(e.Pos(), "unary - requires a numeric operand, got %s", operandType)
			return types.TUnknown
		}
		return operandType
	case "not":
		if operandType.Kind != types.Bool && operandType.Kind != types.Unknown {
			a.errorf(e.Pos(), "not requires a Bool operand, got %s", operandType)
			return types.TBool
		}
		return types.TBool
	}
	return types.TUnknown
}

// unwrapGrouped strips a parenthesized wrapper so unifyOperand can reach the
// identifier it encloses, e.g. `(x) + 1`.
func unwrapGrouped(expr ast.Expression) ast.Expression {
	for {
		g, ok := expr.(*ast.GroupedExpr)
		if !ok {
			return expr
		}
		expr = g.Inner
	}
}

// unifyOperand is the call-free half of parameter-type inference
// (spec.md §9 "Type inference as local unification"): when one operand of
// a binary expression is still Unknown (an as-yet-unconstrained parameter)
// and the other is concrete, the Unknown operand's underlying symbol is
// fixed to that concrete type on the spot.
func (a *Analyzer) unifyOperand(expr ast.Expression, t types.Type) {
	if t.Kind == types.Unknown {
		return
	}
	ident, ok := unwrapGrouped(expr).(*ast.Identifier)
	if !ok {
		return
	}
	sym, ok := a.symbols.Resolve(ident.Value)
	if !ok || sym.Type.Kind != types.Unknown {
		return
	}
	sym.Type = t
	expr.SetType(t)
}

// resolveOperandTypes fixes whichever side of a binary operation is still
// Unknown from its concrete sibling, then returns the (possibly now fixed)
// pair.
func (a *Analyzer) resolveOperandTypes(leftExpr ast.Expression, left types.Type, rightExpr ast.Expression, right types.Type) (types.Type, types.Type) {
	if left.Kind == types.Unknown && right.Kind != types.Unknown {
		a.unifyOperand(leftExpr, right)
		left = right
	} else if right.Kind == types.Unknown && left.Kind != types.Unknown {
		a.unifyOperand(rightExpr, left)
		right = left
	}
	return left, right
}

func (a *Analyzer) checkBinary(e *ast.BinaryExpr) types.Type {
	leftType := a.checkExpr(e.Left)
	rightType := a.checkExpr(e.Right)
	leftType, rightType = a.resolveOperandTypes(e.Left, leftType, e.Right, rightType)

	switch e.Operator {
	case "and", "or":
		if (leftType.Kind != types.Bool && leftType.Kind != types.Unknown) ||
			(rightType.Kind != types.Bool && rightType.Kind != types.Unknown) {
			a.errorf(e.Pos(), "%s requires Bool operands, got %s and %s", e.Operator, leftType, rightType)
		}
		return types.TBool
	case "==", "!=":
		return a.checkEquality(e, leftType, rightType)
	case "<", "<=", ">", ">=":
		return a.checkComparison(e, leftType, rightType)
	case "+":
		if leftType.Kind == types.String && rightType.Kind == types.String {
			return types.TString
		}
		return a.checkArithmetic(e, leftType, rightType)
	case "-", "*", "/":
		return a.checkArithmetic(e, leftType, rightType)
	case "%":
		if leftType.Kind != types.Int || rightType.Kind != types.Int {
			if leftType.Kind != types.Unknown && rightType.Kind != types.Unknown {
				a.errorf(e.Pos(), "%% requires Int operands, got %s and %s", leftType, rightType)
			}
			return types.TInt
		}
		return types.TInt
	}
	return types.TUnknown
}

func (a *Analyzer) checkArithmetic(e *ast.BinaryExpr, left, right types.Type) types.Type {
	if left.Kind == types.Unknown || right.Kind == types.Unknown {
		return types.TUnknown
	}
	joined, ok := types.Widen(left, right)
	if !ok {
		a.errorf(e.Pos(), "operator %s requires numeric operands, got %s and %s", e.Operator, left, right)
		return types.TUnknown
	}
	return joined
}

func (a *Analyzer) checkComparison(e *ast.BinaryExpr, left, right types.Type) types.Type {
	if left.Kind == types.Unknown || right.Kind == types.Unknown {
		return types.TBool
	}
	if _, ok := types.Widen(left, right); !ok {
		a.errorf(e.Pos(), "operator %s requires numeric operands of the same type, got %s and %s", e.Operator, left, right)
	}
	return types.TBool
}

func (a *Analyzer) checkEquality(e *ast.BinaryExpr, left, right types.Type) types.Type {
	if left.Kind == types.Unknown || right.Kind == types.Unknown {
		return types.TBool
	}
	if left.Equal(right) {
		return types.TBool
	}
	if _, ok := types.Widen(left, right); ok {
		return types.TBool
	}
	a.errorf(e.Pos(), "cannot compare %s and %s for equality", left, right)
	return types.TBool
}

func (a *Analyzer) checkCall(e *ast.CallExpr) types.Type {
	argTypes := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.checkExpr(arg)
	}

	name := e.Callee.Value
	if schema := a.builtins.Lookup(name); schema != nil {
		return a.checkBuiltinCall(e, schema, argTypes)
	}

	sym, ok := a.symbols.Resolve(name)
	if !ok {
		a.errorf(e.Pos(), "undefined function %q", name)
		return types.TUnknown
	}
	if sym.Kind != SymFunction {
		a.errorf(e.Pos(), "%q is not callable", name)
		return types.TUnknown
	}

	if fn, isUserFn := a.funcDecls[name]; isUserFn {
		if a.currentFunction != nil && a.currentFunction == fn {
			// Direct recursion: fn is still being analyzed, so the global
			// symbol's signature is stale. Consult the live, in-progress
			// parameter symbols and fn.ReturnType instead.
			return a.checkSelfRecursiveCall(e, fn, argTypes)
		}
		a.analyzeFunction(fn)
	}

	fnType := sym.Type
	if len(argTypes) != len(fnType.Params) {
		a.errorf(e.Pos(), "function %q expects %d argument(s), got %d", name, len(fnType.Params), len(argTypes))
		return types.TUnknown
	}
	for i, argType := range argTypes {
		paramType := fnType.Params[i]
		if paramType.Kind == types.Unknown || argType.Kind == types.Unknown {
			continue
		}
		if !types.AssignableTo(argType, paramType) {
			a.errorf(e.Args[i].Pos(), "argument %d to %q: cannot use %s as %s", i+1, name, argType, paramType)
		}
	}
	if fnType.ReturnType == nil {
		return types.TNull
	}
	return *fnType.ReturnType
}

// checkSelfRecursiveCall handles a call from fn's body back to fn itself,
// while fn is still mid-analysis. fn.ParamTypes/fn.ReturnType are not
// written back to the global symbol until analyzeFunction finishes, so this
// consults the live parameter symbols in the current scope and fn's
// in-progress ReturnType field directly, fixing any still-Unknown
// parameters from the call's own argument types along the way.
func (a *Analyzer) checkSelfRecursiveCall(e *ast.CallExpr, fn *ast.FunctionDecl, argTypes []types.Type) types.Type {
	if len(argTypes) != len(fn.Params) {
		a.errorf(e.Pos(), "function %q expects %d argument(s), got %d", fn.Name.Value, len(fn.Params), len(argTypes))
		return types.TUnknown
	}
	for i, argType := range argTypes {
		paramSym, ok := a.symbols.Resolve(fn.Params[i].Name.Value)
		if !ok {
			continue
		}
		if paramSym.Type.Kind == types.Unknown {
			if argType.Kind != types.Unknown {
				paramSym.Type = argType
			}
			continue
		}
		if argType.Kind == types.Unknown {
			continue
		}
		if !types.AssignableTo(argType, paramSym.Type) {
			a.errorf(e.Args[i].Pos(), "argument %d to %q: cannot use %s as %s", i+1, fn.Name.Value, argType, paramSym.Type)
		}
	}
	if fn.ReturnType.Kind == types.Unknown {
		return types.TUnknown
	}
	return fn.ReturnType
}

func (a *Analyzer) checkBuiltinCall(e *ast.CallExpr, schema *builtins.Schema, argTypes []types.Type) types.Type {
	if len(argTypes) != schema.Arity {
		a.errorf(e.Pos(), "built-in %q expects %d argument(s), got %d", schema.Name, schema.Arity, len(argTypes))
		return types.TUnknown
	}

	if schema.Polymorphic {
		return a.checkPolymorphicBuiltin(e, schema, argTypes)
	}

	for i, argType := range argTypes {
		if argType.Kind == types.Unknown {
			continue
		}
		if !types.AssignableTo(argType, schema.Params[i]) {
			a.errorf(e.Args[i].Pos(), "argument %d to %q: cannot use %s as %s", i+1, schema.Name, argType, schema.Params[i])
		}
	}
	return schema.Return
}

// checkPolymorphicBuiltin implements spec.md §4.3: "Built-ins with
// polymorphic schemas (e.g. max, min, abs, pow) accept either Int or Float
// uniformly per call and return the joined type."
func (a *Analyzer) checkPolymorphicBuiltin(e *ast.CallExpr, schema *builtins.Schema, argTypes []types.Type) types.Type {
	switch schema.Name {
	case "print", "println", "str":
		// Accept any single primitive.
		if len(argTypes) == 1 && argTypes[0].Kind == types.Function {
			a.errorf(e.Args[0].Pos(), "%q does not accept a Function value", schema.Name)
		}
		return schema.Return
	case "bool":
		return types.TBool
	}

	// abs/max/min/pow: every argument must be numeric, uniformly widened.
	joined := types.TInt
	sawUnknown := false
	for i, t := range argTypes {
		if t.Kind == types.Unknown {
			sawUnknown = true
			continue
		}
		if !t.IsNumeric() {
			a.errorf(e.Args[i].Pos(), "%q requires numeric arguments, got %s", schema.Name, t)
			return types.TUnknown
		}
		if w, ok := types.Widen(joined, t); ok {
			joined = w
		}
	}
	if sawUnknown {
		return types.TUnknown
	}
	return joined
}
