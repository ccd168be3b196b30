package irgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/types"
)

// slot is a local variable's or parameter's stack home: an alloca'd
// pointer plus the IR type it holds.
type slot struct {
	ptr string
	ty  string
}

// loopLabels are the branch targets `break`/`continue` resolve against,
// held on a back-end-local stack per spec.md §4.5 ("captured loop-exit /
// loop-header labels held on a back-end-local stack").
type loopLabels struct {
	continueLabel string
	breakLabel    string
}

// funcEmitter lowers one source function's body to SSA-discipline IR text.
// Values and labels are named with a per-function monotonically increasing
// counter, matching spec.md §4.5.
type funcEmitter struct {
	mod   *module
	funcs map[string]*ast.FunctionDecl
	reg   *builtins.Registry

	entryName  string // source name of the designated entry function
	returnType types.Type

	buf         bytes.Buffer
	valueCount  int
	labelCount  int
	locals      map[string]slot
	loopStack   []loopLabels
	terminated  bool // true once the current block has emitted its terminator
	isEntryFunc bool
}

func newFuncEmitter(mod *module, funcs map[string]*ast.FunctionDecl, reg *builtins.Registry, entryName string, returnType types.Type, isEntryFunc bool) *funcEmitter {
	return &funcEmitter{
		mod:         mod,
		funcs:       funcs,
		reg:         reg,
		entryName:   entryName,
		returnType:  returnType,
		locals:      make(map[string]slot),
		isEntryFunc: isEntryFunc,
	}
}

func (fe *funcEmitter) newTemp() string {
	fe.valueCount++
	return fmt.Sprintf("%%t%d", fe.valueCount)
}

func (fe *funcEmitter) newLabel(prefix string) string {
	fe.labelCount++
	return fmt.Sprintf("%s.%d", prefix, fe.labelCount)
}

func (fe *funcEmitter) emit(format string, args ...any) {
	fmt.Fprintf(&fe.buf, "  "+format+"\n", args...)
}

func (fe *funcEmitter) emitLabel(name string) {
	fmt.Fprintf(&fe.buf, "%s:\n", name)
	fe.terminated = false
}

// mangledName returns the symbol a call to name should target: the
// designated entry function is renamed to main regardless of its source
// name (spec.md §4.5).
func (fe *funcEmitter) mangledName(name string) string {
	if name == fe.entryName {
		return "main"
	}
	return name
}

// emitFunction renders fn's full IR definition. prologue, if non-nil, runs
// after parameters are bound and before fn's own body — used by the entry
// function to bootstrap module-level globals (spec.md §3).
func emitFunction(mod *module, funcs map[string]*ast.FunctionDecl, reg *builtins.Registry, entryName string, fn *ast.FunctionDecl, prologue func(*funcEmitter)) string {
	isEntry := fn.Name.Value == entryName
	fe := newFuncEmitter(mod, funcs, reg, entryName, fn.ReturnType, isEntry)

	retIRType := irType(fn.ReturnType)
	if isEntry {
		retIRType = "i64" // the renamed main always returns a process exit code
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		pty := irType(fn.ParamTypes[i])
		params[i] = fmt.Sprintf("%s %%arg.%s", pty, p.Name.Value)
	}

	name := fe.mangledName(fn.Name.Value)
	fe.emitLabel("entry")
	for i, p := range fn.Params {
		pty := irType(fn.ParamTypes[i])
		ptr := fmt.Sprintf("%%local.%s", p.Name.Value)
		fe.emit("%s = alloca %s", ptr, pty)
		fe.emit("store %s %%arg.%s, %s* %s", pty, p.Name.Value, pty, ptr)
		fe.locals[p.Name.Value] = slot{ptr: ptr, ty: pty}
	}

	if prologue != nil {
		prologue(fe)
	}

	fe.emitStatements(fn.Body.Statements)

	if !fe.terminated {
		if retIRType == "void" {
			fe.emit("ret void")
		} else {
			fe.emit("ret %s %s", retIRType, zeroValue(retIRType))
		}
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "define %s @%s(%s) {\n", retIRType, name, strings.Join(params, ", "))
	out.Write(fe.buf.Bytes())
	out.WriteString("}\n")
	return out.String()
}

func (fe *funcEmitter) emitStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		if fe.terminated {
			return // dead code after break/continue/return within this block
		}
		fe.emitStatement(s)
	}
}

func (fe *funcEmitter) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		val, vty := fe.emitExpr(s.Value)
		ptr := fmt.Sprintf("%%local.%s", s.Name.Value)
		fe.emit("%s = alloca %s", ptr, vty)
		fe.emit("store %s %s, %s* %s", vty, val, vty, ptr)
		fe.locals[s.Name.Value] = slot{ptr: ptr, ty: vty}
	case *ast.AssignStatement:
		val, vty := fe.emitExpr(s.Value)
		if sl, ok := fe.locals[s.Name.Value]; ok {
			val = fe.coerce(val, vty, sl.ty)
			fe.emit("store %s %s, %s* %s", sl.ty, val, sl.ty, sl.ptr)
			return
		}
		// Not a local/parameter: must be a module-level global (semantic
		// analysis rejects assignment to any other kind of name).
		gty := fe.mod.globals[s.Name.Value]
		val = fe.coerce(val, vty, gty)
		fe.emit("store %s %s, %s* %s", gty, val, gty, globalRef(s.Name.Value))
	case *ast.ExpressionStatement:
		fe.emitExpr(s.Expression)
	case *ast.ReturnStatement:
		fe.emitReturn(s)
	case *ast.IfStatement:
		fe.emitIf(s)
	case *ast.WhileStatement:
		fe.emitWhile(s)
	case *ast.BreakStatement:
		top := fe.loopStack[len(fe.loopStack)-1]
		fe.emit("br label %%%s", top.breakLabel)
		fe.terminated = true
	case *ast.ContinueStatement:
		top := fe.loopStack[len(fe.loopStack)-1]
		fe.emit("br label %%%s", top.continueLabel)
		fe.terminated = true
	}
}

// emitGlobalInit runs one top-level statement as part of the entry
// function's bootstrap prologue. Unlike emitStatement's VarDeclStatement
// case, a top-level `store` targets the module-level global module.go
// pre-registered for it (per spec.md §3) rather than a new stack alloca;
// every other top-level statement kind runs exactly as it would inside any
// function body.
func (fe *funcEmitter) emitGlobalInit(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		val, vty := fe.emitExpr(s.Value)
		gty := fe.mod.globals[s.Name.Value]
		val = fe.coerce(val, vty, gty)
		fe.emit("store %s %s, %s* %s", gty, val, gty, globalRef(s.Name.Value))
	default:
		fe.emitStatement(stmt)
	}
}

func (fe *funcEmitter) emitReturn(s *ast.ReturnStatement) {
	if s.ReturnValue == nil {
		if fe.isEntryFunc {
			fe.emit("ret i64 0")
		} else {
			fe.emit("ret void")
		}
		fe.terminated = true
		return
	}
	val, vty := fe.emitExpr(s.ReturnValue)
	want := irType(fe.returnType)
	if fe.isEntryFunc {
		want = "i64"
	}
	val = fe.coerce(val, vty, want)
	fe.emit("ret %s %s", want, val)
	fe.terminated = true
}

func (fe *funcEmitter) emitIf(s *ast.IfStatement) {
	cond, _ := fe.emitExpr(s.Condition)
	thenL := fe.newLabel("if.then")
	endL := fe.newLabel("if.end")
	elseL := endL
	if s.Alternative != nil {
		elseL = fe.newLabel("if.else")
	}
	fe.emit("br i1 %s, label %%%s, label %%%s", cond, thenL, elseL)

	fe.emitLabel(thenL)
	fe.emitStatements(s.Consequence.Statements)
	if !fe.terminated {
		fe.emit("br label %%%s", endL)
	}

	if s.Alternative != nil {
		fe.emitLabel(elseL)
		fe.emitStatements(s.Alternative.Statements)
		if !fe.terminated {
			fe.emit("br label %%%s", endL)
		}
	}

	fe.emitLabel(endL)
}

func (fe *funcEmitter) emitWhile(s *ast.WhileStatement) {
	condL := fe.newLabel("while.cond")
	bodyL := fe.newLabel("while.body")
	endL := fe.newLabel("while.end")

	fe.emit("br label %%%s", condL)
	fe.emitLabel(condL)
	cond, _ := fe.emitExpr(s.Condition)
	fe.emit("br i1 %s, label %%%s, label %%%s", cond, bodyL, endL)

	fe.emitLabel(bodyL)
	fe.loopStack = append(fe.loopStack, loopLabels{continueLabel: condL, breakLabel: endL})
	fe.emitStatements(s.Body.Statements)
	fe.loopStack = fe.loopStack[:len(fe.loopStack)-1]
	if !fe.terminated {
		fe.emit("br label %%%s", condL)
	}

	fe.emitLabel(endL)
}

// zeroValue is the literal used to fall off the end of a function whose
// declared path doesn't reach an explicit `return` (guaranteed by semantic
// analysis not to happen for a non-Null return type on a terminating
// program, but the emitter still needs a syntactically valid terminator).
func zeroValue(ty string) string {
	switch ty {
	case "double":
		return "0.0"
	case "i8*":
		return "null"
	default:
		return "0"
	}
}

// coerce inserts the explicit Int->Float conversion spec.md §4.5 requires
// whenever a value of irType `from` flows into a context typed `to`.
func (fe *funcEmitter) coerce(val, from, to string) string {
	if from == to {
		return val
	}
	if from == "i64" && to == "double" {
		t := fe.newTemp()
		fe.emit("%s = sitofp i64 %s to double", t, val)
		return t
	}
	return val
}
