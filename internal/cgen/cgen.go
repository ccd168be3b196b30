// Package cgen lowers a checked nlang AST to a single freestanding C99
// translation unit, per spec.md §4.6. Types map as Int -> int64_t,
// Float -> double, Bool -> int (0/1), String -> const char *, Null ->
// void (return position only).
package cgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/types"
)

func cType(t types.Type) string {
	switch t.Kind {
	case types.Int:
		return "int64_t"
	case types.Float:
		return "double"
	case types.Bool:
		return "int"
	case types.String:
		return "const char *"
	case types.Null:
		return "void"
	default:
		return "int64_t" // unreachable for a fully type-checked program
	}
}

// Generate lowers program to a complete C99 translation unit. program must
// already have passed semantic analysis (internal/semantic) with
// entryPoint as the resolved entry function name.
func Generate(program *ast.Program, reg *builtins.Registry, entryPoint string) (string, error) {
	var funcs []*ast.FunctionDecl
	var topLevel []ast.Statement
	var entryFn *ast.FunctionDecl

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			funcs = append(funcs, s)
			if s.Name.Value == entryPoint {
				entryFn = s
			}
		case *ast.ExportStatement:
			funcs = append(funcs, s.Function)
			if s.Function.Name.Value == entryPoint {
				entryFn = s.Function
			}
		case *ast.ImportStatement, *ast.FromImportStatement, *ast.AssignMainStatement:
			// no lowering: resolved during semantic analysis.
		default:
			topLevel = append(topLevel, stmt)
		}
	}
	if entryFn == nil {
		return "", fmt.Errorf("cgen: entry function %q not found", entryPoint)
	}

	// Top-level `store` declarations are true module-level globals
	// (spec.md §3: "only globals and own parameters/locals are visible"),
	// not locals of whichever function happens to run first. Collect them
	// up front so every function's emitter shares the same view of them,
	// regardless of declaration order.
	globals := make(map[string]types.Type)
	var globalOrder []string
	for _, stmt := range topLevel {
		if decl, ok := stmt.(*ast.VarDeclStatement); ok {
			if _, seen := globals[decl.Name.Value]; !seen {
				globals[decl.Name.Value] = decl.Value.GetType()
				globalOrder = append(globalOrder, decl.Name.Value)
			}
		}
	}

	var out bytes.Buffer
	out.WriteString(prologue)
	out.WriteByte('\n')

	for _, fn := range funcs {
		out.WriteString(forwardDecl(fn))
		out.WriteByte('\n')
	}
	out.WriteByte('\n')

	if len(globalOrder) > 0 {
		out.WriteString(emitGlobalDecls(globalOrder, globals))
		out.WriteByte('\n')
	}

	for _, fn := range funcs {
		em := newEmitter(reg, globals)
		out.WriteString(em.emitFunctionDef(fn))
		out.WriteByte('\n')
	}

	out.WriteString(emitCMain(reg, entryFn, topLevel, globals))
	return out.String(), nil
}

// emitGlobalDecls renders file-scope `static` declarations for every
// module-level global, in first-declared order, so every function
// defined below can see them by their plain source name.
func emitGlobalDecls(order []string, globals map[string]types.Type) string {
	var out bytes.Buffer
	for _, name := range order {
		fmt.Fprintf(&out, "static %s %s;\n", cType(globals[name]), name)
	}
	return out.String()
}

func forwardDecl(fn *ast.FunctionDecl) string {
	return signature(fn) + ";"
}

func signature(fn *ast.FunctionDecl) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", cType(fn.ParamTypes[i]), p.Name.Value)
	}
	paramList := strings.Join(params, ", ")
	if paramList == "" {
		paramList = "void"
	}
	return fmt.Sprintf("%s %s(%s)", cType(fn.ReturnType), fn.Name.Value, paramList)
}

// emitCMain renders the process `main`: it runs any top-level statements
// (global initialization, matching internal/interp's Run semantics) as
// assignments into the already file-scope-declared globals, then calls the
// entry function and returns its numeric result or 0, per spec.md §4.6
// ("A main that either IS the user's entry function or calls it, then
// returns its numeric result or 0").
func emitCMain(reg *builtins.Registry, entryFn *ast.FunctionDecl, topLevel []ast.Statement, globals map[string]types.Type) string {
	em := newEmitter(reg, globals)
	for _, s := range topLevel {
		em.emitGlobalInit(s)
	}

	call := fmt.Sprintf("%s()", entryFn.Name.Value)
	if entryFn.ReturnType.Kind == types.Null {
		em.writeLine("%s;", call)
		em.writeLine("return 0;")
	} else if entryFn.ReturnType.Kind == types.Int {
		em.writeLine("return (int)%s;", call)
	} else {
		em.writeLine("%s;", call)
		em.writeLine("return 0;")
	}

	var out bytes.Buffer
	out.WriteString("int main(void) {\n")
	out.Write(em.buf.Bytes())
	out.WriteString("}\n")
	return out.String()
}
