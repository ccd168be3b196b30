package irgen

import (
	"fmt"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
)

// Generate lowers a fully type-checked program to a textual LLVM-style IR
// module, per spec.md §4.5. program must already have passed semantic
// analysis (internal/semantic) with entryPoint as the resolved entry
// function name; every expression's GetType() must be non-Unknown.
func Generate(program *ast.Program, reg *builtins.Registry, entryPoint string) (string, error) {
	mod := newModule()
	funcs := make(map[string]*ast.FunctionDecl)
	var order []*ast.FunctionDecl
	var topLevel []ast.Statement
	var entryFn *ast.FunctionDecl

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			funcs[s.Name.Value] = s
			order = append(order, s)
			if s.Name.Value == entryPoint {
				entryFn = s
			}
		case *ast.ExportStatement:
			funcs[s.Function.Name.Value] = s.Function
			order = append(order, s.Function)
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
		return "", fmt.Errorf("irgen: entry function %q not found", entryPoint)
	}

	// Top-level `store` declarations are true module-level globals (spec.md
	// §3: "only globals and own parameters/locals are visible"), not locals
	// of whichever function happens to run first. Register them on the
	// module before emitting any function body, so every function's
	// identifier lookup can see them regardless of declaration order.
	for _, stmt := range topLevel {
		if decl, ok := stmt.(*ast.VarDeclStatement); ok {
			mod.addGlobal(decl.Name.Value, irType(decl.Value.GetType()))
		}
	}

	for _, fn := range order {
		if fn == entryFn {
			mod.addFunction(emitEntryFunction(mod, funcs, reg, entryPoint, entryFn, topLevel))
			continue
		}
		mod.addFunction(emitFunction(mod, funcs, reg, entryPoint, fn, nil))
	}

	return mod.render(), nil
}

// emitEntryFunction renders the designated entry function, first running
// any top-level statements as a bootstrap prologue in its entry block
// (matching internal/interp's Run semantics, which evaluates them against
// the global environment before invoking the entry function).
func emitEntryFunction(mod *module, funcs map[string]*ast.FunctionDecl, reg *builtins.Registry, entryPoint string, entryFn *ast.FunctionDecl, topLevel []ast.Statement) string {
	if len(topLevel) == 0 {
		return emitFunction(mod, funcs, reg, entryPoint, entryFn, nil)
	}

	prologue := func(fe *funcEmitter) {
		for _, stmt := range topLevel {
			fe.emitGlobalInit(stmt)
		}
	}
	return emitFunction(mod, funcs, reg, entryPoint, entryFn, prologue)
}
