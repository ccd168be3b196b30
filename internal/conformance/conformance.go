// Package conformance runs one nlang program through the interpreter and
// through the C emitter/external-compiler path and checks their stdout
// agrees, implementing the parity property SPEC_FULL.md §8 requires
// ("interpreter output and compiled-executable output are
// byte-identical"). Per §4.11, independent per-implementation runs are
// fanned out with golang.org/x/sync/errgroup — the one concurrent corner
// of an otherwise single-threaded pipeline (§5).
package conformance

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/nlangteam/nlang/internal/ast"
	"github.com/nlangteam/nlang/internal/builtins"
	"github.com/nlangteam/nlang/internal/cgen"
	"github.com/nlangteam/nlang/internal/config"
	"github.com/nlangteam/nlang/internal/driver"
	"github.com/nlangteam/nlang/internal/interp"
	"github.com/nlangteam/nlang/internal/lexer"
	"github.com/nlangteam/nlang/internal/parser"
	"github.com/nlangteam/nlang/internal/semantic"
)

// Result is the outcome of checking one program.
type Result struct {
	Path           string
	InterpOutput   string
	CompiledOutput string
	Skipped        bool   // true when no C compiler was available
	SkipReason     string
	Mismatch       bool
}

// Check runs src (the contents of one .nlang file) through both back-ends
// and compares their stdout. If cc cannot be found on PATH, the compiled
// side is skipped rather than failed, since a native toolchain is an
// optional, environment-dependent dependency (spec.md §1's Non-goals: "no
// bundled C compiler").
func Check(ctx context.Context, path, src string, cc string) (*Result, error) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		return nil, fmt.Errorf("%s: parse errors: %v", path, p.Errors())
	}
	reg := builtins.NewRegistry()
	a := semantic.NewAnalyzer(reg)
	if !a.Analyze(program) {
		return nil, fmt.Errorf("%s: semantic errors: %v", path, a.Errors())
	}

	result := &Result{Path: path}

	if cc == "" {
		cc = "cc"
	}
	ccPath, lookErr := exec.LookPath(cc)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var buf bytes.Buffer
		it := interp.New(program, reg, a.EntryPoint(), &buf, bytes.NewReader(nil))
		if _, err := it.Run(); err != nil {
			return fmt.Errorf("%s: interpreter run failed: %w", path, err)
		}
		result.InterpOutput = buf.String()
		return nil
	})

	if lookErr != nil {
		result.Skipped = true
		result.SkipReason = fmt.Sprintf("no C compiler found on PATH: %v", lookErr)
	} else {
		eg.Go(func() error {
			out, err := compileAndRun(ctx, program, reg, a.EntryPoint(), path, ccPath)
			if err != nil {
				return err
			}
			result.CompiledOutput = out
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if !result.Skipped {
		result.Mismatch = result.InterpOutput != result.CompiledOutput
	}
	return result, nil
}

// CheckAll runs Check over every *.nlang file under dir, fanning the
// per-program runs out concurrently with errgroup — the same pattern the
// corpus's own golden-regeneration tooling uses for independent
// side-effect-free runs, per SPEC_FULL.md §4.11.
func CheckAll(ctx context.Context, dir, cc string) ([]*Result, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.nlang"))
	if err != nil {
		return nil, fmt.Errorf("conformance: globbing %s: %w", dir, err)
	}

	results := make([]*Result, len(matches))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range matches {
		i, path := i, path
		eg.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			r, err := Check(ctx, path, string(src), cc)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func compileAndRun(ctx context.Context, program *ast.Program, reg *builtins.Registry, entryPoint, path, cc string) (string, error) {
	cSource, err := cgen.Generate(program, reg, entryPoint)
	if err != nil {
		return "", fmt.Errorf("%s: cgen failed: %w", path, err)
	}

	tmpDir, err := os.MkdirTemp("", "nlang-conformance-*")
	if err != nil {
		return "", fmt.Errorf("%s: creating build dir: %w", path, err)
	}
	defer os.RemoveAll(tmpDir)

	binPath := filepath.Join(tmpDir, "a.out")
	cfg := &config.Driver{CC: cc}
	if out, err := driver.Compile(cSource, binPath, cfg); err != nil {
		return "", fmt.Errorf("%s: compile failed: %w\n%s", path, err, out)
	}

	cmd := exec.CommandContext(ctx, binPath)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: running compiled binary failed: %w", path, err)
	}
	return string(out), nil
}
