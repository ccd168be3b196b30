// Package driver shells out to a system C compiler to turn a generated C
// translation unit (internal/cgen) into an executable, per SPEC_FULL.md
// §4.9/§6's `compile` subcommand. External-toolchain invocation is
// explicitly the one place in the pipeline that isn't single-process pure
// Go (spec.md §1's Non-goals name "producing a native executable" as out
// of scope for the core; the driver is the CLI-layer concern that picks
// that back up).
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nlangteam/nlang/internal/config"
)

// Compile writes cSource to a temporary file in the output directory, then
// invokes cfg.CC with cfg.CFlags, the source, cfg.LDFlags, and "-o
// outputPath" in that order. It returns the compiler's combined
// stdout+stderr alongside any error so the caller can surface it as a
// diagnostic.
func Compile(cSource, outputPath string, cfg *config.Driver) (output string, err error) {
	if cfg == nil {
		cfg = config.Default()
	}

	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, "nlang-*.c")
	if err != nil {
		return "", fmt.Errorf("driver: creating temporary C source: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(cSource); err != nil {
		tmp.Close()
		return "", fmt.Errorf("driver: writing temporary C source: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("driver: closing temporary C source: %w", err)
	}

	args := make([]string, 0, len(cfg.CFlags)+len(cfg.LDFlags)+3)
	args = append(args, cfg.CFlags...)
	args = append(args, tmp.Name())
	args = append(args, cfg.LDFlags...)
	args = append(args, "-o", outputPath)

	cmd := exec.Command(cfg.CC, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("driver: %s failed: %w", cfg.CC, err)
	}
	return string(out), nil
}
