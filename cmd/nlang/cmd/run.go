package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nlangteam/nlang/internal/diag"
	"github.com/nlangteam/nlang/pkg/nlang"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run an nlang program in-process",
	Args:  cobra.ExactArgs(1),
	RunE:  runFile,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit diagnostics as JSON instead of caret-annotated text")
}

func runFile(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	engine := nlang.New()
	code, diags, err := engine.Run(source)
	if err != nil {
		return err
	}
	if diags != nil {
		return reportDiagnostics(diags, source, runJSON)
	}
	if code != 0 {
		return fmt.Errorf("program exited with status %d", code)
	}
	return nil
}

// readSource reads an .nlang source file, wrapping the error with the
// filename the way every subcommand reports a missing file.
func readSource(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(content), nil
}

// reportDiagnostics prints diags to stderr (JSON or caret-annotated text,
// per the --json flag shared by every subcommand) and returns a summary
// error so RunE reports a non-zero exit without Cobra re-printing it.
func reportDiagnostics(diags []*diag.Diagnostic, source string, asJSON bool) error {
	if asJSON {
		out, err := diag.RenderJSON(diags, true)
		if err != nil {
			return fmt.Errorf("rendering diagnostics: %w", err)
		}
		fmt.Fprintln(os.Stderr, out)
	} else {
		fmt.Fprintln(os.Stderr, diag.Render(diags, source))
	}
	return fmt.Errorf("failed with %d diagnostic(s)", len(diags))
}
