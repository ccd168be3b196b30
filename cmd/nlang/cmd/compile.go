package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlangteam/nlang/internal/config"
	"github.com/nlangteam/nlang/pkg/nlang"
)

var (
	compileOut    string
	compileConfig string
	compileJSON   bool
)

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile an nlang program to a native executable",
	Long: `Compile lowers an nlang program to C (internal/cgen) and invokes a
system C compiler to produce a native executable.

The compiler and its flags come from --config, or from a nlang.yaml file
next to FILE, or from the built-in default ("cc", no extra flags).`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOut, "output", "o", "", "output file (default: <input> without its extension)")
	compileCmd.Flags().StringVar(&compileConfig, "config", "", "path to a nlang.yaml driver config")
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "emit diagnostics as JSON instead of caret-annotated text")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(filename, compileConfig)
	if err != nil {
		return fmt.Errorf("resolving driver config: %w", err)
	}

	outputPath := compileOut
	if outputPath == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outputPath = strings.TrimSuffix(filename, ext)
		} else {
			outputPath = filename + ".out"
		}
	}

	engine := nlang.New()
	out, diags, err := engine.Compile(source, outputPath, cfg)
	if err != nil {
		if out != "" {
			fmt.Fprintln(os.Stderr, out)
		}
		return err
	}
	if diags != nil {
		return reportDiagnostics(diags, source, compileJSON)
	}

	fmt.Printf("Compiled %s -> %s\n", filename, outputPath)
	return nil
}
