package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nlangteam/nlang/pkg/nlang"
)

var (
	generateIROut  string
	generateIRJSON bool
	generateCOut   string
	generateCJSON  bool
)

var generateIRCmd = &cobra.Command{
	Use:   "generate-ir FILE",
	Short: "Emit an nlang program's textual LLVM-style IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateIR,
}

var generateCCmd = &cobra.Command{
	Use:   "generate-c FILE",
	Short: "Emit an nlang program's C99 translation",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateC,
}

func init() {
	rootCmd.AddCommand(generateIRCmd)
	generateIRCmd.Flags().StringVarP(&generateIROut, "output", "o", "", "output file (default: stdout)")
	generateIRCmd.Flags().BoolVar(&generateIRJSON, "json", false, "emit diagnostics as JSON instead of caret-annotated text")

	rootCmd.AddCommand(generateCCmd)
	generateCCmd.Flags().StringVarP(&generateCOut, "output", "o", "", "output file (default: stdout)")
	generateCCmd.Flags().BoolVar(&generateCJSON, "json", false, "emit diagnostics as JSON instead of caret-annotated text")
}

func runGenerateIR(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	engine := nlang.New()
	ir, diags, err := engine.GenerateIR(source)
	if err != nil {
		return err
	}
	if diags != nil {
		return reportDiagnostics(diags, source, generateIRJSON)
	}
	return writeGenerated(ir, generateIROut)
}

func runGenerateC(_ *cobra.Command, args []string) error {
	filename := args[0]
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	engine := nlang.New()
	src, diags, err := engine.GenerateC(source)
	if err != nil {
		return err
	}
	if diags != nil {
		return reportDiagnostics(diags, source, generateCJSON)
	}
	return writeGenerated(src, generateCOut)
}

func writeGenerated(content, outputPath string) error {
	if outputPath == "" {
		_, err := fmt.Print(content)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outputPath, err)
	}
	return nil
}
