package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nlang",
	Short: "nlang toolchain: interpreter, IR emitter, and C compiler",
	Long: `nlang is a small statically-typed imperative language.

The nlang CLI runs an .nlang program in-process, emits its textual
LLVM-style IR, emits its C99 translation, or compiles it to a native
executable via a system C compiler.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))
}
