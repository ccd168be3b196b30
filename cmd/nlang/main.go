// Command nlang is the CLI driver for the nlang toolchain: run, generate-ir,
// generate-c, compile, and builtins, per SPEC_FULL.md §6.
package main

import (
	"fmt"
	"os"

	"github.com/nlangteam/nlang/cmd/nlang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
