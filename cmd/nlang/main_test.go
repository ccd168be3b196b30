package main

import (
	"fmt"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/nlangteam/nlang/cmd/nlang/cmd"
)

// TestMain lets the test binary re-exec itself as the `nlang` command for
// each testscript `nlang ...` line, the standard go-internal/testscript
// pattern for end-to-end CLI coverage (SPEC_FULL.md §1's "txtar/testscript
// -driven end-to-end CLI test harness").
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"nlang": func() int {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			return 0
		},
	}))
}

func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
