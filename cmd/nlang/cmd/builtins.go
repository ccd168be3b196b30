package cmd

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/nlangteam/nlang/pkg/nlang"
)

var builtinsJSON bool

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List nlang's built-in functions",
	Args:  cobra.NoArgs,
	RunE:  runBuiltins,
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
	builtinsCmd.Flags().BoolVar(&builtinsJSON, "json", false, "emit the catalogue as JSON instead of a table")
}

func runBuiltins(_ *cobra.Command, _ []string) error {
	engine := nlang.New()
	schemas := engine.Builtins()

	sort.Slice(schemas, func(i, j int) bool {
		return natural.Less(schemas[i].Name, schemas[j].Name)
	})

	if builtinsJSON {
		out := "[]"
		var err error
		for _, s := range schemas {
			entry := "{}"
			entry, _ = sjson.Set(entry, "name", s.Name)
			entry, _ = sjson.Set(entry, "arity", s.Arity)
			entry, _ = sjson.Set(entry, "polymorphic", s.Polymorphic)
			entry, _ = sjson.Set(entry, "return", s.Return.String())
			out, err = sjson.SetRaw(out, "-1", entry)
			if err != nil {
				return fmt.Errorf("rendering builtins as JSON: %w", err)
			}
		}
		fmt.Println(out)
		return nil
	}

	for _, s := range schemas {
		kind := "fixed"
		if s.Polymorphic {
			kind = "polymorphic"
		}
		fmt.Printf("%-10s arity=%d %-12s -> %s\n", s.Name, s.Arity, kind, s.Return.String())
	}
	return nil
}
