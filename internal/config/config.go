// Package config loads the optional nlang.yaml driver configuration the
// `compile` subcommand uses to choose a system C compiler and its flags,
// per SPEC_FULL.md §4.9.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// DefaultCC is used when no config file is found and no --config is given.
const DefaultCC = "cc"

// Driver holds the external-toolchain settings internal/driver needs to
// turn a generated C file into an executable.
type Driver struct {
	CC      string   `yaml:"cc"`
	CFlags  []string `yaml:"cflags"`
	LDFlags []string `yaml:"ld_flags"`
}

// Default returns the configuration used when no nlang.yaml is present:
// plain `cc`, no extra flags.
func Default() *Driver {
	return &Driver{CC: DefaultCC}
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Driver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var d Driver
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if d.CC == "" {
		d.CC = DefaultCC
	}
	return &d, nil
}

// Resolve picks the driver configuration for compiling sourcePath:
// explicitConfigPath if non-empty, else an nlang.yaml next to sourcePath if
// one exists, else Default().
func Resolve(sourcePath, explicitConfigPath string) (*Driver, error) {
	if explicitConfigPath != "" {
		return Load(explicitConfigPath)
	}
	candidate := filepath.Join(filepath.Dir(sourcePath), "nlang.yaml")
	if _, err := os.Stat(candidate); err != nil {
		return Default(), nil
	}
	return Load(candidate)
}
