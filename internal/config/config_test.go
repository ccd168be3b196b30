package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFallsBackToDefaultWhenNoFileExists(t *testing.T) {
	dir := t.TempDir()
	d, err := Resolve(filepath.Join(dir, "prog.nlang"), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCC, d.CC)
	assert.Empty(t, d.CFlags)
	assert.Empty(t, d.LDFlags)
}

func TestResolveLoadsSiblingNlangYAML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "nlang.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("cc: clang\ncflags:\n  - -O2\nld_flags:\n  - -lm\n"), 0644))

	d, err := Resolve(filepath.Join(dir, "prog.nlang"), "")
	require.NoError(t, err)
	assert.Equal(t, "clang", d.CC)
	assert.Equal(t, []string{"-O2"}, d.CFlags)
	assert.Equal(t, []string{"-lm"}, d.LDFlags)
}

func TestResolveExplicitConfigPathOverridesSibling(t *testing.T) {
	dir := t.TempDir()
	siblingPath := filepath.Join(dir, "nlang.yaml")
	require.NoError(t, os.WriteFile(siblingPath, []byte("cc: gcc\n"), 0644))

	explicitDir := t.TempDir()
	explicitPath := filepath.Join(explicitDir, "custom.yaml")
	require.NoError(t, os.WriteFile(explicitPath, []byte("cc: tcc\n"), 0644))

	d, err := Resolve(filepath.Join(dir, "prog.nlang"), explicitPath)
	require.NoError(t, err)
	assert.Equal(t, "tcc", d.CC, "explicit config should win over a sibling nlang.yaml")
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/nlang.yaml")
	assert.Error(t, err)
}
