package driver

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/nlangteam/nlang/internal/config"
)

// fakeCompiler writes a tiny shell script standing in for a C compiler, so
// these tests don't depend on a real `cc` being installed: it parses out
// the "-o PATH" argument pair, writes a marker file there, and echoes its
// own argument list to stdout for assertions.
func fakeCompiler(t *testing.T, exitCode int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fakecc.sh")
	script := `#!/bin/sh
echo "args: $@"
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-o" ]; then
    out="$arg"
  fi
  prev="$arg"
done
if [ -n "$out" ]; then
  echo "compiled" > "$out"
fi
exit ` + strconv.Itoa(exitCode) + `
`
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake compiler: %v", err)
	}
	return path
}

func TestCompileInvokesConfiguredCompilerAndWritesOutput(t *testing.T) {
	cc := fakeCompiler(t, 0)
	outDir := t.TempDir()
	outputPath := filepath.Join(outDir, "a.out")

	cfg := &config.Driver{CC: cc, CFlags: []string{"-Wall"}, LDFlags: []string{"-lm"}}
	out, err := Compile("int main(void) { return 0; }", outputPath, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "-Wall") || !strings.Contains(out, "-lm") {
		t.Errorf("expected compiler invocation to include configured flags, got: %s", out)
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("expected output file to be written: %v", err)
	}
	if strings.TrimSpace(string(data)) != "compiled" {
		t.Errorf("unexpected output file contents: %q", data)
	}
}

func TestCompileReturnsErrorOnNonZeroExit(t *testing.T) {
	cc := fakeCompiler(t, 1)
	outputPath := filepath.Join(t.TempDir(), "a.out")

	_, err := Compile("this is not valid C", outputPath, &config.Driver{CC: cc})
	if err == nil {
		t.Fatal("expected an error when the compiler exits non-zero")
	}
}

func TestCompileDefaultsConfigWhenNil(t *testing.T) {
	cc := fakeCompiler(t, 0)
	// Put the fake compiler on PATH under config.DefaultCC, so the default
	// a nil config falls back to resolves to it.
	binDir := t.TempDir()
	if err := os.Symlink(cc, filepath.Join(binDir, config.DefaultCC)); err != nil {
		t.Fatalf("failed to link fake compiler: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	outputPath := filepath.Join(t.TempDir(), "a.out")
	if _, err := Compile("int main(void) { return 0; }", outputPath, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
