package cgen

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGenerateGoldenC snapshots the full generated translation unit for a
// handful of small representative programs, mirroring internal/irgen's use
// of go-snaps for the same purpose — a change to the C shape (helper
// prologue, forward declarations, coercions) shows up as a diff against the
// recorded .snap file (go-snaps writes it on the first run).
func TestGenerateGoldenC(t *testing.T) {
	programs := map[string]string{
		"arithmetic": `
def add(a, b) {
	return 0 + a + b;
}
def main() {
	println(add(2, 3));
}
`,
		"control_flow": `
def main() {
	store i = 0;
	while (i < 3) {
		if (i == 1) {
			i = i + 1;
			continue;
		}
		println(i);
		i = i + 1;
	}
}
`,
		"strings": `
def main() {
	store greeting = "hello" + ", " + "world";
	println(greeting);
}
`,
	}

	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			c := generate(t, src)
			snaps.MatchSnapshot(t, c)
		})
	}
}
