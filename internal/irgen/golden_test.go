package irgen

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGenerateGoldenIR snapshots the full IR text for a handful of small
// representative programs, so a change to emitted instruction shape shows
// up as a diff against the recorded .snap file (go-snaps writes it on the
// first run) rather than only against hand-picked substring assertions.
func TestGenerateGoldenIR(t *testing.T) {
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
			ir := generate(t, src)
			snaps.MatchSnapshot(t, ir)
		})
	}
}
