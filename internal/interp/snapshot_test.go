package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEvaluationSnapshots runs a handful of representative programs and
// snapshots their console output, the way fixture-driven suites pin
// down observable behavior across many small scripts at once.
func TestEvaluationSnapshots(t *testing.T) {
	programs := []struct {
		name   string
		source string
	}{
		{
			name: "fibonacci",
			source: `
				#Console;
				fun fib(n) {
					if (n < 2) { return n; }
					return fib(n - 1) + fib(n - 2);
				}
				Console.println(fib(10));
			`,
		},
		{
			name: "class_inheritance_like_dispatch",
			source: `
				#Console;
				class Shape {
					fun describe() {
						return "a shape";
					}
				}
				let s = new Shape();
				Console.println(s.describe());
			`,
		},
		{
			name: "exception_unwind",
			source: `
				#Console;
				fun divide(a, b) {
					if (b == 0) { throw "division by zero"; }
					return a / b;
				}
				try {
					divide(1, 0);
				} catch (e) {
					Console.println("caught: " + e);
				}
			`,
		},
		{
			name: "array_value_semantics",
			source: `
				#Console;
				let nums = [1, 2, 3];
				let copy = nums;
				copy[0] = 99;
				Console.println(nums[0]);
				Console.println(copy[0]);
			`,
		},
	}

	for _, p := range programs {
		p := p
		t.Run(p.name, func(t *testing.T) {
			var out bytes.Buffer
			_, diags := RunSource(p.source, Options{Stdout: &out, Stdin: strings.NewReader("")})
			for _, d := range diags {
				if d.Severity == diag.SeverityError {
					t.Fatalf("unexpected error diagnostic: %s", d.String())
				}
			}
			snaps.MatchSnapshot(t, p.name+"_output", out.String())
		})
	}
}
