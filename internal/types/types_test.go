package types

import (
	"testing"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/lexer"
	"github.com/dryad-lang/dryad/internal/parser"
)

func checkSource(t *testing.T, input string) []diag.Diagnostic {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected parse diagnostics for %q: %v", input, p.Diagnostics())
	}
	return Check(prog)
}

func hasMismatch(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Code == diag.WLikelyTypeMismatch {
			return true
		}
	}
	return false
}

func TestArithmeticOnKnownNumbersIsClean(t *testing.T) {
	diags := checkSource(t, `let x = 1; let y = 2; x + y;`)
	if hasMismatch(diags) {
		t.Errorf("expected no warnings, got %v", diags)
	}
}

func TestArithmeticOnStringAndNumberWarns(t *testing.T) {
	diags := checkSource(t, `let x = "hi"; let y = 2; x - y;`)
	if !hasMismatch(diags) {
		t.Error("expected a warning for '-' applied to a string operand")
	}
}

func TestPlusBetweenStringAndNumberIsNotFlagged(t *testing.T) {
	// '+' is overloaded for concatenation, so string-vs-number is not
	// "definitely incompatible".
	diags := checkSource(t, `let x = "hi"; let y = 2; x + y;`)
	if hasMismatch(diags) {
		t.Errorf("expected no warning for overloaded '+', got %v", diags)
	}
}

func TestPlusBetweenBoolAndNumberWarns(t *testing.T) {
	diags := checkSource(t, `let x = true; let y = 2; x + y;`)
	if !hasMismatch(diags) {
		t.Error("expected a warning for '+' applied to a boolean and a number")
	}
}

func TestComparisonBetweenIncompatibleTypesWarns(t *testing.T) {
	diags := checkSource(t, `let x = "hi"; let y = true; x == y;`)
	if !hasMismatch(diags) {
		t.Error("expected a warning comparing a string to a boolean")
	}
}

func TestComparisonBetweenNumberAndNumberIsClean(t *testing.T) {
	diags := checkSource(t, `let x = 1; let y = 2; x < y;`)
	if hasMismatch(diags) {
		t.Errorf("expected no warnings, got %v", diags)
	}
}

func TestUnaryMinusOnStringWarns(t *testing.T) {
	diags := checkSource(t, `let x = "hi"; -x;`)
	if !hasMismatch(diags) {
		t.Error("expected a warning for unary '-' applied to a string")
	}
}

func TestUnaryNotNeverWarns(t *testing.T) {
	diags := checkSource(t, `let x = "hi"; !x;`)
	if hasMismatch(diags) {
		t.Errorf("'!' coerces any hint to boolean and should never warn, got %v", diags)
	}
}

func TestUnknownHintsAreNeverFlagged(t *testing.T) {
	// Parameters carry Unknown hints; the checker must stay silent
	// rather than guess.
	diags := checkSource(t, `
		fun add(a, b) {
			return a + b;
		}
	`)
	if hasMismatch(diags) {
		t.Errorf("expected no warnings for unknown parameter hints, got %v", diags)
	}
}

func TestForInBindingDoesNotLeakIntoOuterScope(t *testing.T) {
	// The loop binding is Unknown inside a child scope; reusing the
	// same name afterward should not inherit a stale hint.
	diags := checkSource(t, `
		let item = 1;
		for (item in [1, 2, 3]) {
			let y = item - 1;
		}
		item - 1;
	`)
	if hasMismatch(diags) {
		t.Errorf("expected no warnings, got %v", diags)
	}
}

func TestAssignReclassifiesKnownHint(t *testing.T) {
	diags := checkSource(t, `
		let x = 1;
		x = "now a string";
		x - 1;
	`)
	if !hasMismatch(diags) {
		t.Error("expected reassignment to update the tracked hint and trigger a warning")
	}
}

func TestReturnExpressionIsChecked(t *testing.T) {
	diags := checkSource(t, `
		fun risky() {
			let x = "hi";
			return -x;
		}
	`)
	if !hasMismatch(diags) {
		t.Error("expected the returned unary expression to be checked")
	}
}

func TestClassMethodBodyIsChecked(t *testing.T) {
	diags := checkSource(t, `
		class Thing {
			fun bad() {
				let x = "hi";
				return x - 1;
			}
		}
	`)
	if !hasMismatch(diags) {
		t.Error("expected a method body to be checked for mismatches")
	}
}

func TestHintStringNames(t *testing.T) {
	cases := []struct {
		h    Hint
		want string
	}{
		{Number, "number"},
		{Str, "string"},
		{Bool, "boolean"},
		{Nil, "null"},
		{ArrayHint, "array"},
		{ObjectHint, "object"},
		{FunctionHint, "function"},
		{InstanceHint, "instance"},
		{Unknown, "unknown"},
	}
	for _, c := range cases {
		if got := c.h.String(); got != c.want {
			t.Errorf("Hint(%d).String() = %q, want %q", c.h, got, c.want)
		}
	}
}

func TestDiagnosticsAreAlwaysWarnings(t *testing.T) {
	diags := checkSource(t, `let x = "hi"; let y = true; x + y;`)
	for _, d := range diags {
		if d.Severity != diag.SeverityWarning {
			t.Errorf("expected all inferencer diagnostics to be warnings, got %v for code %d", d.Severity, d.Code)
		}
	}
}
