package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

func run(t *testing.T, source string) (value.Value, []diag.Diagnostic, string) {
	t.Helper()
	var out bytes.Buffer
	result, diags := RunSource(source, Options{Stdout: &out, Stdin: strings.NewReader("")})
	return result, diags, out.String()
}

func requireNoErrors(t *testing.T, diags []diag.Diagnostic) {
	t.Helper()
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			t.Fatalf("unexpected error diagnostic: %s", d.String())
		}
	}
}

func TestArithmeticAndPrecedence(t *testing.T) {
	result, diags, _ := run(t, "1 + 2 * 3;")
	requireNoErrors(t, diags)
	if result != value.Number(7) {
		t.Errorf("expected 7, got %v", result)
	}
}

func TestVariablesAndAssignment(t *testing.T) {
	result, diags, _ := run(t, "let x = 1; x = x + 41; x;")
	requireNoErrors(t, diags)
	if result != value.Number(42) {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestBlockDoesNotCreateNewFrame(t *testing.T) {
	result, diags, _ := run(t, `
		let x = 1;
		{
			x = 2;
		}
		x;
	`)
	requireNoErrors(t, diags)
	if result != value.Number(2) {
		t.Errorf("expected block write to land in the enclosing frame: got %v", result)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	result, diags, _ := run(t, `
		fun add(a, b) {
			return a + b;
		}
		add(3, 4);
	`)
	requireNoErrors(t, diags)
	if result != value.Number(7) {
		t.Errorf("expected 7, got %v", result)
	}
}

func TestClosureCapturesDefiningEnvironment(t *testing.T) {
	result, diags, _ := run(t, `
		fun makeAdder(n) {
			return x => x + n;
		}
		let add5 = makeAdder(5);
		add5(10);
	`)
	requireNoErrors(t, diags)
	if result != value.Number(15) {
		t.Errorf("expected 15, got %v", result)
	}
}

func TestClassFieldsAndMethods(t *testing.T) {
	result, diags, _ := run(t, `
		class Counter {
			count;
			fun constructor() {
				this.count = 0;
			}
			fun increment() {
				this.count = this.count + 1;
				return this.count;
			}
		}
		let c = new Counter();
		c.increment();
		c.increment();
	`)
	requireNoErrors(t, diags)
	if result != value.Number(2) {
		t.Errorf("expected 2, got %v", result)
	}
}

func TestStaticMethodViaInstanceIsAnError(t *testing.T) {
	_, diags, _ := run(t, `
		class Factory {
			static fun create() {
				return 1;
			}
		}
		let f = new Factory();
		f.create();
	`)
	found := false
	for _, d := range diags {
		if d.Code == diag.EStaticViaInstance {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EStaticViaInstance, got %v", diags)
	}
}

func TestInstanceMethodViaClassIsAnError(t *testing.T) {
	_, diags, _ := run(t, `
		class Thing {
			fun greet() {
				return "hi";
			}
		}
		Thing.greet();
	`)
	found := false
	for _, d := range diags {
		if d.Code == diag.EInstanceViaClass {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EInstanceViaClass, got %v", diags)
	}
}

func TestThisOutsideInstanceContextIsAnError(t *testing.T) {
	_, diags, _ := run(t, `
		class Thing {
			static fun create() {
				return this;
			}
		}
		Thing.create();
	`)
	found := false
	for _, d := range diags {
		if d.Code == diag.EThisOutsideInstance {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EThisOutsideInstance, got %v", diags)
	}
}

func TestExceptionUnwindingAcrossFunctionCalls(t *testing.T) {
	result, diags, _ := run(t, `
		fun risky() {
			throw "boom";
		}
		let caught = null;
		try {
			risky();
		} catch (e) {
			caught = e;
		}
		caught;
	`)
	requireNoErrors(t, diags)
	if result != value.String("boom") {
		t.Errorf("expected caught value 'boom', got %v", result)
	}
}

func TestFinallyRunsOnNormalPath(t *testing.T) {
	result, diags, _ := run(t, `
		let log = "";
		try {
			log = log + "try";
		} finally {
			log = log + "-finally";
		}
		log;
	`)
	requireNoErrors(t, diags)
	if result != value.String("try-finally") {
		t.Errorf("expected 'try-finally', got %v", result)
	}
}

func TestFinallyExceptionOverridesOriginal(t *testing.T) {
	result, diags, _ := run(t, `
		let caught = null;
		try {
			try {
				throw "first";
			} finally {
				throw "second";
			}
		} catch (e) {
			caught = e;
		}
		caught;
	`)
	// The exception thrown by the finally block replaces the one in
	// flight, so the outer catch sees "second".
	requireNoErrors(t, diags)
	if result != value.String("second") {
		t.Errorf("expected the finally exception to win, got %v", result)
	}
}

func TestArrayValueSemantics(t *testing.T) {
	result, diags, _ := run(t, `
		let a = [1, 2, 3];
		let b = a;
		b[0] = 99;
		a[0];
	`)
	requireNoErrors(t, diags)
	if result != value.Number(1) {
		t.Errorf("plain assignment must copy arrays, not share them: expected a[0] to stay 1, got %v", result)
	}
}

func TestForInOverArray(t *testing.T) {
	result, diags, _ := run(t, `
		let sum = 0;
		for (item in [1, 2, 3]) {
			sum = sum + item;
		}
		sum;
	`)
	requireNoErrors(t, diags)
	if result != value.Number(6) {
		t.Errorf("expected 6, got %v", result)
	}
}

func TestForInOverString(t *testing.T) {
	result, diags, _ := run(t, `
		let out = "";
		for (ch in "abc") {
			out = out + ch;
		}
		out;
	`)
	requireNoErrors(t, diags)
	if result != value.String("abc") {
		t.Errorf("expected 'abc', got %v", result)
	}
}

func TestNamespaceMemberAccess(t *testing.T) {
	result, diags, _ := run(t, `
		namespace Geometry {
			let pi = 3;
		}
		Geometry.pi;
	`)
	requireNoErrors(t, diags)
	if result != value.Number(3) {
		t.Errorf("expected 3, got %v", result)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, diags, _ := run(t, "1 / 0;")
	found := false
	for _, d := range diags {
		if d.Code == diag.EDivisionByZero {
			found = true
		}
	}
	if !found {
		t.Errorf("expected EDivisionByZero, got %v", diags)
	}
}

func TestUndefinedVariableReportsDiagnostic(t *testing.T) {
	_, diags, _ := run(t, "doesNotExist;")
	if len(diags) == 0 || diags[0].Code != diag.EUndefinedVar {
		t.Errorf("expected EUndefinedVar, got %v", diags)
	}
}

func TestConsolePrintUsesProvidedWriter(t *testing.T) {
	_, diags, out := run(t, `#Console; Console.print("hi");`)
	requireNoErrors(t, diags)
	if !strings.Contains(out, "hi") {
		t.Errorf("expected stdout to contain 'hi', got %q", out)
	}
}

func TestDiagnosticRaisedInsideCallCarriesFunctionContext(t *testing.T) {
	_, diags, _ := run(t, `
		fun divide(a, b) {
			return a / b;
		}
		divide(1, 0);
	`)
	found := false
	for _, d := range diags {
		if d.Code == diag.EDivisionByZero {
			found = true
			if d.Context != "divide" {
				t.Errorf("expected diagnostic context 'divide', got %q", d.Context)
			}
		}
	}
	if !found {
		t.Errorf("expected EDivisionByZero, got %v", diags)
	}
}

func TestDiagnosticAtTopLevelCarriesNoContext(t *testing.T) {
	_, diags, _ := run(t, "1 / 0;")
	if len(diags) == 0 || diags[0].Context != "" {
		t.Errorf("expected no context for a top-level diagnostic, got %v", diags)
	}
}
