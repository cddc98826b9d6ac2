package diag

import (
	"strings"
	"testing"

	"github.com/dryad-lang/dryad/pkg/token"
)

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{EUnexpectedChar, SeverityError},
		{EUndefinedVar, SeverityError},
		{WLikelyTypeMismatch, SeverityWarning},
		{WUnreachableCode, SeverityWarning},
		{EInternal, SeverityError},
	}
	for _, tt := range tests {
		if got := SeverityOf(tt.code); got != tt.want {
			t.Errorf("SeverityOf(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{EUnexpectedChar, "lexical"},
		{EUnexpectedToken, "parse"},
		{EUndefinedVar, "runtime"},
		{EFileNotFound, "io"},
		{EModuleNotFound, "module"},
		{WLikelyTypeMismatch, "warning"},
		{EInternal, "system"},
	}
	for _, tt := range tests {
		if got := Category(tt.code); got != tt.want {
			t.Errorf("Category(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	d := New(EUndefinedVar, "undefined variable: x", &token.Position{Line: 3, Column: 5})
	s := d.String()
	if !strings.Contains(s, "ERROR") || !strings.Contains(s, "3:5") || !strings.Contains(s, "undefined variable: x") {
		t.Errorf("unexpected format: %s", s)
	}
}

func TestDiagnosticFormatWithCaret(t *testing.T) {
	source := "let x = 1\nlet y = z\n"
	d := New(EUndefinedVar, "undefined variable: z", &token.Position{Line: 2, Column: 9})
	out := d.Format(source, false)
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "let y = z") {
		t.Errorf("expected source line in output, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "^") {
		t.Errorf("expected a caret line, got %q", lines[2])
	}
}

func TestReporterCap(t *testing.T) {
	r := NewReporter(2)
	r.Add(New(EUndefinedVar, "one", nil))
	r.Add(New(EUndefinedVar, "two", nil))
	r.Add(New(EUndefinedVar, "three", nil))
	if len(r.All()) != 2 {
		t.Fatalf("expected cap to stop accumulation at 2, got %d", len(r.All()))
	}
}

func TestReporterDefaultCap(t *testing.T) {
	r := NewReporter(0)
	for i := 0; i < 15; i++ {
		r.Add(New(EUndefinedVar, "x", nil))
	}
	if len(r.All()) != 10 {
		t.Fatalf("expected default cap of 10, got %d", len(r.All()))
	}
}

func TestReporterErrorAndWarningCounts(t *testing.T) {
	r := NewReporter(10)
	r.Add(New(EUndefinedVar, "err", nil))
	r.Add(New(WLikelyTypeMismatch, "warn", nil))
	if r.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", r.ErrorCount())
	}
	if r.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", r.WarningCount())
	}
	if !r.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
}

func TestWithContext(t *testing.T) {
	d := New(EUndefinedVar, "undefined variable: x", nil).WithContext("foo")
	if !strings.Contains(d.String(), "(in foo)") {
		t.Errorf("expected context suffix, got %q", d.String())
	}
}
