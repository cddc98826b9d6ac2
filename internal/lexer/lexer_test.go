package lexer

import (
	"testing"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/pkg/token"
)

func TestNextToken(t *testing.T) {
	input := `let x = 5;
	x = x + 10;
	`

	tests := []struct {
		expectedLiteral string
		expectedType    token.Type
	}{
		{"let", token.LET},
		{"x", token.IDENT},
		{"=", token.ASSIGN},
		{"5", token.NUMBER},
		{";", token.SEMI},
		{"x", token.IDENT},
		{"=", token.ASSIGN},
		{"x", token.IDENT},
		{"+", token.PLUS},
		{"10", token.NUMBER},
		{";", token.SEMI},
		{"", token.EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywordsAndOperators(t *testing.T) {
	input := `fun class new this public private protected static
		namespace use using as export try catch finally throw
		true false null if else while for do in return
		== != <= >= && || ++ -- => #`

	tests := []token.Type{
		token.FUN, token.CLASS, token.NEW, token.THIS, token.PUBLIC, token.PRIVATE, token.PROTECTED, token.STATIC,
		token.NAMESPACE, token.USE, token.USING, token.AS, token.EXPORT, token.TRY, token.CATCH, token.FINALLY, token.THROW,
		token.TRUE, token.FALSE, token.NULL, token.IF, token.ELSE, token.WHILE, token.FOR, token.DO, token.IN, token.RETURN,
		token.EQ, token.NEQ, token.LTE, token.GTE, token.AND, token.OR, token.INC, token.DEC, token.ARROW, token.HASH,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s (literal=%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello world"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Literal != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", tok.Literal)
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("let\nx = 1;")
	tok := l.NextToken() // let
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("expected 1:1, got %d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	tok = l.NextToken() // x, on line 2
	if tok.Pos.Line != 2 {
		t.Fatalf("expected line 2, got %d", tok.Pos.Line)
	}
}

func TestIllegalCharacterProducesDiagnostic(t *testing.T) {
	l := New("let x = @;")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Diagnostics()) == 0 {
		t.Fatalf("expected a lexical diagnostic for '@'")
	}
}

func TestDuplicateDotProducesDiagnostic(t *testing.T) {
	l := New("1.2.3")
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.Diagnostics()) == 0 {
		t.Fatalf("expected a lexical diagnostic for '1.2.3'")
	}
	if got := l.Diagnostics()[0].Code; got != diag.EInvalidNumber {
		t.Fatalf("expected EInvalidNumber, got %v", got)
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New("abc def")
	saved := l.SaveState()

	first := l.NextToken()
	if first.Literal != "abc" {
		t.Fatalf("expected abc, got %q", first.Literal)
	}

	l.RestoreState(saved)
	again := l.NextToken()
	if again.Literal != "abc" {
		t.Fatalf("after restore expected abc again, got %q", again.Literal)
	}
}
