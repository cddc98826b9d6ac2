package parser

import (
	"testing"

	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", input, p.Diagnostics())
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parseProgram(t, "let x = 5;")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Statements[0])
	}
	if decl.Name != "x" {
		t.Errorf("expected name 'x', got %q", decl.Name)
	}
	num, ok := decl.Initializer.(*ast.NumberLiteral)
	if !ok || num.Value != 5 {
		t.Errorf("expected initializer 5, got %#v", decl.Initializer)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"1 < 2 == true;", "((1 < 2) == true)"},
		{"a = b = 1;", "(a = (b = 1))"},
	}
	for _, tt := range tests {
		prog := parseProgram(t, tt.input)
		stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("expected ExpressionStatement for %q, got %T", tt.input, prog.Statements[0])
		}
		if got := stmt.Expression.String(); got != tt.want {
			t.Errorf("input %q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseIfElseIf(t *testing.T) {
	prog := parseProgram(t, `
		if (x > 0) {
			let y = 1;
		} else if (x < 0) {
			let y = -1;
		} else {
			let y = 0;
		}
	`)
	stmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Statements[0])
	}
	elseIf, ok := stmt.Else.(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected else-if chain, got %T", stmt.Else)
	}
	if _, ok := elseIf.Else.(*ast.BlockStatement); !ok {
		t.Fatalf("expected final else block, got %T", elseIf.Else)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog := parseProgram(t, `
		fun add(a, b) {
			return a + b;
		}
	`)
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "add" {
		t.Errorf("expected name 'add', got %q", fn.Name)
	}
	if len(fn.Parameters) != 2 || fn.Parameters[0] != "a" || fn.Parameters[1] != "b" {
		t.Errorf("unexpected parameters: %v", fn.Parameters)
	}
}

func TestParseClassWithVisibilityAndStatic(t *testing.T) {
	prog := parseProgram(t, `
		class Counter {
			private count;
			static fun create() {
				return new Counter();
			}
			fun increment() {
				this.count = this.count + 1;
			}
		}
	`)
	cls, ok := prog.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Statements[0])
	}
	if len(cls.Fields) != 1 || cls.Fields[0].Name != "count" || cls.Fields[0].Visibility != ast.Private {
		t.Fatalf("unexpected fields: %#v", cls.Fields)
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(cls.Methods))
	}
	if !cls.Methods[0].IsStatic {
		t.Error("expected first method to be static")
	}
	if cls.Methods[1].IsStatic {
		t.Error("expected second method to be instance-level")
	}
}

func TestParseLambdaSingleAndMultiParam(t *testing.T) {
	prog := parseProgram(t, `
		let f = x => x + 1;
		let g = (a, b) => a + b;
		let h = () => 1;
	`)
	for i, want := range []int{1, 2, 0} {
		decl := prog.Statements[i].(*ast.VarDecl)
		lambda, ok := decl.Initializer.(*ast.LambdaExpr)
		if !ok {
			t.Fatalf("statement %d: expected *ast.LambdaExpr, got %T", i, decl.Initializer)
		}
		if len(lambda.Parameters) != want {
			t.Errorf("statement %d: expected %d parameters, got %d", i, want, len(lambda.Parameters))
		}
	}
}

func TestParseForIn(t *testing.T) {
	prog := parseProgram(t, `
		for (item in items) {
			let x = item;
		}
	`)
	st, ok := prog.Statements[0].(*ast.ForInStatement)
	if !ok {
		t.Fatalf("expected *ast.ForInStatement, got %T", prog.Statements[0])
	}
	if st.Binding != "item" {
		t.Errorf("expected binding 'item', got %q", st.Binding)
	}
}

func TestParseCStyleFor(t *testing.T) {
	prog := parseProgram(t, `
		for (let i = 0; i < 10; i++) {
			let x = i;
		}
	`)
	st, ok := prog.Statements[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", prog.Statements[0])
	}
	if st.Init == nil || st.Condition == nil || st.Post == nil {
		t.Fatalf("expected all three for-header clauses populated: %#v", st)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := parseProgram(t, `
		try {
			throw "boom";
		} catch (e) {
			let caught = e;
		} finally {
			let done = true;
		}
	`)
	st, ok := prog.Statements[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected *ast.TryStatement, got %T", prog.Statements[0])
	}
	if st.CatchBind != "e" {
		t.Errorf("expected catch binding 'e', got %q", st.CatchBind)
	}
	if st.CatchBody == nil || st.FinallyBody == nil {
		t.Fatal("expected both catch and finally bodies")
	}
}

func TestParseUseAndExport(t *testing.T) {
	prog := parseProgram(t, `
		use "lib/math";
		export let pi = 3;
	`)
	use, ok := prog.Statements[0].(*ast.UseStatement)
	if !ok || use.Path != "lib/math" {
		t.Fatalf("unexpected use statement: %#v", prog.Statements[0])
	}
	exp, ok := prog.Statements[1].(*ast.ExportStatement)
	if !ok {
		t.Fatalf("expected *ast.ExportStatement, got %T", prog.Statements[1])
	}
	if _, ok := exp.Decl.(*ast.VarDecl); !ok {
		t.Fatalf("expected exported var decl, got %T", exp.Decl)
	}
}

func TestParseTupleLiteral(t *testing.T) {
	prog := parseProgram(t, `let pair = (1, 2);`)
	decl := prog.Statements[0].(*ast.VarDecl)
	tup, ok := decl.Initializer.(*ast.TupleLiteral)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("expected 2-element tuple literal, got %#v", decl.Initializer)
	}
}

func TestParseErrorRecoveryContinuesAfterBadToken(t *testing.T) {
	l := lexer.New("let x = ;\nlet y = 1;")
	p := New(l)
	prog := p.ParseProgram()
	if len(p.Diagnostics()) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	// Recovery should still let the second declaration parse.
	found := false
	for _, stmt := range prog.Statements {
		if decl, ok := stmt.(*ast.VarDecl); ok && decl.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Error("expected parser to recover and still parse 'let y = 1;'")
	}
}
