// Package types implements Dryad's best-effort type inferencer: a
// shallow, syntax-driven pass over the AST that produces diagnostics
// for likely type mismatches. It never blocks evaluation and never
// refines its guesses against runtime values — unlike internal/interp,
// it is advisory only (§2 "Type inferencer... used for diagnostics,
// not enforcement").
package types

import (
	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/diag"
)

// Hint is a coarse, best-effort classification of an expression's
// runtime kind, inferred without executing anything.
type Hint int

const (
	Unknown Hint = iota
	Number
	Str
	Bool
	Nil
	ArrayHint
	ObjectHint
	FunctionHint
	InstanceHint
)

func (h Hint) String() string {
	switch h {
	case Number:
		return "number"
	case Str:
		return "string"
	case Bool:
		return "boolean"
	case Nil:
		return "null"
	case ArrayHint:
		return "array"
	case ObjectHint:
		return "object"
	case FunctionHint:
		return "function"
	case InstanceHint:
		return "instance"
	default:
		return "unknown"
	}
}

// scope tracks the best-known Hint for each name declared so far in
// the current block. It does not model closures or chain lookups; a
// miss simply yields Unknown, the conservative "say nothing" answer.
type scope struct {
	hints map[string]Hint
}

func newScope() *scope { return &scope{hints: make(map[string]Hint)} }

// Checker walks a program collecting warnings. It is intentionally
// shallow: it never follows calls into function bodies to learn
// return types, and it forgets everything about a name once it is
// reassigned to an expression it cannot classify.
type Checker struct {
	diags []diag.Diagnostic
}

// NewChecker constructs an empty Checker.
func NewChecker() *Checker { return &Checker{} }

// Check runs the inferencer over prog and returns accumulated
// diagnostics (always warning severity; the inferencer never raises
// errors).
func Check(prog *ast.Program) []diag.Diagnostic {
	c := NewChecker()
	s := newScope()
	for _, stmt := range prog.Statements {
		c.checkStatement(stmt, s)
	}
	return c.diags
}

func (c *Checker) warn(code diag.Code, msg string, n ast.Node) {
	pos := n.Pos()
	c.diags = append(c.diags, diag.New(code, msg, &pos))
}

func (c *Checker) checkStatement(stmt ast.Statement, s *scope) {
	switch st := stmt.(type) {
	case *ast.VarDecl:
		h := Unknown
		if st.Initializer != nil {
			h = c.checkExpression(st.Initializer, s)
		}
		s.hints[st.Name] = h
	case *ast.ExpressionStatement:
		c.checkExpression(st.Expression, s)
	case *ast.BlockStatement:
		for _, inner := range st.Statements {
			c.checkStatement(inner, s)
		}
	case *ast.IfStatement:
		c.checkExpression(st.Condition, s)
		c.checkStatement(st.Then, s)
		if st.Else != nil {
			c.checkStatement(st.Else, s)
		}
	case *ast.WhileStatement:
		c.checkExpression(st.Condition, s)
		c.checkStatement(st.Body, s)
	case *ast.DoWhileStatement:
		c.checkStatement(st.Body, s)
		c.checkExpression(st.Condition, s)
	case *ast.ForStatement:
		if st.Init != nil {
			c.checkStatement(st.Init, s)
		}
		if st.Condition != nil {
			c.checkExpression(st.Condition, s)
		}
		if st.Post != nil {
			c.checkExpression(st.Post, s)
		}
		c.checkStatement(st.Body, s)
	case *ast.ForInStatement:
		c.checkExpression(st.Iterable, s)
		inner := newScope()
		for k, v := range s.hints {
			inner.hints[k] = v
		}
		inner.hints[st.Binding] = Unknown
		c.checkStatement(st.Body, inner)
	case *ast.FunctionDecl:
		fnScope := newScope()
		for _, p := range st.Parameters {
			fnScope.hints[p] = Unknown
		}
		c.checkStatement(st.Body, fnScope)
	case *ast.ClassDecl:
		for _, m := range st.Methods {
			c.checkStatement(m, s)
		}
	case *ast.NamespaceDecl:
		for _, inner := range st.Body {
			c.checkStatement(inner, s)
		}
	case *ast.ExportStatement:
		c.checkStatement(st.Decl, s)
	case *ast.ReturnStatement:
		if st.Value != nil {
			c.checkExpression(st.Value, s)
		}
	case *ast.TryStatement:
		c.checkStatement(st.Try, s)
		if st.CatchBody != nil {
			inner := newScope()
			for k, v := range s.hints {
				inner.hints[k] = v
			}
			if st.CatchBind != "" {
				inner.hints[st.CatchBind] = Unknown
			}
			c.checkStatement(st.CatchBody, inner)
		}
		if st.FinallyBody != nil {
			c.checkStatement(st.FinallyBody, s)
		}
	case *ast.ThrowStatement:
		c.checkExpression(st.Value, s)
	}
}

func (c *Checker) checkExpression(expr ast.Expression, s *scope) Hint {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Number
	case *ast.StringLiteral:
		return Str
	case *ast.BooleanLiteral:
		return Bool
	case *ast.NullLiteral:
		return Nil
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			c.checkExpression(el, s)
		}
		return ArrayHint
	case *ast.Identifier:
		if h, ok := s.hints[e.Value]; ok {
			return h
		}
		return Unknown
	case *ast.AssignExpr:
		h := c.checkExpression(e.Value, s)
		if id, ok := e.Target.(*ast.Identifier); ok {
			s.hints[id.Value] = h
		}
		return h
	case *ast.BinaryExpr:
		return c.checkBinary(e, s)
	case *ast.UnaryExpr:
		h := c.checkExpression(e.Right, s)
		if e.Operator == "!" {
			return Bool
		}
		if e.Operator == "-" && h != Unknown && h != Number {
			c.warn(diag.WLikelyTypeMismatch, "unary '-' applied to a non-number expression", e)
		}
		return Number
	case *ast.UpdateExpr:
		return c.checkExpression(e.Target, s)
	case *ast.CallExpr:
		c.checkExpression(e.Callee, s)
		for _, a := range e.Arguments {
			c.checkExpression(a, s)
		}
		return Unknown
	case *ast.MethodCallExpr:
		c.checkExpression(e.Object, s)
		for _, a := range e.Arguments {
			c.checkExpression(a, s)
		}
		return Unknown
	case *ast.NewExpr:
		for _, a := range e.Arguments {
			c.checkExpression(a, s)
		}
		return InstanceHint
	case *ast.MemberExpr:
		c.checkExpression(e.Object, s)
		return Unknown
	case *ast.IndexExpr:
		c.checkExpression(e.Object, s)
		c.checkExpression(e.Index, s)
		return Unknown
	case *ast.LambdaExpr:
		return FunctionHint
	case *ast.ThisExpr:
		return InstanceHint
	default:
		return Unknown
	}
}

func (c *Checker) checkBinary(e *ast.BinaryExpr, s *scope) Hint {
	left := c.checkExpression(e.Left, s)
	right := c.checkExpression(e.Right, s)

	switch e.Operator {
	case "&&", "||":
		return Bool
	case "==", "!=", "<", "<=", ">", ">=":
		if left != Unknown && right != Unknown && left != right &&
			!(left == Number && right == Number) {
			c.warn(diag.WLikelyTypeMismatch, "comparison between likely-incompatible types ("+left.String()+" vs "+right.String()+")", e)
		}
		return Bool
	case "+":
		// '+' is overloaded for string concatenation; only a known
		// operand that is neither a number nor a string looks suspicious.
		if isDefinitelyIncompatible(left, right) {
			c.warn(diag.WLikelyTypeMismatch, "'+' applied to likely-incompatible types ("+left.String()+" vs "+right.String()+")", e)
		}
		if left == Str || right == Str {
			return Str
		}
		return Number
	case "-", "*", "/", "%":
		if (left != Unknown && left != Number) || (right != Unknown && right != Number) {
			c.warn(diag.WLikelyTypeMismatch, "arithmetic operator '"+e.Operator+"' applied to a non-number operand", e)
		}
		return Number
	default:
		return Unknown
	}
}

func isDefinitelyIncompatible(a, b Hint) bool {
	if a == Unknown || b == Unknown {
		return false
	}
	numericOrString := func(h Hint) bool { return h == Number || h == Str }
	return !numericOrString(a) || !numericOrString(b)
}
