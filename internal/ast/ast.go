// Package ast defines the Expression and Statement sum types that the
// parser produces and the evaluator walks.
package ast

import (
	"bytes"
	"strings"

	"github.com/dryad-lang/dryad/pkg/token"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself producing
// a value.
type Statement interface {
	Node
	statementNode()
}

// Visibility is the public/private/protected tag on class members and
// top-level function declarations.
type Visibility int

const (
	Public Visibility = iota
	Private
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// Program is the root of the AST: an ordered list of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}
func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// ---- Expressions ----

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()        {}
func (n *NumberLiteral) TokenLiteral() string   { return n.Token.Literal }
func (n *NumberLiteral) String() string         { return n.Token.Literal }
func (n *NumberLiteral) Pos() token.Position    { return n.Token.Pos }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return "\"" + s.Value + "\"" }
func (s *StringLiteral) Pos() token.Position  { return s.Token.Pos }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }
func (b *BooleanLiteral) Pos() token.Position  { return b.Token.Pos }

type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() token.Position  { return n.Token.Pos }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Token    token.Token // '['
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) Pos() token.Position  { return a.Token.Pos }
func (a *ArrayLiteral) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// TupleLiteral is `(e1, e2, ...)` with two or more elements.
type TupleLiteral struct {
	Token    token.Token // '('
	Elements []Expression
}

func (t *TupleLiteral) expressionNode()      {}
func (t *TupleLiteral) TokenLiteral() string { return t.Token.Literal }
func (t *TupleLiteral) Pos() token.Position  { return t.Token.Pos }
func (t *TupleLiteral) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}

// Identifier is a bare name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// ThisExpr is the `this` receiver reference.
type ThisExpr struct {
	Token token.Token
}

func (t *ThisExpr) expressionNode()      {}
func (t *ThisExpr) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpr) String() string       { return "this" }
func (t *ThisExpr) Pos() token.Position  { return t.Token.Pos }

// MemberExpr is `object.name`.
type MemberExpr struct {
	Token  token.Token // '.'
	Object Expression
	Name   string
}

func (m *MemberExpr) expressionNode()      {}
func (m *MemberExpr) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpr) Pos() token.Position  { return m.Token.Pos }
func (m *MemberExpr) String() string       { return m.Object.String() + "." + m.Name }

// IndexExpr is `object[index]`.
type IndexExpr struct {
	Token  token.Token // '['
	Object Expression
	Index  Expression
}

func (ix *IndexExpr) expressionNode()      {}
func (ix *IndexExpr) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpr) Pos() token.Position  { return ix.Token.Pos }
func (ix *IndexExpr) String() string {
	return ix.Object.String() + "[" + ix.Index.String() + "]"
}

// TupleIndexExpr is `object.N` for a literal numeric tuple index.
type TupleIndexExpr struct {
	Token  token.Token // '.'
	Object Expression
	Index  int
}

func (ti *TupleIndexExpr) expressionNode()      {}
func (ti *TupleIndexExpr) TokenLiteral() string { return ti.Token.Literal }
func (ti *TupleIndexExpr) Pos() token.Position  { return ti.Token.Pos }
func (ti *TupleIndexExpr) String() string {
	return ti.Object.String() + "." + string(rune('0'+ti.Index))
}

// AssignExpr is `target = value`, where Target is an Identifier,
// MemberExpr, or IndexExpr.
type AssignExpr struct {
	Token  token.Token // '='
	Target Expression
	Value  Expression
}

func (as *AssignExpr) expressionNode()      {}
func (as *AssignExpr) TokenLiteral() string { return as.Token.Literal }
func (as *AssignExpr) Pos() token.Position  { return as.Token.Pos }
func (as *AssignExpr) String() string {
	return "(" + as.Target.String() + " = " + as.Value.String() + ")"
}

// BinaryExpr is `left operator right`.
type BinaryExpr struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpr) expressionNode()      {}
func (b *BinaryExpr) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpr) Pos() token.Position  { return b.Token.Pos }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// UnaryExpr is `operator expr` (prefix only; `-x`, `!x`).
type UnaryExpr struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (u *UnaryExpr) expressionNode()      {}
func (u *UnaryExpr) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpr) Pos() token.Position  { return u.Token.Pos }
func (u *UnaryExpr) String() string       { return "(" + u.Operator + u.Right.String() + ")" }

// UpdateExpr is pre/post increment or decrement on an L-value target.
type UpdateExpr struct {
	Token    token.Token
	Operator string // "++" or "--"
	Target   Expression
	Prefix   bool
}

func (up *UpdateExpr) expressionNode()      {}
func (up *UpdateExpr) TokenLiteral() string { return up.Token.Literal }
func (up *UpdateExpr) Pos() token.Position  { return up.Token.Pos }
func (up *UpdateExpr) String() string {
	if up.Prefix {
		return up.Operator + up.Target.String()
	}
	return up.Target.String() + up.Operator
}

// CallExpr is `callee(args...)` where Callee names a free function
// (possibly dotted, e.g. `Math.sqrt`) resolved at evaluation time.
type CallExpr struct {
	Token     token.Token // '('
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpr) Pos() token.Position  { return c.Token.Pos }
func (c *CallExpr) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// MethodCallExpr is `object.name(args...)`.
type MethodCallExpr struct {
	Token     token.Token // '('
	Object    Expression
	Name      string
	Arguments []Expression
}

func (m *MethodCallExpr) expressionNode()      {}
func (m *MethodCallExpr) TokenLiteral() string { return m.Token.Literal }
func (m *MethodCallExpr) Pos() token.Position  { return m.Token.Pos }
func (m *MethodCallExpr) String() string {
	args := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		args[i] = a.String()
	}
	return m.Object.String() + "." + m.Name + "(" + strings.Join(args, ", ") + ")"
}

// NewExpr is `new ClassName(args...)`.
type NewExpr struct {
	Token     token.Token // 'new'
	ClassName string
	Arguments []Expression
}

func (n *NewExpr) expressionNode()      {}
func (n *NewExpr) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpr) Pos() token.Position  { return n.Token.Pos }
func (n *NewExpr) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return "new " + n.ClassName + "(" + strings.Join(args, ", ") + ")"
}

// LambdaExpr is `(params) => bodyExpr` or `id => bodyExpr`.
type LambdaExpr struct {
	Token      token.Token // '(' or the parameter identifier
	Parameters []string
	Body       Expression
}

func (l *LambdaExpr) expressionNode()      {}
func (l *LambdaExpr) TokenLiteral() string { return l.Token.Literal }
func (l *LambdaExpr) Pos() token.Position  { return l.Token.Pos }
func (l *LambdaExpr) String() string {
	return "(" + strings.Join(l.Parameters, ", ") + ") => " + l.Body.String()
}

// ---- Statements ----

// VarDecl is `let name = initializer?;`.
type VarDecl struct {
	Token       token.Token // 'let'
	Name        string
	Initializer Expression // nil if absent
}

func (v *VarDecl) statementNode()      {}
func (v *VarDecl) TokenLiteral() string { return v.Token.Literal }
func (v *VarDecl) Pos() token.Position  { return v.Token.Pos }
func (v *VarDecl) String() string {
	if v.Initializer != nil {
		return "let " + v.Name + " = " + v.Initializer.String() + ";"
	}
	return "let " + v.Name + ";"
}

// ExpressionStatement wraps a bare expression used as a statement
// (includes top-level assignment expressions).
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()      {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() token.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string {
	if e.Expression != nil {
		return e.Expression.String() + ";"
	}
	return ";"
}

// BlockStatement is `{ statement* }`.
type BlockStatement struct {
	Token      token.Token // '{'
	Statements []Statement
}

func (b *BlockStatement) statementNode()      {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() token.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Statements {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(s.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement covers both `if` and `if-else`; Else is nil for the former.
type IfStatement struct {
	Token     token.Token // 'if'
	Condition Expression
	Then      *BlockStatement
	Else      Statement // *BlockStatement or *IfStatement (else-if chain), or nil
}

func (i *IfStatement) statementNode()      {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() token.Position  { return i.Token.Pos }
func (i *IfStatement) String() string {
	s := "if (" + i.Condition.String() + ") " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) statementNode()      {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() token.Position  { return w.Token.Pos }
func (w *WhileStatement) String() string {
	return "while (" + w.Condition.String() + ") " + w.Body.String()
}

// DoWhileStatement is `do body while (cond);`.
type DoWhileStatement struct {
	Token     token.Token
	Body      *BlockStatement
	Condition Expression
}

func (d *DoWhileStatement) statementNode()      {}
func (d *DoWhileStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DoWhileStatement) Pos() token.Position  { return d.Token.Pos }
func (d *DoWhileStatement) String() string {
	return "do " + d.Body.String() + " while (" + d.Condition.String() + ");"
}

// ForStatement is the C-style `for (init; cond; post) body`. Init, Cond,
// and Post may each be nil.
type ForStatement struct {
	Token     token.Token
	Init      Statement
	Condition Expression
	Post      Expression
	Body      *BlockStatement
}

func (f *ForStatement) statementNode()      {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) Pos() token.Position  { return f.Token.Pos }
func (f *ForStatement) String() string {
	var sb strings.Builder
	sb.WriteString("for (")
	if f.Init != nil {
		sb.WriteString(f.Init.String())
	}
	sb.WriteString(" ")
	if f.Condition != nil {
		sb.WriteString(f.Condition.String())
	}
	sb.WriteString("; ")
	if f.Post != nil {
		sb.WriteString(f.Post.String())
	}
	sb.WriteString(") ")
	sb.WriteString(f.Body.String())
	return sb.String()
}

// ForInStatement is `for (name in iterable) body`.
type ForInStatement struct {
	Token    token.Token
	Binding  string
	Iterable Expression
	Body     *BlockStatement
}

func (f *ForInStatement) statementNode()      {}
func (f *ForInStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForInStatement) Pos() token.Position  { return f.Token.Pos }
func (f *ForInStatement) String() string {
	return "for (" + f.Binding + " in " + f.Iterable.String() + ") " + f.Body.String()
}

// FunctionDecl is a named function declaration at statement level.
type FunctionDecl struct {
	Token      token.Token // 'fun'
	Name       string
	Parameters []string
	Body       *BlockStatement
	Visibility Visibility
	IsStatic   bool
}

func (fn *FunctionDecl) statementNode()      {}
func (fn *FunctionDecl) TokenLiteral() string { return fn.Token.Literal }
func (fn *FunctionDecl) Pos() token.Position  { return fn.Token.Pos }
func (fn *FunctionDecl) String() string {
	return "fun " + fn.Name + "(" + strings.Join(fn.Parameters, ", ") + ") " + fn.Body.String()
}

// FieldDecl is a class field declaration: `visibility? name;`.
type FieldDecl struct {
	Token      token.Token
	Name       string
	Visibility Visibility
}

// ClassDecl is `class Name { member* }`.
type ClassDecl struct {
	Token      token.Token // 'class'
	Name       string
	Fields     []*FieldDecl
	Methods    []*FunctionDecl
	Visibility Visibility
}

func (c *ClassDecl) statementNode()      {}
func (c *ClassDecl) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDecl) Pos() token.Position  { return c.Token.Pos }
func (c *ClassDecl) String() string {
	var sb strings.Builder
	sb.WriteString("class " + c.Name + " {\n")
	for _, f := range c.Fields {
		sb.WriteString("  " + f.Visibility.String() + " " + f.Name + ";\n")
	}
	for _, m := range c.Methods {
		sb.WriteString("  " + m.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// NamespaceDecl is `namespace A.B.C { body* }`.
type NamespaceDecl struct {
	Token token.Token
	Name  string // dotted
	Body  []Statement
}

func (n *NamespaceDecl) statementNode()      {}
func (n *NamespaceDecl) TokenLiteral() string { return n.Token.Literal }
func (n *NamespaceDecl) Pos() token.Position  { return n.Token.Pos }
func (n *NamespaceDecl) String() string {
	var sb strings.Builder
	sb.WriteString("namespace " + n.Name + " {\n")
	for _, s := range n.Body {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// UseStatement is `use "path";`.
type UseStatement struct {
	Token token.Token
	Path  string
}

func (u *UseStatement) statementNode()      {}
func (u *UseStatement) TokenLiteral() string { return u.Token.Literal }
func (u *UseStatement) Pos() token.Position  { return u.Token.Pos }
func (u *UseStatement) String() string       { return "use \"" + u.Path + "\";" }

// UsingStatement is `using A.B.C;` or `using A.B.C as X;`.
type UsingStatement struct {
	Token token.Token
	Path  string // dotted
	Alias string // empty if no `as X`
}

func (u *UsingStatement) statementNode()      {}
func (u *UsingStatement) TokenLiteral() string { return u.Token.Literal }
func (u *UsingStatement) Pos() token.Position  { return u.Token.Pos }
func (u *UsingStatement) String() string {
	if u.Alias != "" {
		return "using " + u.Path + " as " + u.Alias + ";"
	}
	return "using " + u.Path + ";"
}

// ExportStatement wraps a declaration statement to mark it exported.
type ExportStatement struct {
	Token token.Token
	Decl  Statement
}

func (e *ExportStatement) statementNode()      {}
func (e *ExportStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExportStatement) Pos() token.Position  { return e.Token.Pos }
func (e *ExportStatement) String() string       { return "export " + e.Decl.String() }

// ReturnStatement is `return value?;`.
type ReturnStatement struct {
	Token token.Token
	Value Expression // nil if bare `return;`
}

func (r *ReturnStatement) statementNode()      {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() token.Position  { return r.Token.Pos }
func (r *ReturnStatement) String() string {
	if r.Value != nil {
		return "return " + r.Value.String() + ";"
	}
	return "return;"
}

// TryStatement is `try body (catch (name?) body)? (finally body)?` with
// at least one of Catch/Finally present.
type TryStatement struct {
	Token       token.Token
	Try         *BlockStatement
	CatchBind   string // empty if `catch {}` with no binding, CatchBody nil if no catch clause
	CatchBody   *BlockStatement
	FinallyBody *BlockStatement
}

func (t *TryStatement) statementNode()      {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) Pos() token.Position  { return t.Token.Pos }
func (t *TryStatement) String() string {
	var sb strings.Builder
	sb.WriteString("try " + t.Try.String())
	if t.CatchBody != nil {
		sb.WriteString(" catch (" + t.CatchBind + ") " + t.CatchBody.String())
	}
	if t.FinallyBody != nil {
		sb.WriteString(" finally " + t.FinallyBody.String())
	}
	return sb.String()
}

// ThrowStatement is `throw value;`.
type ThrowStatement struct {
	Token token.Token
	Value Expression
}

func (t *ThrowStatement) statementNode()      {}
func (t *ThrowStatement) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStatement) Pos() token.Position  { return t.Token.Pos }
func (t *ThrowStatement) String() string       { return "throw " + t.Value.String() + ";" }

// NativeDirective is a top-level `#module_name` directive declaring that
// the enclosing file backs a native module.
type NativeDirective struct {
	Token      token.Token // '#'
	ModuleName string
}

func (n *NativeDirective) statementNode()      {}
func (n *NativeDirective) TokenLiteral() string { return n.Token.Literal }
func (n *NativeDirective) Pos() token.Position  { return n.Token.Pos }
func (n *NativeDirective) String() string       { return "#" + n.ModuleName }
