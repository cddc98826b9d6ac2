// Package parser implements a recursive-descent parser with precedence
// climbing for expressions, producing the AST that the evaluator walks.
// Errors are accumulated rather than raised; recovery skips one token and
// resumes at the next statement boundary.
package parser

import (
	"strconv"

	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/lexer"
	"github.com/dryad-lang/dryad/pkg/token"
)

// Precedence levels, lowest to highest, per the documented grammar.
const (
	_ int = iota
	LOWEST
	LAMBDA      // (params) =>
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALITY    // == !=
	RELATIONAL  // < <= > >=
	ADDITIVE    // + -
	MULTIPLICATIVE // * / %
	UNARY       // ! - (prefix), ++ -- (prefix)
	POSTFIX     // ++ -- (postfix), . [] () tuple-index
)

var precedences = map[token.Type]int{
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALITY,
	token.NEQ:      EQUALITY,
	token.LT:       RELATIONAL,
	token.LTE:      RELATIONAL,
	token.GT:       RELATIONAL,
	token.GTE:      RELATIONAL,
	token.PLUS:     ADDITIVE,
	token.MINUS:    ADDITIVE,
	token.STAR:     MULTIPLICATIVE,
	token.SLASH:    MULTIPLICATIVE,
	token.PERCENT:  MULTIPLICATIVE,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
	token.INC:      POSTFIX,
	token.DEC:      POSTFIX,
	token.ASSIGN:   LOWEST + 1,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser consumes a token stream from lexer.Lexer and builds an AST.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	diags []diag.Diagnostic

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New constructs a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixFns = map[token.Type]prefixParseFn{
		token.IDENT:    p.parseIdentifierOrLambda,
		token.NUMBER:   p.parseNumberLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.NULL:     p.parseNullLiteral,
		token.THIS:     p.parseThis,
		token.NEW:      p.parseNewExpr,
		token.LBRACKET: p.parseArrayLiteral,
		token.LPAREN:   p.parseGroupedOrTupleOrLambda,
		token.MINUS:    p.parseUnaryExpr,
		token.NOT:      p.parseUnaryExpr,
		token.INC:      p.parseUnaryExpr,
		token.DEC:      p.parseUnaryExpr,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS: p.parseBinaryExpr, token.MINUS: p.parseBinaryExpr,
		token.STAR: p.parseBinaryExpr, token.SLASH: p.parseBinaryExpr, token.PERCENT: p.parseBinaryExpr,
		token.EQ: p.parseBinaryExpr, token.NEQ: p.parseBinaryExpr,
		token.LT: p.parseBinaryExpr, token.LTE: p.parseBinaryExpr,
		token.GT: p.parseBinaryExpr, token.GTE: p.parseBinaryExpr,
		token.AND: p.parseBinaryExpr, token.OR: p.parseBinaryExpr,
		token.LPAREN:   p.parseCallExpr,
		token.LBRACKET: p.parseIndexExpr,
		token.DOT:      p.parseMemberExpr,
		token.INC:      p.parsePostfixUpdate,
		token.DEC:      p.parsePostfixUpdate,
		token.ASSIGN:   p.parseAssignExpr,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Diagnostics returns every parse-stage diagnostic accumulated so far.
func (p *Parser) Diagnostics() []diag.Diagnostic { return p.diags }

func (p *Parser) addError(code diag.Code, msg string) {
	pos := p.curToken.Pos
	p.diags = append(p.diags, diag.New(code, msg, &pos))
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	lexerDiagsBefore := len(p.l.Diagnostics())
	p.peekToken = p.l.NextToken()
	if after := p.l.Diagnostics(); len(after) > lexerDiagsBefore {
		p.diags = append(p.diags, after[lexerDiagsBefore:]...)
	}
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type, code diag.Code, msg string) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(code, msg)
	return false
}

func (p *Parser) peekError(code diag.Code, msg string) {
	pos := p.peekToken.Pos
	p.diags = append(p.diags, diag.New(code, msg, &pos))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// synchronize implements the documented recovery strategy: report, then
// advance one token and continue.
func (p *Parser) synchronize() {
	p.nextToken()
}

// ParseProgram parses the full token stream into a Program, accumulating
// diagnostics rather than stopping at the first error.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		} else {
			p.synchronize()
		}
	}
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseVarDecl()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForOrForIn()
	case token.FUN:
		return p.parseFunctionDecl(ast.Public, false)
	case token.CLASS:
		return p.parseClassDecl(ast.Public)
	case token.PUBLIC, token.PRIVATE, token.PROTECTED, token.STATIC:
		return p.parseVisibilityLedDecl()
	case token.NAMESPACE:
		return p.parseNamespaceDecl()
	case token.USE:
		return p.parseUseStatement()
	case token.USING:
		return p.parseUsingStatement()
	case token.EXPORT:
		return p.parseExportStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.HASH:
		return p.parseNativeDirective()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVisibilityLedDecl() ast.Statement {
	vis := ast.Public
	isStatic := false

	// visibility and static may appear in either order at top level,
	// matching the class-member grammar.
	for p.curIs(token.PUBLIC) || p.curIs(token.PRIVATE) || p.curIs(token.PROTECTED) || p.curIs(token.STATIC) {
		switch p.curToken.Type {
		case token.PUBLIC:
			vis = ast.Public
		case token.PRIVATE:
			vis = ast.Private
		case token.PROTECTED:
			vis = ast.Protected
		case token.STATIC:
			isStatic = true
		}
		p.nextToken()
	}

	if p.curIs(token.FUN) {
		return p.parseFunctionDecl(vis, isStatic)
	}
	if p.curIs(token.CLASS) {
		return p.parseClassDecl(vis)
	}
	p.addError(diag.EUnexpectedToken, "expected function or class declaration after visibility modifier")
	return nil
}

func (p *Parser) parseVarDecl() ast.Statement {
	decl := &ast.VarDecl{Token: p.curToken}
	if !p.expect(token.IDENT, diag.EExpectedIdent, "expected identifier after 'let'") {
		return nil
	}
	decl.Name = p.curToken.Literal

	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		decl.Initializer = p.parseExpression(LOWEST)
	}
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return decl
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken() // consume '{'
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
		}
	}
	if !p.curIs(token.RBRACE) {
		p.addError(diag.EMissingRBrace, "expected '}' to close block")
	} else {
		p.nextToken()
	}
	return block
}

func (p *Parser) expectBraceBody() *ast.BlockStatement {
	if !p.curIs(token.LBRACE) {
		p.addError(diag.EMissingRBrace, "expected '{' to open block")
		return &ast.BlockStatement{Token: p.curToken}
	}
	return p.parseBlockStatement()
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	p.nextToken()
	stmt.Then = p.expectBraceBody()
	if p.curIs(token.ELSE) {
		p.nextToken()
		if p.curIs(token.IF) {
			stmt.Else = p.parseIfStatement()
		} else {
			stmt.Else = p.expectBraceBody()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	p.nextToken()
	stmt.Body = p.expectBraceBody()
	return stmt
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	stmt := &ast.DoWhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Body = p.expectBraceBody()
	if !p.curIs(token.WHILE) {
		p.addError(diag.EExpectedToken, "expected 'while' after do-block")
		return stmt
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseForOrForIn() ast.Statement {
	forTok := p.curToken
	if !p.expect(token.LPAREN, diag.EUnexpectedToken, "expected '(' after 'for'") {
		return nil
	}
	p.nextToken() // consume '('

	// Disambiguate `for (name in iterable)` from the C-style form by
	// looking for IDENT followed by IN.
	if p.curIs(token.IDENT) && p.peekIs(token.IN) {
		binding := p.curToken.Literal
		p.nextToken() // consume ident
		p.nextToken() // consume 'in'
		iterable := p.parseExpression(LOWEST)
		if !p.expect(token.RPAREN, diag.EMissingRParen, "expected ')' to close for-in header") {
			return nil
		}
		p.nextToken()
		body := p.expectBraceBody()
		return &ast.ForInStatement{Token: forTok, Binding: binding, Iterable: iterable, Body: body}
	}

	stmt := &ast.ForStatement{Token: forTok}
	if !p.curIs(token.SEMI) {
		if p.curIs(token.LET) {
			stmt.Init = p.parseVarDecl()
		} else {
			stmt.Init = p.parseExpressionStatement()
		}
	} else {
		p.nextToken() // consume bare ';'
	}

	if !p.curIs(token.SEMI) {
		stmt.Condition = p.parseExpression(LOWEST)
		p.nextToken()
	}
	if !p.curIs(token.SEMI) {
		p.addError(diag.EMissingSemi, "expected ';' in for-statement header")
	} else {
		p.nextToken()
	}

	if !p.curIs(token.RPAREN) {
		stmt.Post = p.parseExpression(LOWEST)
		p.nextToken()
	}
	if !p.curIs(token.RPAREN) {
		p.addError(diag.EMissingRParen, "expected ')' to close for-statement header")
	} else {
		p.nextToken()
	}
	stmt.Body = p.expectBraceBody()
	return stmt
}

func (p *Parser) parseParamList() []string {
	var params []string
	if !p.expect(token.LPAREN, diag.EUnexpectedToken, "expected '('") {
		return params
	}
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		if !p.curIs(token.IDENT) {
			p.addError(diag.EExpectedParam, "expected parameter name")
			break
		}
		params = append(params, p.curToken.Literal)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(token.RPAREN, diag.EMissingRParen, "expected ')' to close parameter list") {
		return params
	}
	return params
}

func (p *Parser) parseFunctionDecl(vis ast.Visibility, isStatic bool) ast.Statement {
	fn := &ast.FunctionDecl{Token: p.curToken, Visibility: vis, IsStatic: isStatic}
	if !p.expect(token.IDENT, diag.EExpectedFuncName, "expected function name") {
		return nil
	}
	fn.Name = p.curToken.Literal
	fn.Parameters = p.parseParamList()
	p.nextToken()
	fn.Body = p.expectBraceBody()
	return fn
}

func (p *Parser) parseClassDecl(vis ast.Visibility) ast.Statement {
	cls := &ast.ClassDecl{Token: p.curToken, Visibility: vis}
	if !p.expect(token.IDENT, diag.EExpectedIdent, "expected class name") {
		return nil
	}
	cls.Name = p.curToken.Literal
	if !p.expect(token.LBRACE, diag.EUnexpectedToken, "expected '{' to open class body") {
		return nil
	}
	p.nextToken()

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		memberVis := ast.Public
		isStatic := false
		for p.curIs(token.PUBLIC) || p.curIs(token.PRIVATE) || p.curIs(token.PROTECTED) || p.curIs(token.STATIC) {
			switch p.curToken.Type {
			case token.PUBLIC:
				memberVis = ast.Public
			case token.PRIVATE:
				memberVis = ast.Private
			case token.PROTECTED:
				memberVis = ast.Protected
			case token.STATIC:
				isStatic = true
			}
			p.nextToken()
		}

		if p.curIs(token.FUN) {
			if m, ok := p.parseFunctionDecl(memberVis, isStatic).(*ast.FunctionDecl); ok {
				cls.Methods = append(cls.Methods, m)
			}
			continue
		}
		if p.curIs(token.IDENT) {
			field := &ast.FieldDecl{Token: p.curToken, Name: p.curToken.Literal, Visibility: memberVis}
			cls.Fields = append(cls.Fields, field)
			if p.peekIs(token.SEMI) {
				p.nextToken()
			}
			p.nextToken()
			continue
		}
		p.addError(diag.EUnexpectedToken, "expected field or method declaration in class body")
		p.synchronize()
	}
	if !p.curIs(token.RBRACE) {
		p.addError(diag.EMissingRBrace, "expected '}' to close class body")
	} else {
		p.nextToken()
	}
	return cls
}

func (p *Parser) parseNamespaceDecl() ast.Statement {
	ns := &ast.NamespaceDecl{Token: p.curToken}
	if !p.expect(token.IDENT, diag.EExpectedIdent, "expected namespace name") {
		return nil
	}
	ns.Name = p.curToken.Literal
	for p.peekIs(token.DOT) {
		p.nextToken()
		if !p.expect(token.IDENT, diag.EExpectedIdent, "expected identifier after '.' in namespace name") {
			return ns
		}
		ns.Name += "." + p.curToken.Literal
	}
	if !p.expect(token.LBRACE, diag.EUnexpectedToken, "expected '{' to open namespace body") {
		return ns
	}
	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			ns.Body = append(ns.Body, stmt)
		} else {
			p.synchronize()
		}
	}
	if p.curIs(token.RBRACE) {
		p.nextToken()
	}
	return ns
}

func (p *Parser) parseUseStatement() ast.Statement {
	stmt := &ast.UseStatement{Token: p.curToken}
	if !p.expect(token.STRING, diag.EExpectedToken, "expected string literal path after 'use'") {
		return nil
	}
	stmt.Path = p.curToken.Literal
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseUsingStatement() ast.Statement {
	stmt := &ast.UsingStatement{Token: p.curToken}
	if !p.expect(token.IDENT, diag.EExpectedIdent, "expected module path after 'using'") {
		return nil
	}
	stmt.Path = p.curToken.Literal
	for p.peekIs(token.DOT) {
		p.nextToken()
		if !p.expect(token.IDENT, diag.EExpectedIdent, "expected identifier after '.' in module path") {
			return stmt
		}
		stmt.Path += "." + p.curToken.Literal
	}
	if p.peekIs(token.AS) {
		p.nextToken()
		if !p.expect(token.IDENT, diag.EExpectedIdent, "expected alias name after 'as'") {
			return stmt
		}
		stmt.Alias = p.curToken.Literal
	}
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseExportStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	inner := p.parseStatement()
	if inner == nil {
		return nil
	}
	return &ast.ExportStatement{Token: tok, Decl: inner}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekIs(token.SEMI) || p.peekIs(token.RBRACE) {
		p.nextToken()
		if p.curIs(token.SEMI) {
			p.nextToken()
		}
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}
	p.nextToken()
	stmt.Try = p.expectBraceBody()

	if p.curIs(token.CATCH) {
		if !p.expect(token.LPAREN, diag.EUnexpectedToken, "expected '(' after 'catch'") {
			return stmt
		}
		p.nextToken()
		if p.curIs(token.IDENT) {
			stmt.CatchBind = p.curToken.Literal
			p.nextToken()
		}
		if !p.curIs(token.RPAREN) {
			p.addError(diag.EMissingRParen, "expected ')' to close catch binding")
		} else {
			p.nextToken()
		}
		stmt.CatchBody = p.expectBraceBody()
	}
	if p.curIs(token.FINALLY) {
		p.nextToken()
		stmt.FinallyBody = p.expectBraceBody()
	}
	if stmt.CatchBody == nil && stmt.FinallyBody == nil {
		p.addError(diag.EUnexpectedToken, "expected 'catch' or 'finally' after try block")
	}
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseNativeDirective() ast.Statement {
	stmt := &ast.NativeDirective{Token: p.curToken}
	if !p.expect(token.IDENT, diag.EExpectedIdent, "expected module name after '#'") {
		return nil
	}
	stmt.ModuleName = p.curToken.Literal
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if p.peekIs(token.SEMI) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

// parseExpression implements precedence climbing: repeatedly fold infix
// operators whose precedence exceeds the caller's minimum.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.addError(diag.EUnexpectedToken, "no prefix parse function for "+p.curToken.Type.String())
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMI) && minPrec < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifierOrLambda() ast.Expression {
	// `id => expr` is a single-parameter lambda.
	if p.peekIs(token.ARROW) {
		tok := p.curToken
		param := p.curToken.Literal
		p.nextToken() // consume ident
		p.nextToken() // consume '=>'
		body := p.parseExpression(LAMBDA)
		return &ast.LambdaExpr{Token: tok, Parameters: []string{param}, Body: body}
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(diag.EInvalidNumber, "invalid number literal '"+p.curToken.Literal+"'")
	}
	return &ast.NumberLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curIs(token.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.ThisExpr{Token: p.curToken}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken}
	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		return arr
	}
	p.nextToken()
	arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	}
	if !p.expect(token.RBRACKET, diag.EUnexpectedToken, "expected ']' to close array literal") {
		return arr
	}
	return arr
}

// parseGroupedOrTupleOrLambda handles `(expr)`, `(a, b, ...)` as a tuple
// literal, and `(p1, p2) => expr` as a multi-parameter lambda.
func (p *Parser) parseGroupedOrTupleOrLambda() ast.Expression {
	tok := p.curToken

	if p.peekIs(token.RPAREN) {
		// `() => expr`
		p.nextToken() // consume ')'
		if p.peekIs(token.ARROW) {
			p.nextToken() // consume '=>'
			p.nextToken()
			body := p.parseExpression(LAMBDA)
			return &ast.LambdaExpr{Token: tok, Body: body}
		}
		p.addError(diag.EUnexpectedToken, "unexpected empty parentheses")
		return nil
	}

	// Speculatively parse an identifier list for the lambda-parameter
	// case; fall back to grouped/tuple parsing on any mismatch.
	if params, ok := p.tryParseLambdaParams(); ok {
		tokAfterArrow := p.curToken
		p.nextToken()
		body := p.parseExpression(LAMBDA)
		return &ast.LambdaExpr{Token: tokAfterArrow, Parameters: params, Body: body}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if p.peekIs(token.COMMA) {
		tuple := &ast.TupleLiteral{Token: tok, Elements: []ast.Expression{first}}
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			tuple.Elements = append(tuple.Elements, p.parseExpression(LOWEST))
		}
		p.expect(token.RPAREN, diag.EMissingRParen, "expected ')' to close tuple literal")
		return tuple
	}
	p.expect(token.RPAREN, diag.EMissingRParen, "expected ')' to close grouped expression")
	return first
}

// tryParseLambdaParams scans ahead from the current '(' for an
// identifier-comma list (of any length) followed by ')' '=>'. It takes a
// lexer save point first; if the tokens do not form such a list it
// restores the lexer, curToken/peekToken and the diagnostics list and
// returns false. On success curToken is '=>'.
func (p *Parser) tryParseLambdaParams() (params []string, ok bool) {
	save := p.l.SaveState()
	savedCur, savedPeek := p.curToken, p.peekToken
	savedDiagCount := len(p.diags)

	p.nextToken() // move onto first identifier candidate
	for p.curIs(token.IDENT) {
		params = append(params, p.curToken.Literal)
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if p.curIs(token.IDENT) && p.peekIs(token.RPAREN) {
		p.nextToken() // consume last ident -> cur is ')'
		if p.peekIs(token.ARROW) {
			p.nextToken() // cur is ')', peek is '=>' -> advance so cur becomes '=>'
			return params, true
		}
	}

	// Not a lambda parameter list: restore and let the caller fall back.
	p.l.RestoreState(save)
	p.curToken, p.peekToken = savedCur, savedPeek
	if len(p.diags) > savedDiagCount {
		p.diags = p.diags[:savedDiagCount]
	}
	return nil, false
}

func (p *Parser) parseNewExpr() ast.Expression {
	tok := p.curToken
	if !p.expect(token.IDENT, diag.EExpectedIdent, "expected class name after 'new'") {
		return nil
	}
	name := p.curToken.Literal
	args := p.parseCallArguments()
	return &ast.NewExpr{Token: tok, ClassName: name, Arguments: args}
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	tok := p.curToken
	op := p.curToken.Literal
	if tok.Type == token.INC || tok.Type == token.DEC {
		p.nextToken()
		target := p.parseExpression(UNARY)
		return &ast.UpdateExpr{Token: tok, Operator: op, Target: target, Prefix: true}
	}
	p.nextToken()
	right := p.parseExpression(UNARY)
	return &ast.UnaryExpr{Token: tok, Operator: op, Right: right}
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := p.curToken.Literal
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Token: tok, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.AssignExpr{Token: tok, Target: left, Value: value}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	var args []ast.Expression
	if !p.expect(token.LPAREN, diag.EUnexpectedToken, "expected '(' to begin argument list") {
		return args
	}
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	p.expect(token.RPAREN, diag.EMissingRParen, "expected ')' to close argument list")
	return args
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	tok := p.curToken
	if member, ok := callee.(*ast.MemberExpr); ok {
		args := p.parseCallArguments()
		return &ast.MethodCallExpr{Token: tok, Object: member.Object, Name: member.Name, Arguments: args}
	}
	args := p.parseCallArguments()
	return &ast.CallExpr{Token: tok, Callee: callee, Arguments: args}
}

func (p *Parser) parseIndexExpr(obj ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expect(token.RBRACKET, diag.EUnexpectedToken, "expected ']' to close index expression") {
		return &ast.IndexExpr{Token: tok, Object: obj, Index: idx}
	}
	return &ast.IndexExpr{Token: tok, Object: obj, Index: idx}
}

func (p *Parser) parseMemberExpr(obj ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	if p.curIs(token.NUMBER) {
		n, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			p.addError(diag.EInvalidNumber, "invalid tuple index")
		}
		return &ast.TupleIndexExpr{Token: tok, Object: obj, Index: n}
	}
	if !p.curIs(token.IDENT) {
		p.addError(diag.EExpectedIdent, "expected member name after '.'")
		return &ast.MemberExpr{Token: tok, Object: obj, Name: ""}
	}
	return &ast.MemberExpr{Token: tok, Object: obj, Name: p.curToken.Literal}
}

func (p *Parser) parsePostfixUpdate(target ast.Expression) ast.Expression {
	tok := p.curToken
	return &ast.UpdateExpr{Token: tok, Operator: tok.Literal, Target: target, Prefix: false}
}
