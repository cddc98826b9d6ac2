package interp

import (
	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/module"
	"github.com/dryad-lang/dryad/internal/native"
	"github.com/dryad-lang/dryad/internal/value"
)

// Evaluator walks an AST depth-first against an Environment, a native
// registry, and a module loader, accumulating diagnostics rather than
// raising Go errors (§4.5: "Never throws; every error becomes a
// diagnostic").
type Evaluator struct {
	Global   *Environment
	Reporter *diag.Reporter
	Natives  *native.Registry
	Loader   *module.Loader

	// Function-call state machine.
	returning   bool
	returnValue value.Value

	// Exception-unwinding state machine (§4.5 "State machines").
	unwinding   bool
	unwindValue value.Value

	// Static-vs-instance dispatch context.
	currentClass    *value.Class
	currentInstance *value.Instance
	inStatic        bool

	// callStack names the function/method frames currently entered,
	// innermost last. Diagnostics raised while it is non-empty carry
	// the innermost name as their Context (§12 "Exception payloads and
	// stack context").
	callStack []string

	// Strict toggles E3006 for mixed number/string '+' instead of
	// concatenating (§4.5).
	Strict bool
}

// NewEvaluator builds an Evaluator with a fresh global frame.
func NewEvaluator(natives *native.Registry, loader *module.Loader, maxDiags int) *Evaluator {
	return &Evaluator{
		Global:   NewEnvironment(nil),
		Reporter: diag.NewReporter(maxDiags),
		Natives:  natives,
		Loader:   loader,
	}
}

func (e *Evaluator) report(d diag.Diagnostic) {
	if len(e.callStack) > 0 && d.Context == "" {
		d = d.WithContext(e.callStack[len(e.callStack)-1])
	}
	e.Reporter.Add(d)
}

func (e *Evaluator) reportAt(code diag.Code, msg string, n ast.Node) {
	pos := n.Pos()
	e.report(diag.New(code, msg, &pos))
}

// halted reports whether the evaluator should stop executing further
// statements in the current block: either a `return` or an in-flight
// exception is propagating.
func (e *Evaluator) halted() bool {
	return e.returning || e.unwinding
}

// Run evaluates every top-level statement in prog against e.Global and
// returns the value of the last expression statement, if any.
func (e *Evaluator) Run(prog *ast.Program) value.Value {
	var last value.Value = value.NullValue
	for _, stmt := range prog.Statements {
		if e.halted() {
			break
		}
		if v := e.evalStatement(stmt, e.Global); v != nil {
			last = v
		}
	}
	return last
}

// ---- Statements ----

func (e *Evaluator) evalBlock(b *ast.BlockStatement, env *Environment) value.Value {
	var last value.Value = value.NullValue
	for _, stmt := range b.Statements {
		if e.halted() {
			break
		}
		if v := e.evalStatement(stmt, env); v != nil {
			last = v
		}
	}
	return last
}

func (e *Evaluator) evalStatement(stmt ast.Statement, env *Environment) value.Value {
	switch st := stmt.(type) {
	case *ast.VarDecl:
		v := value.Value(value.NullValue)
		if st.Initializer != nil {
			v = e.evalExpression(st.Initializer, env)
		}
		env.Define(st.Name, v)
		return nil

	case *ast.ExpressionStatement:
		return e.evalExpression(st.Expression, env)

	case *ast.BlockStatement:
		return e.evalBlock(st, env)

	case *ast.IfStatement:
		cond := e.evalExpression(st.Condition, env)
		if e.halted() {
			return nil
		}
		if value.Truthy(cond) {
			e.evalBlock(st.Then, env)
		} else if st.Else != nil {
			e.evalStatement(st.Else, env)
		}
		return nil

	case *ast.WhileStatement:
		for !e.halted() {
			cond := e.evalExpression(st.Condition, env)
			if e.halted() || !value.Truthy(cond) {
				break
			}
			e.evalBlock(st.Body, env)
		}
		return nil

	case *ast.DoWhileStatement:
		for {
			e.evalBlock(st.Body, env)
			if e.halted() {
				break
			}
			cond := e.evalExpression(st.Condition, env)
			if e.halted() || !value.Truthy(cond) {
				break
			}
		}
		return nil

	case *ast.ForStatement:
		if st.Init != nil {
			e.evalStatement(st.Init, env)
		}
		for !e.halted() {
			if st.Condition != nil {
				cond := e.evalExpression(st.Condition, env)
				if e.halted() || !value.Truthy(cond) {
					break
				}
			}
			e.evalBlock(st.Body, env)
			if e.halted() {
				break
			}
			if st.Post != nil {
				e.evalExpression(st.Post, env)
			}
		}
		return nil

	case *ast.ForInStatement:
		return e.evalForIn(st, env)

	case *ast.FunctionDecl:
		fn := &value.Function{
			Name:       st.Name,
			Parameters: st.Parameters,
			Body:       st.Body,
			Env:        env,
			Visibility: st.Visibility,
			IsStatic:   st.IsStatic,
		}
		env.Define(st.Name, fn)
		return nil

	case *ast.ClassDecl:
		e.evalClassDecl(st, env)
		return nil

	case *ast.NamespaceDecl:
		e.evalNamespaceDecl(st, env)
		return nil

	case *ast.UseStatement:
		e.evalUseStatement(st, env)
		return nil

	case *ast.UsingStatement:
		e.evalUsingStatement(st, env)
		return nil

	case *ast.ExportStatement:
		e.evalExportStatement(st, env)
		return nil

	case *ast.ReturnStatement:
		v := value.Value(value.NullValue)
		if st.Value != nil {
			v = e.evalExpression(st.Value, env)
		}
		if !e.unwinding {
			e.returning = true
			e.returnValue = v
		}
		return nil

	case *ast.TryStatement:
		e.evalTryStatement(st, env)
		return nil

	case *ast.ThrowStatement:
		v := e.evalExpression(st.Value, env)
		if !e.halted() {
			e.unwinding = true
			e.unwindValue = v
		}
		return nil

	case *ast.NativeDirective:
		name := st.ModuleName
		canonical := canonicalModuleName(name)
		if e.Natives.HasModule(canonical) {
			env.Define(name, &value.NativeModule{Name: canonical})
		} else {
			e.reportAt(diag.EModuleNotFound, "unknown native module: "+name, st)
		}
		return nil

	default:
		return nil
	}
}

func (e *Evaluator) evalForIn(st *ast.ForInStatement, env *Environment) value.Value {
	iterable := e.evalExpression(st.Iterable, env)
	if e.halted() {
		return nil
	}

	switch it := iterable.(type) {
	case *value.Array:
		for _, el := range it.Elements {
			if e.halted() {
				break
			}
			env.Define(st.Binding, el)
			e.evalBlock(st.Body, env)
		}
	case value.String:
		for _, r := range string(it) {
			if e.halted() {
				break
			}
			env.Define(st.Binding, value.String(string(r)))
			e.evalBlock(st.Body, env)
		}
	case *value.Object:
		for _, k := range it.Keys() {
			if e.halted() {
				break
			}
			env.Define(st.Binding, value.String(k))
			e.evalBlock(st.Body, env)
		}
	default:
		e.reportAt(diag.EIterableRequired, "for-in requires an array, string, or object", st)
	}
	return nil
}

func (e *Evaluator) evalClassDecl(st *ast.ClassDecl, env *Environment) {
	cls := &value.Class{
		Name:          st.Name,
		Fields:        st.Fields,
		Methods:       make(map[string]*value.Function),
		StaticMethods: make(map[string]*value.Function),
	}
	// Pass 1: declare the name with empty tables so methods whose bodies
	// reference the class recursively (e.g. a factory method) see it.
	env.Define(st.Name, cls)

	// Pass 2: populate method tables; every method closes over env, not
	// a per-instance frame.
	for _, m := range st.Methods {
		fn := &value.Function{
			Name:       m.Name,
			Parameters: m.Parameters,
			Body:       m.Body,
			Env:        env,
			Visibility: m.Visibility,
			IsStatic:   m.IsStatic,
		}
		if m.IsStatic {
			cls.StaticMethods[m.Name] = fn
		} else {
			cls.Methods[m.Name] = fn
		}
	}
}

func (e *Evaluator) evalNamespaceDecl(st *ast.NamespaceDecl, env *Environment) {
	child := NewEnvironment(env)
	for _, inner := range st.Body {
		if e.halted() {
			break
		}
		e.evalStatement(inner, child)
	}
	for name, v := range child.vars {
		env.DefineInNamespace(st.Name, name, v)
	}
}

func (e *Evaluator) evalUseStatement(st *ast.UseStatement, env *Environment) {
	stmts, d, ok := e.Loader.Load(st.Path)
	if !ok {
		e.report(d)
		return
	}
	child := NewEnvironment(e.Global)
	for _, inner := range stmts {
		if e.halted() {
			break
		}
		e.evalStatement(inner, child)
	}
	for name, v := range child.Exports() {
		env.ExportItem(name, v)
	}
}

func (e *Evaluator) evalUsingStatement(st *ast.UsingStatement, env *Environment) {
	alias := st.Alias
	if alias == "" {
		segments := splitDotted(st.Path)
		alias = segments[len(segments)-1]
	}
	env.AddAlias(alias, st.Path)

	if !e.Loader.IsLoaded(st.Path) {
		// Best-effort: `using` only needs a backing file when the
		// aliased path isn't already a namespace populated some other
		// way, so a miss here is silent rather than diagnosed.
		if stmts, _, ok := e.Loader.Load(st.Path); ok {
			child := NewEnvironment(e.Global)
			for _, inner := range stmts {
				e.evalStatement(inner, child)
			}
			for name, v := range child.Exports() {
				env.DefineInNamespace(st.Path, name, v)
			}
		}
	}
}

func (e *Evaluator) evalExportStatement(st *ast.ExportStatement, env *Environment) {
	e.evalStatement(st.Decl, env)
	var name string
	switch d := st.Decl.(type) {
	case *ast.VarDecl:
		name = d.Name
	case *ast.FunctionDecl:
		name = d.Name
	case *ast.ClassDecl:
		name = d.Name
	default:
		return
	}
	if v, ok := env.Get(name); ok {
		env.ExportItem(name, v)
	}
}

func (e *Evaluator) evalTryStatement(st *ast.TryStatement, env *Environment) {
	e.evalBlock(st.Try, env)

	if e.unwinding && st.CatchBody != nil {
		thrown := e.unwindValue
		e.unwinding = false
		e.unwindValue = nil

		catchEnv := NewEnvironment(env)
		if st.CatchBind != "" {
			catchEnv.Define(st.CatchBind, thrown)
		}
		e.evalBlock(st.CatchBody, catchEnv)
	}

	if st.FinallyBody != nil {
		pendingUnwind, pendingValue := e.unwinding, e.unwindValue
		pendingReturn, pendingReturnVal := e.returning, e.returnValue
		e.unwinding, e.unwindValue = false, nil
		e.returning, e.returnValue = false, nil

		e.evalBlock(st.FinallyBody, env)

		if !e.unwinding && !e.returning {
			e.unwinding, e.unwindValue = pendingUnwind, pendingValue
			e.returning, e.returnValue = pendingReturn, pendingReturnVal
		}
	}
}

func splitDotted(s string) []string {
	out := []string{""}
	start := 0
	for i, r := range s {
		if r == '.' {
			out[len(out)-1] = s[start:i]
			out = append(out, "")
			start = i + 1
		}
	}
	out[len(out)-1] = s[start:]
	return out
}

func canonicalModuleName(name string) string {
	if name == "" {
		return name
	}
	if name[0] >= 'a' && name[0] <= 'z' {
		return string(name[0]-'a'+'A') + name[1:]
	}
	return name
}
