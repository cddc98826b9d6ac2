package interp

import (
	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

func (e *Evaluator) evalExpression(expr ast.Expression, env *Environment) value.Value {
	if e.halted() {
		return value.NullValue
	}

	switch ex := expr.(type) {
	case *ast.NumberLiteral:
		return value.Number(ex.Value)
	case *ast.StringLiteral:
		return value.String(ex.Value)
	case *ast.BooleanLiteral:
		return value.Boolean(ex.Value)
	case *ast.NullLiteral:
		return value.NullValue
	case *ast.ArrayLiteral:
		elems := make([]value.Value, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = e.evalExpression(el, env)
		}
		return value.NewArray(elems)
	case *ast.TupleLiteral:
		elems := make([]value.Value, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = e.evalExpression(el, env)
		}
		return value.NewArray(elems)
	case *ast.Identifier:
		return e.evalIdentifier(ex, env)
	case *ast.ThisExpr:
		if e.inStatic {
			e.reportAt(diag.EThisOutsideInstance, "'this' referenced in a static method", ex)
			return value.NullValue
		}
		if inst, ok := env.This(); ok {
			return inst
		}
		e.reportAt(diag.EThisOutsideInstance, "'this' used outside an instance context", ex)
		return value.NullValue
	case *ast.MemberExpr:
		return e.evalMemberExpr(ex, env)
	case *ast.IndexExpr:
		return e.evalIndexExpr(ex, env)
	case *ast.TupleIndexExpr:
		return e.evalTupleIndexExpr(ex, env)
	case *ast.AssignExpr:
		return e.evalAssignExpr(ex, env)
	case *ast.BinaryExpr:
		return e.evalBinaryExpr(ex, env)
	case *ast.UnaryExpr:
		return e.evalUnaryExpr(ex, env)
	case *ast.UpdateExpr:
		return e.evalUpdateExpr(ex, env)
	case *ast.CallExpr:
		return e.evalCallExpr(ex, env)
	case *ast.MethodCallExpr:
		return e.evalMethodCallExpr(ex, env)
	case *ast.NewExpr:
		return e.evalNewExpr(ex, env)
	case *ast.LambdaExpr:
		return &value.Function{
			Name:       "<lambda>",
			Parameters: ex.Parameters,
			Body: &ast.BlockStatement{
				Token:      ex.Token,
				Statements: []ast.Statement{&ast.ReturnStatement{Token: ex.Token, Value: ex.Body}},
			},
			Env: env,
		}
	default:
		return value.NullValue
	}
}

func (e *Evaluator) evalIdentifier(ex *ast.Identifier, env *Environment) value.Value {
	if v, ok := env.Get(ex.Value); ok {
		return v
	}
	canonical := canonicalModuleName(ex.Value)
	if e.Natives.HasModule(canonical) {
		return &value.NativeModule{Name: canonical}
	}
	e.reportAt(diag.EUndefinedVar, "undefined variable: "+ex.Value, ex)
	return value.NullValue
}

// evalMemberExpr handles a plain `object.name` read (not a call). §4.5:
// instance -> fields then methods; class -> static methods only; object
// -> key lookup, missing yields null. When the object is a bare
// identifier, a namespace member stored under the dotted key
// `Name.member` is tried first.
func (e *Evaluator) evalMemberExpr(ex *ast.MemberExpr, env *Environment) value.Value {
	if id, ok := ex.Object.(*ast.Identifier); ok {
		if v, found := env.Get(id.Value + "." + ex.Name); found {
			return v
		}
	}
	obj := e.evalExpression(ex.Object, env)
	if e.halted() {
		return value.NullValue
	}
	return e.memberOf(obj, ex.Name, ex)
}

func (e *Evaluator) memberOf(obj value.Value, name string, n ast.Node) value.Value {
	switch o := obj.(type) {
	case *value.Instance:
		if fv, ok := o.Fields[name]; ok {
			return fv
		}
		if _, ok := o.Class.StaticMethods[name]; ok {
			e.reportAt(diag.EStaticViaInstance, "static method '"+name+"' accessed via an instance", n)
			return value.NullValue
		}
		if m, ok := e.lookupMethod(o.Class, name); ok {
			bound := *m
			bound.BoundThis = o
			return &bound
		}
		e.reportAt(diag.EMethodNotFound, "no such method or field: "+name, n)
		return value.NullValue
	case *value.Class:
		if sm, ok := o.StaticMethods[name]; ok {
			return sm
		}
		if _, ok := e.lookupMethod(o, name); ok {
			e.reportAt(diag.EInstanceViaClass, "instance method '"+name+"' accessed via the class name", n)
			return value.NullValue
		}
		e.reportAt(diag.EMethodNotFound, "no such static method: "+name, n)
		return value.NullValue
	case *value.Object:
		if v, ok := o.Get(name); ok {
			return v
		}
		return value.NullValue
	default:
		e.reportAt(diag.ETypeMismatch, "cannot access member '"+name+"' on this value", n)
		return value.NullValue
	}
}

// lookupMethod finds a non-static method by name on cls, respecting
// visibility against the evaluator's current class context.
func (e *Evaluator) lookupMethod(cls *value.Class, name string) (*value.Function, bool) {
	m, ok := cls.Methods[name]
	if !ok {
		return nil, false
	}
	if (m.Visibility == ast.Private || m.Visibility == ast.Protected) && e.currentClass != cls {
		return nil, false
	}
	return m, true
}

func (e *Evaluator) evalIndexExpr(ex *ast.IndexExpr, env *Environment) value.Value {
	obj := e.evalExpression(ex.Object, env)
	idx := e.evalExpression(ex.Index, env)
	if e.halted() {
		return value.NullValue
	}
	return e.indexOf(obj, idx, ex)
}

func (e *Evaluator) indexOf(obj, idx value.Value, n ast.Node) value.Value {
	switch o := obj.(type) {
	case *value.Array:
		num, ok := idx.(value.Number)
		i := int(num)
		if !ok || i < 0 || i >= len(o.Elements) {
			e.reportAt(diag.EIndexOutOfBounds, "array index out of bounds", n)
			return value.NullValue
		}
		return o.Elements[i]
	case value.String:
		num, ok := idx.(value.Number)
		runes := []rune(string(o))
		i := int(num)
		if !ok || i < 0 || i >= len(runes) {
			e.reportAt(diag.EIndexOutOfBounds, "string index out of bounds", n)
			return value.NullValue
		}
		return value.String(string(runes[i]))
	case *value.Object:
		key, ok := idx.(value.String)
		if !ok {
			e.reportAt(diag.ETypeMismatch, "object index must be a string", n)
			return value.NullValue
		}
		if v, ok := o.Get(string(key)); ok {
			return v
		}
		return value.NullValue
	default:
		e.reportAt(diag.ETypeMismatch, "value is not indexable", n)
		return value.NullValue
	}
}

func (e *Evaluator) evalTupleIndexExpr(ex *ast.TupleIndexExpr, env *Environment) value.Value {
	obj := e.evalExpression(ex.Object, env)
	if e.halted() {
		return value.NullValue
	}
	arr, ok := obj.(*value.Array)
	if !ok || ex.Index < 0 || ex.Index >= len(arr.Elements) {
		e.reportAt(diag.EIndexOutOfBounds, "tuple index out of bounds", ex)
		return value.NullValue
	}
	return arr.Elements[ex.Index]
}

func (e *Evaluator) evalAssignExpr(ex *ast.AssignExpr, env *Environment) value.Value {
	v := e.evalExpression(ex.Value, env)
	if e.halted() {
		return value.NullValue
	}
	e.assignTo(ex.Target, v, env)
	return v
}

func (e *Evaluator) assignTo(target ast.Expression, v value.Value, env *Environment) {
	switch t := target.(type) {
	case *ast.Identifier:
		env.Set(t.Value, v)
	case *ast.MemberExpr:
		obj := e.evalExpression(t.Object, env)
		if inst, ok := obj.(*value.Instance); ok {
			inst.Fields[t.Name] = v
		} else if o, ok := obj.(*value.Object); ok {
			o.Set(t.Name, v)
		} else {
			e.reportAt(diag.ETypeMismatch, "cannot assign to member on this value", t)
		}
	case *ast.IndexExpr:
		obj := e.evalExpression(t.Object, env)
		idx := e.evalExpression(t.Index, env)
		switch o := obj.(type) {
		case *value.Array:
			num, ok := idx.(value.Number)
			i := int(num)
			if ok && i >= 0 && i < len(o.Elements) {
				o.Elements[i] = v
			} else {
				e.reportAt(diag.EIndexOutOfBounds, "array index out of bounds", t)
			}
		case *value.Object:
			if key, ok := idx.(value.String); ok {
				o.Set(string(key), v)
			} else {
				e.reportAt(diag.ETypeMismatch, "object index must be a string", t)
			}
		default:
			e.reportAt(diag.ETypeMismatch, "value is not indexable", t)
		}
	default:
		e.reportAt(diag.ETypeMismatch, "invalid assignment target", target)
	}
}

func (e *Evaluator) evalBinaryExpr(ex *ast.BinaryExpr, env *Environment) value.Value {
	if ex.Operator == "&&" {
		left := e.evalExpression(ex.Left, env)
		if e.halted() || !value.Truthy(left) {
			return left
		}
		return e.evalExpression(ex.Right, env)
	}
	if ex.Operator == "||" {
		left := e.evalExpression(ex.Left, env)
		if e.halted() || value.Truthy(left) {
			return left
		}
		return e.evalExpression(ex.Right, env)
	}

	left := e.evalExpression(ex.Left, env)
	right := e.evalExpression(ex.Right, env)
	if e.halted() {
		return value.NullValue
	}

	switch ex.Operator {
	case "==":
		return value.Boolean(value.Equal(left, right))
	case "!=":
		return value.Boolean(!value.Equal(left, right))
	case "+":
		ln, lok := left.(value.Number)
		rn, rok := right.(value.Number)
		if lok && rok {
			return value.Number(ln + rn)
		}
		_, lstr := left.(value.String)
		_, rstr := right.(value.String)
		if (lok && rstr) || (lstr && rok) {
			if e.Strict {
				e.reportAt(diag.ETypeMismatch, "'+' mixes a number and a string operand in strict mode", ex)
				return value.NullValue
			}
			return value.String(left.String() + right.String())
		}
		if lstr || rstr {
			return value.String(left.String() + right.String())
		}
		e.reportAt(diag.ETypeMismatch, "'+' requires two numbers or a string operand", ex)
		return value.NullValue
	case "-", "*", "/", "%":
		ln, lok := left.(value.Number)
		rn, rok := right.(value.Number)
		if !lok || !rok {
			e.reportAt(diag.ETypeMismatch, "arithmetic operator '"+ex.Operator+"' requires two numbers", ex)
			return value.NullValue
		}
		switch ex.Operator {
		case "-":
			return value.Number(ln - rn)
		case "*":
			return value.Number(ln * rn)
		case "/":
			if rn == 0 {
				e.reportAt(diag.EDivisionByZero, "division by zero", ex)
				return value.NullValue
			}
			return value.Number(ln / rn)
		case "%":
			if rn == 0 {
				e.reportAt(diag.EDivisionByZero, "division by zero", ex)
				return value.NullValue
			}
			return value.Number(float64(int64(ln) % int64(rn)))
		}
	case "<", "<=", ">", ">=":
		if ln, lok := left.(value.Number); lok {
			if rn, rok := right.(value.Number); rok {
				return value.Boolean(compareNumbers(float64(ln), ex.Operator, float64(rn)))
			}
		}
		if ls, lok := left.(value.String); lok {
			if rs, rok := right.(value.String); rok {
				return value.Boolean(compareStrings(string(ls), ex.Operator, string(rs)))
			}
		}
		e.reportAt(diag.ETypeMismatch, "comparison requires two numbers or two strings", ex)
		return value.NullValue
	}
	return value.NullValue
}

func compareNumbers(l float64, op string, r float64) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	default:
		return l >= r
	}
}

func compareStrings(l string, op string, r string) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	default:
		return l >= r
	}
}

func (e *Evaluator) evalUnaryExpr(ex *ast.UnaryExpr, env *Environment) value.Value {
	v := e.evalExpression(ex.Right, env)
	if e.halted() {
		return value.NullValue
	}
	switch ex.Operator {
	case "-":
		n, ok := v.(value.Number)
		if !ok {
			e.reportAt(diag.ETypeMismatch, "unary '-' requires a number", ex)
			return value.NullValue
		}
		return value.Number(-n)
	case "!":
		return value.Boolean(!value.Truthy(v))
	default:
		return value.NullValue
	}
}

func (e *Evaluator) evalUpdateExpr(ex *ast.UpdateExpr, env *Environment) value.Value {
	cur := e.evalExpression(ex.Target, env)
	if e.halted() {
		return value.NullValue
	}
	n, ok := cur.(value.Number)
	if !ok {
		e.reportAt(diag.ETypeMismatch, "'"+ex.Operator+"' requires a number", ex)
		return value.NullValue
	}
	delta := value.Number(1)
	if ex.Operator == "--" {
		delta = -1
	}
	updated := n + delta
	e.assignTo(ex.Target, updated, env)
	if ex.Prefix {
		return updated
	}
	return n
}
