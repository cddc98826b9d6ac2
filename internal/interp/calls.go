package interp

import (
	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

func (e *Evaluator) evalArgs(args []ast.Expression, env *Environment) []value.Value {
	out := make([]value.Value, len(args))
	for i, a := range args {
		out[i] = e.evalExpression(a, env)
		if e.halted() {
			return out[:i+1]
		}
	}
	return out
}

func (e *Evaluator) evalCallExpr(ex *ast.CallExpr, env *Environment) value.Value {
	callee := e.evalExpression(ex.Callee, env)
	if e.halted() {
		return value.NullValue
	}
	args := e.evalArgs(ex.Arguments, env)
	if e.halted() {
		return value.NullValue
	}

	fn, ok := callee.(*value.Function)
	if !ok {
		e.reportAt(diag.EFunctionNotFound, "value is not callable", ex)
		return value.NullValue
	}
	return e.callFunction(fn, args, nil, ex)
}

func (e *Evaluator) evalMethodCallExpr(ex *ast.MethodCallExpr, env *Environment) value.Value {
	obj := e.evalExpression(ex.Object, env)
	if e.halted() {
		return value.NullValue
	}
	args := e.evalArgs(ex.Arguments, env)
	if e.halted() {
		return value.NullValue
	}

	switch o := obj.(type) {
	case *value.NativeModule:
		result, d, ok := e.Natives.Call(o.Name, ex.Name, args)
		if !ok {
			if d != nil {
				e.report(*d)
			} else {
				e.reportAt(diag.EFunctionNotFound, "no such native function: "+o.Name+"."+ex.Name, ex)
			}
			return value.NullValue
		}
		return result
	case *value.Instance:
		if _, ok := o.Class.StaticMethods[ex.Name]; ok {
			e.reportAt(diag.EStaticViaInstance, "static method '"+ex.Name+"' called via an instance", ex)
			return value.NullValue
		}
		m, ok := e.lookupMethod(o.Class, ex.Name)
		if !ok {
			e.reportAt(diag.EMethodNotFound, "no such method: "+ex.Name, ex)
			return value.NullValue
		}
		return e.callFunction(m, args, o, ex)
	case *value.Class:
		if sm, ok := o.StaticMethods[ex.Name]; ok {
			return e.callFunction(sm, args, nil, ex)
		}
		if _, ok := e.lookupMethod(o, ex.Name); ok {
			e.reportAt(diag.EInstanceViaClass, "instance method '"+ex.Name+"' called via the class name", ex)
			return value.NullValue
		}
		e.reportAt(diag.EMethodNotFound, "no such static method: "+ex.Name, ex)
		return value.NullValue
	default:
		e.reportAt(diag.EMethodNotFound, "no such method: "+ex.Name, ex)
		return value.NullValue
	}
}

func (e *Evaluator) evalNewExpr(ex *ast.NewExpr, env *Environment) value.Value {
	v, ok := env.Get(ex.ClassName)
	if !ok {
		e.reportAt(diag.EUndefinedVar, "undefined class: "+ex.ClassName, ex)
		return value.NullValue
	}
	cls, ok := v.(*value.Class)
	if !ok {
		e.reportAt(diag.ETypeMismatch, ex.ClassName+" is not a class", ex)
		return value.NullValue
	}

	args := e.evalArgs(ex.Arguments, env)
	if e.halted() {
		return value.NullValue
	}

	inst := value.NewInstance(cls)
	if ctor, ok := cls.Methods["constructor"]; ok {
		e.callFunction(ctor, args, inst, ex)
	}
	return inst
}

// callFunction enters a new frame, binds this/parameters, executes the
// body, and implements the function-call state machine of §4.5:
// explicit return yields its value, falling off the end yields null,
// and an in-flight exception propagates to the caller unchanged.
func (e *Evaluator) callFunction(fn *value.Function, args []value.Value, this *value.Instance, n ast.Node) value.Value {
	parent, _ := fn.Env.(*Environment)
	frame := NewEnvironment(parent)

	boundThis := this
	if boundThis == nil {
		boundThis = fn.BoundThis
	}

	prevClass, prevInstance, prevStatic := e.currentClass, e.currentInstance, e.inStatic
	if boundThis != nil {
		frame.SetThis(boundThis)
		e.currentClass = boundThis.Class
		e.currentInstance = boundThis
		e.inStatic = false
	} else {
		e.inStatic = fn.IsStatic
	}

	if len(args) != len(fn.Parameters) {
		e.reportAt(diag.EArityMismatch, "wrong number of arguments to "+fn.Name, n)
	}
	for i, p := range fn.Parameters {
		if i < len(args) {
			frame.Define(p, args[i])
		} else {
			frame.Define(p, value.NullValue)
		}
	}

	e.callStack = append(e.callStack, fn.Name)
	e.evalBlock(fn.Body, frame)
	e.callStack = e.callStack[:len(e.callStack)-1]

	e.currentClass, e.currentInstance, e.inStatic = prevClass, prevInstance, prevStatic

	if e.returning {
		result := e.returnValue
		e.returning = false
		e.returnValue = nil
		return result
	}
	if e.unwinding {
		return value.NullValue
	}
	return value.NullValue
}
