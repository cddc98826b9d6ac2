package native

import (
	"math"
	"math/rand"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

func mathUnary(f func(float64) float64) Func {
	return func(args []value.Value) (value.Value, *diag.Diagnostic) {
		n, ok := asNumber(argAt(args, 0))
		if !ok {
			return nil, typeErr("Math function expects a numeric argument")
		}
		return value.Number(f(n)), nil
	}
}

func (r *Registry) registerMath() {
	r.register("Math", "sqrt", mathUnary(math.Sqrt))
	r.register("Math", "sin", mathUnary(math.Sin))
	r.register("Math", "cos", mathUnary(math.Cos))
	r.register("Math", "tan", mathUnary(math.Tan))
	r.register("Math", "log", mathUnary(math.Log))
	r.register("Math", "exp", mathUnary(math.Exp))
	r.register("Math", "abs", mathUnary(math.Abs))
	r.register("Math", "floor", mathUnary(math.Floor))
	r.register("Math", "ceil", mathUnary(math.Ceil))
	r.register("Math", "round", mathUnary(math.Round))

	r.register("Math", "pow", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		base, ok1 := asNumber(argAt(args, 0))
		exp, ok2 := asNumber(argAt(args, 1))
		if !ok1 || !ok2 {
			return nil, typeErr("Math.pow expects two numeric arguments")
		}
		return value.Number(math.Pow(base, exp)), nil
	})
	r.register("Math", "random", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.Number(rand.Float64()), nil
	})
	r.register("Math", "pi", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.Number(math.Pi), nil
	})
	r.register("Math", "e", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.Number(math.E), nil
	})
}
