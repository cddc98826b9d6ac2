package native

import (
	"strconv"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

func (r *Registry) registerCore() {
	r.register("Core", "typeof", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.String(value.TypeOf(argAt(args, 0))), nil
	})
	r.register("Core", "toString", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.String(argAt(args, 0).String()), nil
	})
	r.register("Core", "toNumber", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		switch v := argAt(args, 0).(type) {
		case value.Number:
			return v, nil
		case value.String:
			f, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return nil, typeErr("cannot convert string to number: " + string(v))
			}
			return value.Number(f), nil
		case value.Boolean:
			if v {
				return value.Number(1), nil
			}
			return value.Number(0), nil
		default:
			return nil, typeErr("cannot convert value to number")
		}
	})
	r.register("Core", "toBool", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.Boolean(value.Truthy(argAt(args, 0))), nil
	})
	r.register("Core", "isNumber", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		_, ok := argAt(args, 0).(value.Number)
		return value.Boolean(ok), nil
	})
	r.register("Core", "isString", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		_, ok := argAt(args, 0).(value.String)
		return value.Boolean(ok), nil
	})
	r.register("Core", "isBool", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		_, ok := argAt(args, 0).(value.Boolean)
		return value.Boolean(ok), nil
	})
	r.register("Core", "isNull", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		_, ok := argAt(args, 0).(value.Null)
		return value.Boolean(ok), nil
	})
	r.register("Core", "equals", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.Boolean(value.Equal(argAt(args, 0), argAt(args, 1))), nil
	})
	r.register("Core", "deepEquals", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		return value.Boolean(value.DeepEqual(argAt(args, 0), argAt(args, 1))), nil
	})
}
