package native

import (
	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

func (r *Registry) registerObject() {
	r.register("Object", "get", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		obj, ok := argAt(args, 0).(*value.Object)
		if !ok {
			return nil, typeErr("Object.get expects an object")
		}
		key, _ := asString(argAt(args, 1))
		if v, ok := obj.Get(key); ok {
			return v, nil
		}
		return value.NullValue, nil
	})
	r.register("Object", "set", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		obj, ok := argAt(args, 0).(*value.Object)
		if !ok {
			return nil, typeErr("Object.set expects an object")
		}
		key, _ := asString(argAt(args, 1))
		// Value semantics: return a modified copy (§9).
		out := obj.Clone()
		out.Set(key, argAt(args, 2))
		return out, nil
	})
	r.register("Object", "has", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		obj, ok := argAt(args, 0).(*value.Object)
		if !ok {
			return value.Boolean(false), nil
		}
		key, _ := asString(argAt(args, 1))
		return value.Boolean(obj.Has(key)), nil
	})
	r.register("Object", "keys", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		obj, ok := argAt(args, 0).(*value.Object)
		if !ok {
			return nil, typeErr("Object.keys expects an object")
		}
		keys := obj.Keys()
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.String(k)
		}
		return value.NewArray(elems), nil
	})
}
