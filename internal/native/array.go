package native

import (
	"strings"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

func (r *Registry) registerArray() {
	r.register("Array", "length", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		arr, ok := argAt(args, 0).(*value.Array)
		if !ok {
			return nil, typeErr("Array.length expects an array")
		}
		return value.Number(len(arr.Elements)), nil
	})
	r.register("Array", "get", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		arr, ok := argAt(args, 0).(*value.Array)
		if !ok {
			return nil, typeErr("Array.get expects an array")
		}
		idx, ok := asNumber(argAt(args, 1))
		i := int(idx)
		if !ok || i < 0 || i >= len(arr.Elements) {
			d := diag.New(diag.EIndexOutOfBounds, "array index out of bounds", nil)
			return nil, &d
		}
		return arr.Elements[i], nil
	})
	r.register("Array", "push", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		arr, ok := argAt(args, 0).(*value.Array)
		if !ok {
			return nil, typeErr("Array.push expects an array")
		}
		// Value semantics: mutators return a modified copy (§9).
		out := arr.Clone()
		out.Elements = append(out.Elements, args[1:]...)
		return out, nil
	})
	r.register("Array", "join", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		arr, ok := argAt(args, 0).(*value.Array)
		if !ok {
			return nil, typeErr("Array.join expects an array")
		}
		sep := ""
		if len(args) > 1 {
			sep, _ = asString(args[1])
		}
		parts := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			parts[i] = e.String()
		}
		return value.String(strings.Join(parts, sep)), nil
	})
}
