package native

import (
	"strconv"
	"strings"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

func (r *Registry) registerJson() {
	r.register("Json", "parse", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, ok := asString(argAt(args, 0))
		if !ok {
			return nil, typeErr("Json.parse expects a string argument")
		}
		if !gjson.Valid(s) {
			d := diag.New(diag.ETypeMismatch, "malformed JSON input", nil)
			return nil, &d
		}
		return gjsonToValue(gjson.Parse(s)), nil
	})

	r.register("Json", "tryParse", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, ok := asString(argAt(args, 0))
		obj := value.NewObject()
		if !ok || !gjson.Valid(s) {
			obj.Set("success", value.Boolean(false))
			obj.Set("value", value.NullValue)
			return obj, nil
		}
		obj.Set("success", value.Boolean(true))
		obj.Set("value", gjsonToValue(gjson.Parse(s)))
		return obj, nil
	})

	r.register("Json", "stringify", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		raw := valueToJSON(argAt(args, 0))
		if len(args) > 1 && value.Truthy(args[1]) {
			return value.String(string(pretty.Pretty([]byte(raw)))), nil
		}
		return value.String(raw), nil
	})

	r.register("Json", "keys", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		obj, ok := argAt(args, 0).(*value.Object)
		if !ok {
			return nil, typeErr("Json.keys expects an object")
		}
		keys := obj.Keys()
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.String(k)
		}
		return value.NewArray(elems), nil
	})
	r.register("Json", "values", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		switch v := argAt(args, 0).(type) {
		case *value.Object:
			keys := v.Keys()
			elems := make([]value.Value, len(keys))
			for i, k := range keys {
				elems[i], _ = v.Get(k)
			}
			return value.NewArray(elems), nil
		case *value.Array:
			return v, nil
		default:
			return nil, typeErr("Json.values expects an object or array")
		}
	})
	r.register("Json", "size", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		switch v := argAt(args, 0).(type) {
		case *value.Object:
			return value.Number(len(v.Keys())), nil
		case *value.Array:
			return value.Number(len(v.Elements)), nil
		default:
			return nil, typeErr("Json.size expects an object or array")
		}
	})
	r.register("Json", "isObject", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		_, ok := argAt(args, 0).(*value.Object)
		return value.Boolean(ok), nil
	})
	r.register("Json", "isArray", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		_, ok := argAt(args, 0).(*value.Array)
		return value.Boolean(ok), nil
	})

	// getPath/setPath/deletePath operate on raw JSON document strings
	// rather than decoded Object/Array values, for scripts that only
	// need to touch one field of a larger document without paying for
	// a full parse/stringify round trip.
	r.register("Json", "getPath", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		doc, ok := asString(argAt(args, 0))
		if !ok {
			return nil, typeErr("Json.getPath expects a JSON document string")
		}
		path, ok := asString(argAt(args, 1))
		if !ok {
			return nil, typeErr("Json.getPath expects a string path")
		}
		result := gjson.Get(doc, path)
		if !result.Exists() {
			return value.NullValue, nil
		}
		return gjsonToValue(result), nil
	})
	r.register("Json", "setPath", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		doc, ok := asString(argAt(args, 0))
		if !ok {
			return nil, typeErr("Json.setPath expects a JSON document string")
		}
		path, ok := asString(argAt(args, 1))
		if !ok {
			return nil, typeErr("Json.setPath expects a string path")
		}
		updated, err := sjson.SetRaw(doc, path, valueToJSON(argAt(args, 2)))
		if err != nil {
			d := diag.New(diag.ETypeMismatch, "invalid JSON path for Json.setPath: "+err.Error(), nil)
			return nil, &d
		}
		return value.String(updated), nil
	})
	r.register("Json", "deletePath", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		doc, ok := asString(argAt(args, 0))
		if !ok {
			return nil, typeErr("Json.deletePath expects a JSON document string")
		}
		path, ok := asString(argAt(args, 1))
		if !ok {
			return nil, typeErr("Json.deletePath expects a string path")
		}
		updated, err := sjson.Delete(doc, path)
		if err != nil {
			d := diag.New(diag.ETypeMismatch, "invalid JSON path for Json.deletePath: "+err.Error(), nil)
			return nil, &d
		}
		return value.String(updated), nil
	})
}

func gjsonToValue(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.NullValue
	case gjson.False:
		return value.Boolean(false)
	case gjson.True:
		return value.Boolean(true)
	case gjson.Number:
		return value.Number(r.Num)
	case gjson.String:
		return value.String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []value.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return value.NewArray(elems)
		}
		obj := value.NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			obj.Set(k.Str, gjsonToValue(v))
			return true
		})
		return obj
	default:
		return value.NullValue
	}
}

// valueToJSON renders v as a compact JSON document. It is deliberately
// independent of encoding/json so Dryad's Object (insertion-order,
// non-generic-map) and Array representations drive the encoding
// directly rather than round-tripping through reflection.
func valueToJSON(v value.Value) string {
	var sb strings.Builder
	writeJSON(&sb, v)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v value.Value) {
	switch t := v.(type) {
	case value.Null:
		sb.WriteString("null")
	case value.Number:
		sb.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case value.String:
		sb.WriteString(strconv.Quote(string(t)))
	case value.Boolean:
		sb.WriteString(strconv.FormatBool(bool(t)))
	case *value.Array:
		sb.WriteString("[")
		for i, e := range t.Elements {
			if i > 0 {
				sb.WriteString(",")
			}
			writeJSON(sb, e)
		}
		sb.WriteString("]")
	case *value.Object:
		sb.WriteString("{")
		for i, k := range t.Keys() {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(":")
			val, _ := t.Get(k)
			writeJSON(sb, val)
		}
		sb.WriteString("}")
	default:
		sb.WriteString(strconv.Quote(v.String()))
	}
}
