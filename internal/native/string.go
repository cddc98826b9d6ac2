package native

import (
	"strings"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

func (r *Registry) registerString() {
	str1 := func(f func(string) value.Value) Func {
		return func(args []value.Value) (value.Value, *diag.Diagnostic) {
			s, ok := asString(argAt(args, 0))
			if !ok {
				return nil, typeErr("String function expects a string argument")
			}
			return f(s), nil
		}
	}

	r.register("String", "length", str1(func(s string) value.Value { return value.Number(len([]rune(s))) }))
	r.register("String", "toUpper", str1(func(s string) value.Value { return value.String(upperCaser.String(s)) }))
	r.register("String", "toLower", str1(func(s string) value.Value { return value.String(lowerCaser.String(s)) }))
	r.register("String", "trim", str1(func(s string) value.Value { return value.String(strings.TrimSpace(s)) }))
	r.register("String", "reverse", str1(func(s string) value.Value {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return value.String(string(runes))
	}))
	r.register("String", "isEmpty", str1(func(s string) value.Value { return value.Boolean(s == "") }))
	r.register("String", "isNumeric", str1(func(s string) value.Value {
		if s == "" {
			return value.Boolean(false)
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return value.Boolean(false)
			}
		}
		return value.Boolean(true)
	}))
	r.register("String", "isAlpha", str1(func(s string) value.Value {
		if s == "" {
			return value.Boolean(false)
		}
		for _, r := range s {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return value.Boolean(false)
			}
		}
		return value.Boolean(true)
	}))
	r.register("String", "isAlphanumeric", str1(func(s string) value.Value {
		if s == "" {
			return value.Boolean(false)
		}
		for _, r := range s {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				return value.Boolean(false)
			}
		}
		return value.Boolean(true)
	}))

	r.register("String", "split", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, ok1 := asString(argAt(args, 0))
		sep, ok2 := asString(argAt(args, 1))
		if !ok1 || !ok2 {
			return nil, typeErr("String.split expects two string arguments")
		}
		parts := strings.Split(s, sep)
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = value.String(p)
		}
		return value.NewArray(elems), nil
	})
	r.register("String", "replace", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, _ := asString(argAt(args, 0))
		old, _ := asString(argAt(args, 1))
		repl, _ := asString(argAt(args, 2))
		return value.String(strings.Replace(s, old, repl, 1)), nil
	})
	r.register("String", "replaceAll", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, _ := asString(argAt(args, 0))
		old, _ := asString(argAt(args, 1))
		repl, _ := asString(argAt(args, 2))
		return value.String(strings.ReplaceAll(s, old, repl)), nil
	})
	r.register("String", "startsWith", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, _ := asString(argAt(args, 0))
		prefix, _ := asString(argAt(args, 1))
		return value.Boolean(strings.HasPrefix(s, prefix)), nil
	})
	r.register("String", "contains", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, _ := asString(argAt(args, 0))
		sub, _ := asString(argAt(args, 1))
		return value.Boolean(strings.Contains(s, sub)), nil
	})
	r.register("String", "indexOf", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, _ := asString(argAt(args, 0))
		sub, _ := asString(argAt(args, 1))
		return value.Number(strings.Index(s, sub)), nil
	})
	r.register("String", "slice", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		s, ok := asString(argAt(args, 0))
		if !ok {
			return nil, typeErr("String.slice expects a string argument")
		}
		runes := []rune(s)
		start, _ := asNumber(argAt(args, 1))
		end := float64(len(runes))
		if len(args) > 2 {
			end, _ = asNumber(argAt(args, 2))
		}
		si, ei := clampRange(int(start), int(end), len(runes))
		return value.String(string(runes[si:ei])), nil
	})
}

func clampRange(start, end, length int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start > end {
		start = end
	}
	return start, end
}
