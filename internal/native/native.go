// Package native implements the module-qualified native registry:
// Console, Fs, Math, String, Array, Object, Json, Core, System. Each
// entry receives a slice of values and returns a value plus an optional
// diagnostic, matching the native-module protocol in which the evaluator
// does not distinguish native calls from user-defined ones at the call
// site.
package native

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/value"
)

// Func is a single native callable.
type Func func(args []value.Value) (value.Value, *diag.Diagnostic)

// Registry holds the module-qualified native function tables.
type Registry struct {
	out     io.Writer
	in      *bufio.Reader
	modules map[string]map[string]Func
}

// NewRegistry builds the standard registry (Console, Fs, Math, String,
// Array, Object, Json, Core, System), writing Console output to out and
// reading Console.input from in.
func NewRegistry(out io.Writer, in io.Reader) *Registry {
	r := &Registry{out: out, in: bufio.NewReader(in), modules: make(map[string]map[string]Func)}
	r.registerConsole()
	r.registerFs()
	r.registerMath()
	r.registerString()
	r.registerArray()
	r.registerObject()
	r.registerJson()
	r.registerCore()
	r.registerSystem()
	return r
}

func (r *Registry) register(module, name string, fn Func) {
	if r.modules[module] == nil {
		r.modules[module] = make(map[string]Func)
	}
	r.modules[module][name] = fn
}

// HasModule reports whether name is a registered native module.
func (r *Registry) HasModule(name string) bool {
	_, ok := r.modules[name]
	return ok
}

// Call invokes module.function(args). An unknown module or function
// yields ok=false with a nil diagnostic; a function that fails yields
// ok=false with its diagnostic. No Go error or panic is used — native
// calls flow through the same diagnostic-return convention as the rest
// of the evaluator.
func (r *Registry) Call(module, name string, args []value.Value) (value.Value, *diag.Diagnostic, bool) {
	fns, ok := r.modules[module]
	if !ok {
		return nil, nil, false
	}
	fn, ok := fns[name]
	if !ok {
		return nil, nil, false
	}
	v, d := fn(args)
	if d != nil {
		return nil, d, false
	}
	return v, nil, true
}

// Modules lists the registered native module names.
func (r *Registry) Modules() []string {
	names := make([]string, 0, len(r.modules))
	for m := range r.modules {
		names = append(names, m)
	}
	return names
}

// Functions lists the callable names in a registered module.
func (r *Registry) Functions(module string) []string {
	fns, ok := r.modules[module]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fns))
	for n := range fns {
		names = append(names, n)
	}
	return names
}

func typeErr(msg string) *diag.Diagnostic {
	d := diag.New(diag.ETypeMismatch, msg, nil)
	return &d
}

func arityErr(want, got int) *diag.Diagnostic {
	d := diag.New(diag.EArityMismatch, fmt.Sprintf("expected %d argument(s), got %d", want, got), nil)
	return &d
}

func asNumber(v value.Value) (float64, bool) {
	n, ok := v.(value.Number)
	return float64(n), ok
}

func asString(v value.Value) (string, bool) {
	s, ok := v.(value.String)
	return string(s), ok
}

// --- Console ---

func (r *Registry) registerConsole() {
	r.register("Console", "print", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		for _, a := range args {
			fmt.Fprint(r.out, a.String())
		}
		return value.NullValue, nil
	})
	r.register("Console", "println", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		for _, a := range args {
			fmt.Fprint(r.out, a.String())
		}
		fmt.Fprint(r.out, "\n")
		return value.NullValue, nil
	})
	r.register("Console", "input", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		if len(args) > 0 {
			fmt.Fprint(r.out, args[0].String())
		}
		line, _ := r.in.ReadString('\n')
		return value.String(trimNewline(line)), nil
	})
	r.register("Console", "clear", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		fmt.Fprint(r.out, "\033[H\033[2J")
		return value.NullValue, nil
	})
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// --- Fs ---

func (r *Registry) registerFs() {
	r.register("Fs", "readFile", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		path, ok := asString(argAt(args, 0))
		if !ok {
			return nil, typeErr("Fs.readFile expects a string path")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			d := diag.New(diag.EFileNotFound, "file not found: "+path, nil)
			return nil, &d
		}
		return value.String(string(data)), nil
	})
	r.register("Fs", "writeFile", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		path, _ := asString(argAt(args, 0))
		content, _ := asString(argAt(args, 1))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			d := diag.New(diag.EFileWrite, "failed writing file: "+path, nil)
			return nil, &d
		}
		return value.NullValue, nil
	})
	r.register("Fs", "appendFile", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		path, _ := asString(argAt(args, 0))
		content, _ := asString(argAt(args, 1))
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			d := diag.New(diag.EFileWrite, "failed opening file for append: "+path, nil)
			return nil, &d
		}
		defer f.Close()
		if _, err := f.WriteString(content); err != nil {
			d := diag.New(diag.EFileWrite, "failed appending to file: "+path, nil)
			return nil, &d
		}
		return value.NullValue, nil
	})
	r.register("Fs", "fileExists", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		path, _ := asString(argAt(args, 0))
		_, err := os.Stat(path)
		return value.Boolean(err == nil), nil
	})
	r.register("Fs", "deleteFile", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		path, _ := asString(argAt(args, 0))
		if err := os.Remove(path); err != nil {
			d := diag.New(diag.EFileAccess, "failed deleting file: "+path, nil)
			return nil, &d
		}
		return value.NullValue, nil
	})
}

func argAt(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.NullValue
}

// --- System ---

// maxSleepMillis bounds System.sleep so a runaway script cannot hang a
// host process indefinitely (§12 supplemented feature, grounded on the
// original's bounded native sleep).
const maxSleepMillis = 60_000

func (r *Registry) registerSystem() {
	r.register("System", "getEnv", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		name, _ := asString(argAt(args, 0))
		v, ok := os.LookupEnv(name)
		if !ok {
			return value.NullValue, nil
		}
		return value.String(v), nil
	})
	r.register("System", "setEnv", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		name, _ := asString(argAt(args, 0))
		val, _ := asString(argAt(args, 1))
		if err := os.Setenv(name, val); err != nil {
			d := diag.New(diag.EFileAccess, "failed setting environment variable: "+name, nil)
			return nil, &d
		}
		return value.NullValue, nil
	})
	r.register("System", "getArgs", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		elems := make([]value.Value, 0, len(os.Args))
		for _, a := range os.Args {
			elems = append(elems, value.String(a))
		}
		return value.NewArray(elems), nil
	})
	r.register("System", "exit", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		code := 0
		if n, ok := asNumber(argAt(args, 0)); ok {
			code = int(n)
		}
		os.Exit(code)
		return value.NullValue, nil
	})
	r.register("System", "currentDir", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		dir, err := os.Getwd()
		if err != nil {
			d := diag.New(diag.EFileAccess, "failed reading current directory", nil)
			return nil, &d
		}
		return value.String(dir), nil
	})
	r.register("System", "sleep", func(args []value.Value) (value.Value, *diag.Diagnostic) {
		ms, ok := asNumber(argAt(args, 0))
		if !ok {
			return nil, typeErr("System.sleep expects a number of milliseconds")
		}
		if ms > maxSleepMillis {
			ms = maxSleepMillis
		}
		if ms > 0 {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}
		return value.NullValue, nil
	})
}
