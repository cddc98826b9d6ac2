package interp

import (
	"io"
	"os"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/lexer"
	"github.com/dryad-lang/dryad/internal/module"
	"github.com/dryad-lang/dryad/internal/native"
	"github.com/dryad-lang/dryad/internal/parser"
	"github.com/dryad-lang/dryad/internal/value"
)

// Options configures a RunSource invocation. Zero values select the
// defaults documented in §4.1/§4.7 (reporter cap of 10, no extra
// module search paths, stdout/stdin for Console/System natives).
type Options struct {
	MaxDiagnostics   int
	ExtraSearchPaths []string
	Stdout           io.Writer
	Stdin            io.Reader

	// Strict enables strict-mode type checking during evaluation: a
	// mixed number/string operand to '+' raises E3006 instead of
	// concatenating (§4.5 "Mixed number/string with '+' concatenates in
	// non-strict mode; in strict mode raises E3006").
	Strict bool
}

// RunSource lexes, parses, and evaluates source, returning the final
// expression value and every diagnostic collected across all three
// stages. It is the reusable entry point the out-of-scope REPL/CLI glue
// (§1 Non-goals, §12) is expected to call; it contains no argv parsing
// or line-reading of its own.
func RunSource(source string, opts Options) (value.Value, []diag.Diagnostic) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	lx := lexer.New(source)
	p := parser.New(lx)
	prog := p.ParseProgram()

	var diags []diag.Diagnostic
	diags = append(diags, p.Diagnostics()...)

	natives := native.NewRegistry(opts.Stdout, opts.Stdin)
	loader := module.NewLoader(opts.ExtraSearchPaths)

	ev := NewEvaluator(natives, loader, opts.MaxDiagnostics)
	ev.Strict = opts.Strict
	result := ev.Run(prog)

	diags = append(diags, ev.Reporter.All()...)
	return result, diags
}
