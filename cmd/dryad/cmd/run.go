package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/interp"
	"github.com/spf13/cobra"
)

var (
	runExpression string
	runMaxDiags   int
	runLibPath    []string
	runStrict     bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Dryad script",
	Long: `Run evaluates Dryad source code.

If no file is provided, reads from stdin. Use -e to run a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runExpression, "eval", "e", "", "evaluate a source string instead of a file")
	runCmd.Flags().IntVar(&runMaxDiags, "max-diagnostics", 10, "stop collecting diagnostics after this many")
	runCmd.Flags().StringArrayVar(&runLibPath, "lib-path", nil, "extra module search path (repeatable)")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "enable strict type checking (mixed number/string '+' raises E3006 instead of concatenating)")
}

func runScript(cmd *cobra.Command, args []string) error {
	source, err := readInput(runExpression, args)
	if err != nil {
		return err
	}

	_, diags := interp.RunSource(source, interp.Options{
		MaxDiagnostics:   runMaxDiags,
		ExtraSearchPaths: runLibPath,
		Stdout:           os.Stdout,
		Stdin:            os.Stdin,
		Strict:           runStrict,
	})

	if len(diags) > 0 {
		fmt.Fprint(os.Stderr, diag.FormatAll(diags, source, false))
		if hasError(diags) {
			return fmt.Errorf("run failed with %d diagnostic(s)", len(diags))
		}
	}
	return nil
}

// readInput resolves a command's source text from -e, a file argument, or
// stdin, in that priority order.
func readInput(expr string, args []string) (string, error) {
	if expr != "" {
		return expr, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}

func hasError(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}
