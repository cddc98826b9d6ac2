package cmd

import (
	"fmt"
	"os"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/lexer"
	"github.com/dryad-lang/dryad/internal/parser"
	"github.com/dryad-lang/dryad/internal/types"
	"github.com/spf13/cobra"
)

var checkExpression string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run the advisory type checker over Dryad source",
	Long: `Check parses Dryad source and runs the best-effort type
inferencer over it, printing any likely-mismatch warnings.

This pass never blocks execution; it exists purely for diagnostics.
If no file is provided, reads from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkExpression, "eval", "e", "", "check a source string instead of a file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, err := readInput(checkExpression, args)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	diags := append([]diag.Diagnostic{}, p.Diagnostics()...)
	diags = append(diags, types.Check(program)...)

	if len(diags) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	fmt.Fprint(os.Stderr, diag.FormatAll(diags, source, false))
	if hasError(diags) {
		return fmt.Errorf("check failed with %d diagnostic(s)", len(diags))
	}
	return nil
}
