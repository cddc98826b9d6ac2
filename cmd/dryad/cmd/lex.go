package cmd

import (
	"fmt"
	"os"

	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/lexer"
	"github.com/dryad-lang/dryad/pkg/token"
	"github.com/spf13/cobra"
)

var (
	lexExpression string
	lexShowPos    bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize Dryad source code",
	Long: `Lex scans Dryad source into its token stream and prints each
token, one per line.

If no file is provided, reads from stdin. Use -e to lex a single
expression from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpression, "eval", "e", "", "lex a source string instead of a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show line:column for each token")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "print only lexical diagnostics")
}

func runLex(cmd *cobra.Command, args []string) error {
	source, err := readInput(lexExpression, args)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	if !lexOnlyErrors {
		for {
			tok := l.NextToken()
			printToken(tok)
			if tok.Type == token.EOF {
				break
			}
		}
	} else {
		for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		}
	}

	if diags := l.Diagnostics(); len(diags) > 0 {
		fmt.Fprint(os.Stderr, diag.FormatAll(diags, source, false))
		return fmt.Errorf("lex failed with %d diagnostic(s)", len(diags))
	}
	return nil
}

func printToken(tok token.Token) {
	if lexShowPos {
		fmt.Printf("%-12s %-20q @%d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		return
	}
	fmt.Printf("%-12s %-20q\n", tok.Type, tok.Literal)
}
