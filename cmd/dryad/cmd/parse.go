package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dryad-lang/dryad/internal/ast"
	"github.com/dryad-lang/dryad/internal/diag"
	"github.com/dryad-lang/dryad/internal/lexer"
	"github.com/dryad-lang/dryad/internal/parser"
	"github.com/spf13/cobra"
)

var (
	parseExpression bool
	parseDumpAST    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Dryad source code and display the AST",
	Long: `Parse reads Dryad source, builds its AST, and prints it.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line. Use --dump-ast for an indented tree
instead of the reconstructed source form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an expression from the command line")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string
	var err error
	if parseExpression {
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	} else {
		input, err = readInput("", args)
		if err != nil {
			return err
		}
	}

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	if diags := p.Diagnostics(); len(diags) > 0 {
		fmt.Fprint(os.Stderr, diag.FormatAll(diags, input, false))
		return fmt.Errorf("parsing failed with %d diagnostic(s)", len(diags))
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		dumpASTNode(program, 0)
	} else {
		fmt.Println(program.String())
	}
	return nil
}

func dumpASTNode(node any, indent int) {
	pad := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", pad, len(n.Statements))
		for _, stmt := range n.Statements {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.ExpressionStatement:
		fmt.Printf("%sExpressionStatement\n", pad)
		dumpASTNode(n.Expression, indent+1)
	case *ast.BlockStatement:
		fmt.Printf("%sBlockStatement (%d statements)\n", pad, len(n.Statements))
		for _, stmt := range n.Statements {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.VarDecl:
		fmt.Printf("%sVarDecl: %s\n", pad, n.Name)
		if n.Initializer != nil {
			dumpASTNode(n.Initializer, indent+1)
		}
	case *ast.IfStatement:
		fmt.Printf("%sIfStatement\n", pad)
		fmt.Printf("%s  Condition:\n", pad)
		dumpASTNode(n.Condition, indent+2)
		fmt.Printf("%s  Then:\n", pad)
		dumpASTNode(n.Then, indent+2)
		if n.Else != nil {
			fmt.Printf("%s  Else:\n", pad)
			dumpASTNode(n.Else, indent+2)
		}
	case *ast.WhileStatement:
		fmt.Printf("%sWhileStatement\n", pad)
		dumpASTNode(n.Condition, indent+1)
		dumpASTNode(n.Body, indent+1)
	case *ast.FunctionDecl:
		fmt.Printf("%sFunctionDecl: %s(%s)\n", pad, n.Name, strings.Join(n.Parameters, ", "))
		dumpASTNode(n.Body, indent+1)
	case *ast.ClassDecl:
		fmt.Printf("%sClassDecl: %s (%d methods)\n", pad, n.Name, len(n.Methods))
		for _, m := range n.Methods {
			dumpASTNode(m, indent+1)
		}
	case *ast.ReturnStatement:
		fmt.Printf("%sReturnStatement\n", pad)
		if n.Value != nil {
			dumpASTNode(n.Value, indent+1)
		}
	case *ast.BinaryExpr:
		fmt.Printf("%sBinaryExpr (%s)\n", pad, n.Operator)
		dumpASTNode(n.Left, indent+1)
		dumpASTNode(n.Right, indent+1)
	case *ast.UnaryExpr:
		fmt.Printf("%sUnaryExpr (%s)\n", pad, n.Operator)
		dumpASTNode(n.Right, indent+1)
	case *ast.CallExpr:
		fmt.Printf("%sCallExpr (%d args)\n", pad, len(n.Arguments))
		dumpASTNode(n.Callee, indent+1)
		for _, a := range n.Arguments {
			dumpASTNode(a, indent+1)
		}
	case *ast.NumberLiteral:
		fmt.Printf("%sNumberLiteral: %v\n", pad, n.Value)
	case *ast.StringLiteral:
		fmt.Printf("%sStringLiteral: %q\n", pad, n.Value)
	case *ast.BooleanLiteral:
		fmt.Printf("%sBooleanLiteral: %v\n", pad, n.Value)
	case *ast.NullLiteral:
		fmt.Printf("%sNullLiteral\n", pad)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, n.Value)
	default:
		fmt.Printf("%s%T: %v\n", pad, node, node)
	}
}
