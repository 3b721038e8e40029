package cmd

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/lexer"
	"github.com/cwbudde/go-njs/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and dump its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	prog, err := parser.ParseProgram([]byte(input), filename, lexer.Options{})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	for i, stmt := range prog.Body {
		fmt.Printf("[%d] %#v\n", i, stmt)
	}
	return nil
}
