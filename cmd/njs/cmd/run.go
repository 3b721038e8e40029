package cmd

import (
	"fmt"

	"github.com/cwbudde/go-njs/pkg/njs"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script file or expression",
	Long: `Execute a script from a file or inline expression.

Examples:
  njs run script.js
  njs run -e "1 + 2"
  njs run --sandbox --module-allow "crypto*" script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, _, err := readSource(args)
	if err != nil {
		return err
	}

	opts, err := engineOptions(cmd)
	if err != nil {
		return err
	}
	engine, err := njs.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	result, err := engine.Eval(input)
	if err != nil {
		return fmt.Errorf("execution error: %w", err)
	}

	s, err := result.String()
	if err != nil {
		return fmt.Errorf("stringifying result: %w", err)
	}
	fmt.Println(s)
	return nil
}
