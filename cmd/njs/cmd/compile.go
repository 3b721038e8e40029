package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/go-njs/internal/bytecode"
	"github.com/cwbudde/go-njs/internal/lexer"
	"github.com/cwbudde/go-njs/internal/parser"
	"github.com/tidwall/pretty"
	"github.com/spf13/cobra"
)

var asJSON bool

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a script and print its disassembled bytecode",
	Long: `Parse and compile a script, then print the resulting chunk's
disassembly. With --json, print an indented JSON document instead
(github.com/tidwall/pretty formats the JSON for terminal output).`,
	Args: cobra.MaximumNArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "compile inline code instead of reading from file")
	compileCmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON instead of text disassembly")
}

func compileScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	prog, err := parser.ParseProgram([]byte(input), filename, lexer.Options{})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	chunk, err := bytecode.CompileProgram(prog)
	if err != nil {
		return fmt.Errorf("compiling failed: %w", err)
	}

	if asJSON {
		doc := struct {
			File          string `json:"file"`
			Disassembly   string `json:"disassembly"`
			InstCount     int    `json:"instructionCount"`
			ConstantCount int    `json:"constantCount"`
		}{
			File:          filename,
			Disassembly:   bytecode.Disassemble(chunk),
			InstCount:     len(chunk.Code),
			ConstantCount: len(chunk.Constants),
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		fmt.Println(string(pretty.Pretty(raw)))
		return nil
	}

	fmt.Print(bytecode.Disassemble(chunk))
	return nil
}
