package cmd

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/lexer"
	"github.com/cwbudde/go-njs/internal/token"
	"github.com/spf13/cobra"
)

var (
	showPos    bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a script file or expression",
	Long: `Tokenize a script and print the resulting tokens, for debugging the
lexer. Flags non-NFC-normalised identifiers as a diagnostic (internal/
lexer.IsNFC) without rewriting them, matching spec.md's "no full-fidelity
Unicode normalisation" Non-goal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal/error tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, _, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New([]byte(input), lexer.Options{})
	count, errCount := 0, 0
	for {
		tok, tokErr := l.Next()
		if tokErr != nil {
			errCount++
			if !onlyErrors {
				fmt.Printf("ILLEGAL: %v\n", tokErr)
			} else {
				fmt.Println(tokErr)
			}
			break
		}

		count++
		if !onlyErrors {
			printToken(tok)
		}
		if tok.Kind == token.IDENT && !lexer.IsNFC(tok.Lexeme) {
			fmt.Printf("  warning: identifier %q is not NFC-normalised\n", tok.Lexeme)
		}
		if tok.Kind == token.EOF {
			break
		}
	}

	if errCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("[%-12s]", tok.Kind)
	switch {
	case tok.Kind == token.EOF:
		out += " EOF"
	case tok.Lexeme == "":
		out += fmt.Sprintf(" %s", tok.Kind)
	default:
		out += fmt.Sprintf(" %q", tok.Lexeme)
	}
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
