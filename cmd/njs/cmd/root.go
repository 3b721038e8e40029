package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "njs",
	Short: "Embeddable ECMAScript-subset interpreter",
	Long: `njs is a Go implementation of an embeddable ECMAScript 5.1+ subset
engine: lexer, parser, bytecode compiler, and stack VM, with a sandboxed
host-module bridge for crypto and fs.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("sandbox", false, "restrict built-in modules to --module-allow globs")
	rootCmd.PersistentFlags().Bool("unsafe", false, "allow the Function() constructor")
	rootCmd.PersistentFlags().StringSlice("module-allow", nil, "sandbox module allow-list globs (e.g. crypto*)")
	rootCmd.PersistentFlags().String("policy", "", "YAML sandbox/module policy file")
}
