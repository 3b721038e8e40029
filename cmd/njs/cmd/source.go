package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-njs/internal/config"
	"github.com/cwbudde/go-njs/pkg/njs"
	"github.com/spf13/cobra"
)

func loadPolicy(path string) (*config.Options, error) {
	return config.LoadPolicyFile(path)
}

var evalExpr string

// readSource resolves the -e/--eval flag or a single file argument into
// source text, the same precedence rule the teacher's runScript/lexScript
// use (cmd/dwscript/cmd/run.go, cmd/dwscript/cmd/lex.go).
func readSource(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}

// engineOptions builds njs.Option values from the persistent sandbox
// flags cmd/root.go registers, optionally overlaid with a YAML policy
// file (internal/config.LoadPolicyFile).
func engineOptions(cmd *cobra.Command) ([]njs.Option, error) {
	var opts []njs.Option

	if policyPath, _ := cmd.Flags().GetString("policy"); policyPath != "" {
		pol, err := loadPolicy(policyPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, njs.WithSandbox(pol.Sandbox), njs.WithModule(pol.Module),
			njs.WithUnsafe(pol.Unsafe), njs.WithModuleAllow(pol.ModuleAllow...))
	}

	if sandbox, _ := cmd.Flags().GetBool("sandbox"); sandbox {
		opts = append(opts, njs.WithSandbox(true))
	}
	if unsafe, _ := cmd.Flags().GetBool("unsafe"); unsafe {
		opts = append(opts, njs.WithUnsafe(true))
	}
	if globs, _ := cmd.Flags().GetStringSlice("module-allow"); len(globs) > 0 {
		opts = append(opts, njs.WithModuleAllow(globs...))
	}
	return opts, nil
}
