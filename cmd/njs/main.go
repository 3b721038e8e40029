// Command njs is the engine's CLI front end, mirroring the teacher's
// cmd/dwscript binary (cmd/dwscript/cmd/root.go): a spf13/cobra root
// command with run/compile/lex/parse/version subcommands. It is the
// "front door" ambient tooling, out of the core engine's own scope
// (spec.md §1) but carried the way the teacher carries one.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-njs/cmd/njs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
