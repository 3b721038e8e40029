package bytecode_test

import (
	"testing"

	"github.com/cwbudde/go-njs/internal/bytecode"
	"github.com/cwbudde/go-njs/internal/lexer"
	"github.com/cwbudde/go-njs/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// compile is a small helper that parses and compiles source, failing the
// test on either stage's error.
func compile(t *testing.T, source string) *bytecode.Chunk {
	t.Helper()
	prog, err := parser.ParseProgram([]byte(source), "<test>", lexer.Options{})
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	chunk, err := bytecode.CompileProgram(prog)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return chunk
}

// TestDisassembleSnapshot snapshot-tests the disassembly text of a handful
// of representative programs, the way the teacher's fixture tests snapshot
// formatted output (internal/interp/fixture_test.go).
func TestDisassembleSnapshot(t *testing.T) {
	sources := map[string]string{
		"arithmetic":      "1 + 2 * 3;",
		"variable":        "var x = 10; x + 1;",
		"function":        "function add(a, b) { return a + b; } add(1, 2);",
		"templateLiteral": "var name = 'world'; `hi ${name}`;",
		"ifElse":          "var x = 1; if (x > 0) { x = x + 1; } else { x = x - 1; }",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			chunk := compile(t, src)
			snaps.MatchSnapshot(t, bytecode.Disassemble(chunk))
		})
	}
}
