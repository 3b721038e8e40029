package njs

import (
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/go-njs/internal/value"
)

func TestEvalArithmetic(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	result, err := e.Eval("1 + 2 * 3")
	if err != nil {
		t.Fatal(err)
	}
	s, err := result.String()
	if err != nil {
		t.Fatal(err)
	}
	if s != "7" {
		t.Fatalf("got %q, want %q", s, "7")
	}
}

func TestEvalTemplateLiteralConcat(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	result, err := e.Eval("var name = 'world'; `hello ${name}!`;")
	if err != nil {
		t.Fatal(err)
	}
	s, err := result.String()
	if err != nil {
		t.Fatal(err)
	}
	if s != "hello world!" {
		t.Fatalf("got %q, want %q", s, "hello world!")
	}
}

func TestCompileErrorReportsStage(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Compile("var = ;")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Stage != "parsing" {
		t.Fatalf("got stage %q, want %q", ce.Stage, "parsing")
	}
}

func TestBindInstallsGlobal(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Bind("greeting", value.String("hi"), false); err != nil {
		t.Fatal(err)
	}
	result, err := e.Eval("greeting")
	if err != nil {
		t.Fatal(err)
	}
	s, err := result.String()
	if err != nil {
		t.Fatal(err)
	}
	if s != "hi" {
		t.Fatalf("got %q, want %q", s, "hi")
	}
}

func TestSandboxModuleAllowList(t *testing.T) {
	e, err := New(WithSandbox(true), WithModuleAllow("crypto*"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.VMValue("crypto"); !ok {
		t.Fatal("expected crypto to be installed under a crypto*-allowing sandbox")
	}
	if _, ok := e.VMValue("fs"); ok {
		t.Fatal("expected fs to be excluded under a crypto*-only sandbox")
	}
}

func TestProcessArgv(t *testing.T) {
	e, err := New(WithArgv([]string{"script.js", "--flag"}))
	if err != nil {
		t.Fatal(err)
	}
	result, err := e.Eval("process.argv[1]")
	if err != nil {
		t.Fatal(err)
	}
	s, err := result.String()
	if err != nil {
		t.Fatal(err)
	}
	if s != "--flag" {
		t.Fatalf("got %q, want %q", s, "--flag")
	}
}

func TestRegisterFunctionRoundTrip(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.RegisterFunction("add", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatal(err)
	}
	result, err := e.Eval("add(2, 3)")
	if err != nil {
		t.Fatal(err)
	}
	s, err := result.String()
	if err != nil {
		t.Fatal(err)
	}
	if s != "5" {
		t.Fatalf("got %q, want %q", s, "5")
	}
}

func TestRegisterFunctionWithErrorReturn(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	safeDivide := func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	}
	if err := e.RegisterFunction("safeDivide", safeDivide); err != nil {
		t.Fatal(err)
	}
	_, err = e.Eval("safeDivide(1, 0)")
	if err == nil {
		t.Fatal("expected division by zero to surface as a thrown error")
	}
	if !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("got %v", err)
	}
}

