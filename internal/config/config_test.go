package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestModuleAllowedUnsandboxed(t *testing.T) {
	o := New()
	if !o.ModuleAllowed("fs") {
		t.Fatal("expected every module allowed when sandbox is off")
	}
}

func TestModuleAllowedGlob(t *testing.T) {
	o := New(WithSandbox(true), WithModuleAllow("crypto*"))
	if !o.ModuleAllowed("crypto") {
		t.Fatal("expected crypto to match crypto*")
	}
	if o.ModuleAllowed("fs") {
		t.Fatal("expected fs to be rejected under a crypto*-only allow-list")
	}
}

func TestModuleAllowedSandboxNoAllowList(t *testing.T) {
	o := New(WithSandbox(true))
	if o.ModuleAllowed("fs") {
		t.Fatal("expected everything rejected when sandboxed with an empty allow-list")
	}
}

func TestWithArgvCopies(t *testing.T) {
	argv := []string{"a", "b"}
	o := New(WithArgv(argv))
	argv[0] = "mutated"
	if o.Argv[0] != "a" {
		t.Fatalf("WithArgv did not copy its slice: got %v", o.Argv)
	}
}

func TestLoadPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	doc := "sandbox: true\nmodule: false\nunsafe: false\nmoduleAllow:\n  - crypto*\n  - fs\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := LoadPolicyFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Sandbox {
		t.Fatal("expected sandbox: true to be loaded")
	}
	if len(o.ModuleAllow) != 2 || o.ModuleAllow[0] != "crypto*" {
		t.Fatalf("unexpected moduleAllow: %v", o.ModuleAllow)
	}
}

func TestMergeFlag(t *testing.T) {
	out, err := MergeFlag(`{"sandbox":false}`, "sandbox", true)
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"sandbox":true}` {
		t.Fatalf("got %s", out)
	}
}

func TestToJSONRoundTrips(t *testing.T) {
	o := New(WithSandbox(true), WithModuleAllow("fs"))
	raw, err := o.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	reloaded, err := MergeFlag(raw, "unsafe", true)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded == raw {
		t.Fatal("expected MergeFlag to change the document")
	}
}
