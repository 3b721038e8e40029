package builtins

import (
	"testing"

	"github.com/cwbudde/go-njs/internal/value"
)

type noopInvoker struct{}

func (noopInvoker) Call(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	return value.Undefined, nil
}

func newRegExp(t *testing.T, w *World, pattern, flags string) value.Value {
	t.Helper()
	ctorVal, ok := w.Globals["RegExp"]
	if !ok {
		t.Fatal("RegExp constructor missing from globals")
	}
	ctor := ctorVal.Object()
	result, err := ctor.Fn.Native(noopInvoker{}, value.Undefined, []value.Value{
		value.String(pattern), value.String(flags),
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func callMethod(t *testing.T, w *World, re value.Value, name string, args []value.Value) value.Value {
	t.Helper()
	inv := noopInvoker{}
	fnVal, err := value.Get(inv, re.Object(), value.String(name))
	if err != nil {
		t.Fatal(err)
	}
	fn := fnVal.Object()
	result, err := fn.Fn.Native(inv, re, args)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestRegExpTest(t *testing.T) {
	w := Build()
	re := newRegExp(t, w, `\d+`, "")
	got := callMethod(t, w, re, "test", []value.Value{value.String("abc123")})
	if !got.Bool() {
		t.Fatal("expected test() to match digits in abc123")
	}
	got = callMethod(t, w, re, "test", []value.Value{value.String("abc")})
	if got.Bool() {
		t.Fatal("expected test() to reject a digit-free string")
	}
}

func TestRegExpExecReturnsGroupsAndIndex(t *testing.T) {
	w := Build()
	re := newRegExp(t, w, `(\w+)@(\w+)`, "")
	result := callMethod(t, w, re, "exec", []value.Value{value.String("user@host")})
	arr := result.Object()
	if arr == nil || len(arr.Elements) != 3 {
		t.Fatalf("expected a 3-element match array, got %#v", result)
	}
	if arr.Elements[0].Str() != "user@host" || arr.Elements[1].Str() != "user" || arr.Elements[2].Str() != "host" {
		t.Fatalf("unexpected groups: %v %v %v", arr.Elements[0].Str(), arr.Elements[1].Str(), arr.Elements[2].Str())
	}
	idx, ok := arr.OwnProperty("index")
	if !ok || idx.Value.Num() != 0 {
		t.Fatalf("expected index 0, got %#v", idx)
	}
}

func TestRegExpIgnoreCaseFlag(t *testing.T) {
	w := Build()
	re := newRegExp(t, w, "hello", "i")
	got := callMethod(t, w, re, "test", []value.Value{value.String("HELLO world")})
	if !got.Bool() {
		t.Fatal("expected case-insensitive match")
	}
}

func TestRegExpToString(t *testing.T) {
	w := Build()
	re := newRegExp(t, w, "abc", "gi")
	got := callMethod(t, w, re, "toString", nil)
	if got.Str() != "/abc/gi" {
		t.Fatalf("got %q, want %q", got.Str(), "/abc/gi")
	}
}

func TestRegExpGlobalExecAdvancesLastIndex(t *testing.T) {
	w := Build()
	re := newRegExp(t, w, `\d`, "g")
	first := callMethod(t, w, re, "exec", []value.Value{value.String("a1b2")})
	if first.Object() == nil || first.Object().Elements[0].Str() != "1" {
		t.Fatalf("expected first match '1', got %#v", first)
	}
	second := callMethod(t, w, re, "exec", []value.Value{value.String("a1b2")})
	if second.Object() == nil || second.Object().Elements[0].Str() != "2" {
		t.Fatalf("expected second match '2', got %#v", second)
	}
	third := callMethod(t, w, re, "exec", []value.Value{value.String("a1b2")})
	if third.Kind() != value.KindNull {
		t.Fatalf("expected exhausted global exec to return null, got %#v", third)
	}
}
