package external

import (
	"testing"

	"github.com/cwbudde/go-njs/internal/value"
)

type noopInvoker struct{}

func (noopInvoker) Call(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	return value.Undefined, nil
}

type fakeHost struct {
	label string
	calls []string
}

func TestBuilderPropertyGetSet(t *testing.T) {
	host := &fakeHost{label: "initial"}
	node := NewObject("Widget").
		Property("label",
			func(h any) (value.Value, error) { return value.String(h.(*fakeHost).label), nil },
			func(h any, v value.Value) error { h.(*fakeHost).label = v.Str(); return nil },
			nil,
		).Build()

	inv := noopInvoker{}
	obj := New(node, host)

	got, err := value.Get(inv, obj, value.String("label"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Str() != "initial" {
		t.Fatalf("got %q, want %q", got.Str(), "initial")
	}

	if err := value.Set(inv, obj, value.String("label"), value.String("updated")); err != nil {
		t.Fatal(err)
	}
	if host.label != "updated" {
		t.Fatalf("setter did not run: host.label = %q", host.label)
	}
}

func TestBuilderMethodCall(t *testing.T) {
	host := &fakeHost{}
	node := NewObject("Widget").
		Method("ping", func(h any, args []value.Value) (value.Value, error) {
			h.(*fakeHost).calls = append(h.(*fakeHost).calls, "ping")
			return value.Number(float64(len(args))), nil
		}).Build()

	inv := noopInvoker{}
	obj := New(node, host)

	fnVal, err := value.Get(inv, obj, value.String("ping"))
	if err != nil {
		t.Fatal(err)
	}
	fn := fnVal.Object()
	if fn == nil || fn.Fn == nil || fn.Fn.Native == nil {
		t.Fatalf("expected ping to resolve to a native method, got %#v", fnVal)
	}
	result, err := fn.Fn.Native(inv, fnVal, []value.Value{value.Number(1), value.Number(2)})
	if err != nil {
		t.Fatal(err)
	}
	if result.Num() != 2 {
		t.Fatalf("got %v, want 2", result.Num())
	}
	if len(host.calls) != 1 || host.calls[0] != "ping" {
		t.Fatalf("expected one recorded call, got %v", host.calls)
	}
}

func TestBuilderNestedObject(t *testing.T) {
	host := &fakeHost{label: "child"}
	child := NewObject("Inner").Property("label",
		func(h any) (value.Value, error) { return value.String(h.(*fakeHost).label), nil },
		nil, nil,
	)
	node := NewObject("Outer").Object("inner", child).Build()

	inv := noopInvoker{}
	obj := New(node, host)
	innerVal, err := value.Get(inv, obj, value.String("inner"))
	if err != nil {
		t.Fatal(err)
	}
	inner := innerVal.Object()
	if inner == nil || inner.Kind != value.KindExternal {
		t.Fatalf("expected a nested external object, got %#v", innerVal)
	}
	label, err := value.Get(inv, inner, value.String("label"))
	if err != nil {
		t.Fatal(err)
	}
	if label.Str() != "child" {
		t.Fatalf("got %q, want %q", label.Str(), "child")
	}
}

func TestErrorHasTypeErrorPrefix(t *testing.T) {
	err := Error("bad %s", "input")
	if got, want := err.Error(), "TypeError: bad input"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBindInstallsReadonlyGlobal(t *testing.T) {
	host := &fakeHost{label: "x"}
	node := NewObject("Widget").Property("label",
		func(h any) (value.Value, error) { return value.String(h.(*fakeHost).label), nil },
		nil, nil,
	).Build()

	global := value.NewObject(nil)
	Bind(global, "widget", node, host, true)

	p, ok := global.OwnProperty("widget")
	if !ok {
		t.Fatal("expected widget to be installed as an own property")
	}
	if p.Writable == value.True {
		t.Fatal("expected a readonly bind to produce a non-writable property")
	}
}
