// Package modules implements the engine's built-in host modules (spec.md
// §6.4): crypto and fs. Each module is a plain object of native methods,
// the same shape internal/builtins installs prototype methods as, but
// modules are not wired into the shared world — pkg/njs installs the ones
// an Options.Sandbox policy (internal/config) allows, grounded on the
// teacher's RegisterFunction-style "host capability as a plain callable"
// pattern (examples/ffi/main.go) rather than internal/builtins' factory,
// since modules are opt-in per embedding rather than always-on globals.
package modules

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/value"
)

// Module is one built-in module identifier (spec.md §6.4).
type Module struct {
	Name  string
	Build func(funcProto *value.Object) *value.Object
}

// All lists every built-in module the core ships, in the order
// internal/config's sandbox allow-list is checked against.
func All() []Module {
	return []Module{
		{Name: "crypto", Build: BuildCrypto},
		{Name: "fs", Build: BuildFS},
	}
}

// Lookup returns the module named name, if any.
func Lookup(name string) (Module, bool) {
	for _, m := range All() {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}

func native(funcProto *value.Object, name string, arity int, fn value.NativeFn) *value.Object {
	o := value.NewObject(funcProto)
	o.Kind = value.KindFunction
	o.Fn = &value.Function{Name: name, Arity: arity, IsNative: true, Flavor: value.FlavorNative, Native: fn}
	return o
}

func method(obj, funcProto *value.Object, name string, arity int, fn value.NativeFn) {
	obj.DefineOwn(name, &value.Property{
		Name: value.String(name), Kind: value.PropData,
		Value:        value.FromObject(native(funcProto, name, arity, fn)),
		Enumerable:   value.True,
		Writable:     value.True,
		Configurable: value.True,
	})
}

func arg(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Undefined
}

func typeError(format string, a ...any) error {
	return fmt.Errorf("TypeError: "+format, a...)
}

func rangeError(format string, a ...any) error {
	return fmt.Errorf("RangeError: "+format, a...)
}
