// Package builtins implements the engine's built-in object factory
// (spec.md §4.7): Object, Function, Array, String, Number, Boolean, Math,
// JSON, the Error hierarchy, Symbol, Date, and ArrayBuffer. Each factory
// function here builds one prototype/constructor pair and is wired into a
// shared world by internal/shared, the way the teacher's internal/builtins
// package supplies method tables that internal/interp installs (spec.md
// §2 "built-in object factory (shared)").
package builtins

import (
	"fmt"
	"math"

	"github.com/cwbudde/go-njs/internal/value"
)

func nan() float64    { return math.NaN() }
func inf(sign int) float64 { return math.Inf(sign) }

// ProtoSource lets a native method body ask the active VM for its *current*
// (possibly per-clone-mutated) prototype instead of closing over the
// shared world's prototype at factory-build time, so that a built-in
// method constructing a new instance (e.g. Array.prototype.map's result)
// observes prototype mutations local to its own cloned VM (spec.md §3.5,
// §5 "VM state does not leak across runs"). A native whose Invoker doesn't
// implement this (e.g. a bare test harness) falls back to the prototype
// captured when the factory built it.
type ProtoSource interface {
	Proto(name string) *value.Object
}

func protoFor(inv value.Invoker, name string, fallback *value.Object) *value.Object {
	if ps, ok := inv.(ProtoSource); ok {
		if p := ps.Proto(name); p != nil {
			return p
		}
	}
	return fallback
}

// currentFuncProto is the Function.prototype of the World currently being
// built. Build() runs buildFunction first, then every later factory step
// can hand it to native() as the [[Prototype]] of the function objects it
// mints. Build() is expected to run once at process start, not concurrently.
var currentFuncProto *value.Object

// native builds a Function-kind Object wrapping fn as a native method.
func native(name string, arity int, fn value.NativeFn) *value.Object {
	o := value.NewObject(currentFuncProto)
	o.Kind = value.KindFunction
	o.Fn = &value.Function{Name: name, Arity: arity, IsNative: true, Flavor: value.FlavorNative, Native: fn}
	return o
}

// method installs a non-enumerable, writable, configurable native method on
// proto under name — the attribute triple every built-in prototype method
// uses (spec.md §4.7).
func method(proto *value.Object, name string, arity int, fn value.NativeFn) {
	proto.DefineOwn(name, &value.Property{
		Name: value.String(name), Kind: value.PropData,
		Value:        value.FromObject(native(name, arity, fn)),
		Enumerable:   value.False,
		Writable:     value.True,
		Configurable: value.True,
	})
}

// accessor installs a getter-only (or getter/setter) accessor property.
func accessor(proto *value.Object, name string, getter, setter *value.Object) {
	proto.DefineOwn(name, &value.Property{
		Name: value.String(name), Kind: value.PropAccessor,
		Getter: getter, Setter: setter,
		Enumerable: value.False, Configurable: value.True,
	})
}

// dataProp installs a non-enumerable, non-configurable data property
// (writable only when writable is true), the shape
// most constructor statics (`Number.MAX_SAFE_INTEGER`, `Math.PI`, …) use.
func dataProp(obj *value.Object, name string, v value.Value, writable bool) {
	obj.DefineOwn(name, &value.Property{
		Name: value.String(name), Kind: value.PropData, Value: v,
		Enumerable: value.False, Writable: value.FromBool(writable), Configurable: value.False,
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

// World is the complete set of prototypes, constructors, and global
// bindings the factory produces. internal/shared assembles one World at
// process start and clones its objects per execution (spec.md §3.5).
type World struct {
	ObjectProto    *value.Object
	FunctionProto  *value.Object
	ArrayProto     *value.Object
	StringProto    *value.Object
	NumberProto    *value.Object
	BooleanProto   *value.Object
	SymbolProto    *value.Object
	DateProto      *value.Object
	ArrayBufferProto *value.Object
	RegExpProto    *value.Object
	ErrorProto     *value.Object
	ErrorKindProtos map[string]*value.Object // "TypeError", "RangeError", ...

	MathObject *value.Object
	JSONObject *value.Object

	// Globals are the top-level bindings the factory installs (constructors,
	// Math, JSON, and the constant bindings spec.md §4.4 "Global this"
	// describes as read-only: undefined/NaN/Infinity).
	Globals map[string]value.Value
	// ReadonlyGlobals names the subset of Globals that must not be
	// reassigned (spec.md §4.4).
	ReadonlyGlobals map[string]bool

	WellKnown WellKnownSymbols
}

// Build constructs one fresh World. Called exactly once by internal/shared
// at shared-world construction time (spec.md §3.5); every VM clone copies
// the objects this produces.
func Build() *World {
	w := &World{
		Globals:         map[string]value.Value{},
		ReadonlyGlobals: map[string]bool{},
		ErrorKindProtos: map[string]*value.Object{},
	}

	w.WellKnown = newWellKnownSymbols()

	// Installation order follows original_source/njs_builtin.c: Object,
	// Function, then the rest, so no factory step observes a half-wired
	// prototype chain (SPEC_FULL.md "SUPPLEMENTED FEATURES").
	buildObject(w)
	buildFunction(w)
	buildArray(w)
	buildString(w)
	buildNumber(w)
	buildBoolean(w)
	buildSymbol(w)
	buildError(w)
	buildMath(w)
	buildJSON(w)
	buildDate(w)
	buildArrayBuffer(w)
	buildRegExp(w)

	w.Globals["undefined"] = value.Undefined
	w.Globals["NaN"] = value.Number(nan())
	w.Globals["Infinity"] = value.Number(inf(1))
	w.ReadonlyGlobals["undefined"] = true
	w.ReadonlyGlobals["NaN"] = true
	w.ReadonlyGlobals["Infinity"] = true

	return w
}
