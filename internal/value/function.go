package value

// FunctionFlavor discriminates the three ways a Function's body can be
// invoked (spec.md §3.3's "discriminated union").
type FunctionFlavor uint8

const (
	FlavorNative FunctionFlavor = iota
	FlavorBytecode
	FlavorBound
)

// NativeFn is a host-implemented function body. args excludes the receiver;
// thisVal carries the bound this. inv is threaded through so a native (e.g.
// Array.prototype.forEach, JSON.stringify's replacer) can call back into
// the VM without this package importing internal/vmrt.
type NativeFn func(inv Invoker, thisVal Value, args []Value) (Value, error)

// Function holds the fields spec.md §3.3 attaches to a function object in
// addition to the base Object fields (arity, closure flag, the
// native/bytecode/bound discriminated union, captured closure environments).
type Function struct {
	Name   string
	Arity  int
	Offset int // argument offset, to support bound `this` (spec.md §3.3)

	IsClosure bool
	IsNative  bool
	IsCtor    bool
	IsArrow   bool // arrow-lexical `this`/`arguments` capture (spec.md §4.3)

	Flavor FunctionFlavor

	Native NativeFn

	// Bytecode flavor: set by internal/bytecode when compiling a function
	// expression/declaration.
	Template any // *bytecode.FunctionTemplate; typed any to avoid an import cycle

	// Bound flavor (spec.md §3.3).
	BoundTarget *Object
	BoundThis   Value
	BoundArgs   []Value

	// Closure captures (spec.md §3.3, §3.4 "Closure vector"): one boxed
	// cell per captured variable, addressed by upvalue index. A cell
	// points directly into the declaring frame's locals slice (stable
	// for the frame's lifetime, since locals are never appended to after
	// a call begins), so inner references outlive the call that created
	// them without copying the whole enclosing scope.
	Closure []*Value
}
