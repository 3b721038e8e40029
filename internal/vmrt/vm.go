package vmrt

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/bytecode"
	"github.com/cwbudde/go-njs/internal/builtins"
	"github.com/cwbudde/go-njs/internal/errors"
	"github.com/cwbudde/go-njs/internal/shared"
	"github.com/cwbudde/go-njs/internal/value"
)

// maxCallDepth bounds recursive JS calls (spec.md §4.3 "Maximum call stack
// size exceeded"), mirroring the teacher's flattened-frame guard.
const maxCallDepth = 1024

// VM is one script execution: its own cloned shared world, value stack,
// call-frame stack, and open-upvalue set (spec.md §3.4, §3.5). A VM is not
// safe for concurrent use — the engine is single-threaded and synchronous
// (spec.md §2 Non-goals).
type VM struct {
	world *shared.World

	stack  []value.Value
	frames []*frame
}

// New creates a VM over a fresh clone of world, ready to run one program
// (spec.md §3.5 "per-execution clone"). Unlike a C-style VM that must
// explicitly "close" an upvalue when its frame's stack slot is about to be
// recycled, an upvalue cell here is simply the address of the frame's
// locals slot (&frame.locals[idx]): since frame.locals is never reallocated
// after the frame is created and Go's garbage collector keeps that backing
// array alive for as long as any closure still points into it, the pointer
// stays valid long after the frame itself is popped with no separate
// closing step required (spec.md §3.3, §4.2).
func New(world *shared.World) *VM {
	return &VM{
		world: world.Clone(),
		stack: make([]value.Value, 0, 256),
	}
}

// Global returns the VM's global object, the target of OpGetGlobal/
// OpSetGlobal and the object `this` is bound to at top level (spec.md §4.4).
func (vm *VM) Global() *value.Object { return vm.world.Global }

// Proto implements builtins.ProtoSource, handing native built-in methods
// this run's (possibly user-mutated) prototypes instead of the shared
// template's (spec.md §3.5, §5).
func (vm *VM) Proto(name string) *value.Object { return vm.world.Proto(name) }

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek(back int) value.Value { return vm.stack[len(vm.stack)-1-back] }

func (vm *VM) truncate(depth int) {
	if depth < len(vm.stack) {
		vm.stack = vm.stack[:depth]
	}
}

// Run executes a top-level program chunk against the VM's global object as
// `this` (spec.md §4.4).
func (vm *VM) Run(chunk *bytecode.Chunk) (value.Value, error) {
	f := &frame{
		chunk:     chunk,
		locals:    make([]value.Value, chunk.LocalCount),
		this:      value.FromObject(vm.world.Global),
		stackBase: len(vm.stack),
	}
	vm.frames = append(vm.frames, f)
	return vm.run()
}

// Call implements value.Invoker, dispatching to a native, bytecode, or
// bound function (spec.md §3.3, §4.3).
func (vm *VM) Call(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	if fn == nil || fn.Fn == nil {
		return value.Undefined, fmt.Errorf("TypeError: value is not a function")
	}
	switch fn.Fn.Flavor {
	case value.FlavorNative:
		return fn.Fn.Native(vm, this, args)
	case value.FlavorBound:
		full := append(append([]value.Value{}, fn.Fn.BoundArgs...), args...)
		return vm.Call(fn.Fn.BoundTarget, fn.Fn.BoundThis, full)
	case value.FlavorBytecode:
		return vm.callBytecode(fn, this, args)
	default:
		return value.Undefined, fmt.Errorf("TypeError: value is not a function")
	}
}

// callBytecode pushes a new frame for a user-defined function and runs the
// dispatch loop recursively to completion, returning its result (spec.md
// §3.4). The teacher's flattened append-a-frame-and-let-the-outer-loop-pick-
// it-up model is adapted here as a direct recursive call into run(), since
// Go's own call stack already gives us the unwind-on-panic-free return path
// a reentrant interpreter needs — the frame stack (vm.frames) is still what
// OpPushTry/raise and closure/upvalue logic key off, matching spec.md §3.4.
func (vm *VM) callBytecode(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	if len(vm.frames) >= maxCallDepth {
		return value.Undefined, fmt.Errorf("RangeError: Maximum call stack size exceeded")
	}
	tmpl, _ := fn.Fn.Template.(*bytecode.FunctionTemplate)
	if tmpl == nil {
		return value.Undefined, fmt.Errorf("InternalError: function has no compiled body")
	}

	locals := make([]value.Value, tmpl.LocalCount)
	n := tmpl.ParamCount
	for i := 0; i < n && i < len(args); i++ {
		locals[i] = args[i]
	}
	if tmpl.HasRest {
		var rest []value.Value
		if len(args) > n {
			rest = append(rest, args[n:]...)
		}
		locals[n] = value.FromObject(value.NewArray(vm.world.Proto("Array"), rest))
	}

	if fn.Fn.IsArrow {
		// Arrow functions lexically inherit `this` and `arguments` from the
		// enclosing frame rather than binding their own (spec.md §4.3).
		if len(vm.frames) > 0 {
			outer := vm.frames[len(vm.frames)-1]
			this = outer.this
			args = outer.args
		}
	}

	f := &frame{
		chunk:     tmpl.Chunk,
		locals:    locals,
		this:      this,
		fn:        fn,
		args:      args,
		stackBase: len(vm.stack),
	}
	vm.frames = append(vm.frames, f)
	result, err := vm.run()
	return result, err
}

// newError constructs a JS Error instance (or reuses a thrown JS value
// already wrapped in a ThrownValue) so a Go error produced by a coercion or
// property-protocol failure can be raised as a catchable exception (spec.md
// §4.5 "errors are values").
func (vm *VM) newError(err error) value.Value {
	if tv, ok := err.(*ThrownValue); ok {
		return tv.V
	}
	kind, msg := errors.ClassifyMessage(err.Error())
	return value.FromObject(builtins.NewError(vm.world.Builtins, kind, msg))
}

// ThrownValue wraps an arbitrary JS value propagating as a Go error so it
// survives a return from vm.run()/callBytecode without losing its payload
// (spec.md §4.5 "throw accepts any value, not just Error instances").
type ThrownValue struct {
	V value.Value
}

func (t *ThrownValue) Error() string {
	if t.V.Kind() == value.KindString {
		return t.V.Str()
	}
	if o := t.V.Object(); o != nil && o.ErrorData {
		if p, ok := o.OwnProperty("message"); ok && p.Value.Kind() == value.KindString {
			name := "Error"
			if o.Proto != nil && o.Proto.Subtype != "" {
				name = o.Proto.Subtype
			}
			return name + ": " + p.Value.Str()
		}
	}
	return "uncaught exception"
}
