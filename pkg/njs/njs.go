// Package njs is the embedding API (spec.md §6.1): a host creates an
// Engine, compiles source into a Program, runs it, and reads back the
// result. It mirrors the teacher's pkg/dwscript facade (New, Compile,
// Run, Eval, RegisterFunction, functional options such as WithTypeCheck —
// see pkg/dwscript/integration_test.go, basic_ffi_test.go,
// compile_mode_test.go) since that package's own implementation file was
// not present in the retrieved teacher tree; the grounding for New/Compile/
// Run's plumbing instead comes from internal/interp/runner.New wiring a
// fresh interpreter, and examples/ffi/main.go for the RegisterFunction/Eval
// call shape a host actually writes.
package njs

import (
	"fmt"
	"sync"

	"github.com/cwbudde/go-njs/internal/bytecode"
	"github.com/cwbudde/go-njs/internal/config"
	"github.com/cwbudde/go-njs/internal/external"
	"github.com/cwbudde/go-njs/internal/lexer"
	"github.com/cwbudde/go-njs/internal/modules"
	"github.com/cwbudde/go-njs/internal/parser"
	"github.com/cwbudde/go-njs/internal/shared"
	"github.com/cwbudde/go-njs/internal/value"
	"github.com/cwbudde/go-njs/internal/vmrt"
)

// Option configures an Engine at creation time, re-exporting
// internal/config's functional options under the host-facing name the
// teacher's WithTypeCheck/WithCompileMode convention uses.
type Option = config.Option

var (
	WithSandbox     = config.WithSandbox
	WithModule      = config.WithModule
	WithUnsafe      = config.WithUnsafe
	WithArgv        = config.WithArgv
	WithModuleAllow = config.WithModuleAllow
)

// sharedWorld is the process-wide immutable template every Engine clones
// from (spec.md §3.5, §6.1 "builds/reuses the shared world"); built once,
// lazily, on first Engine creation.
var (
	sharedOnce  sync.Once
	sharedWorld *shared.World
)

func getSharedWorld() *shared.World {
	sharedOnce.Do(func() { sharedWorld = shared.New() })
	return sharedWorld
}

// Engine is one embeddable VM instance (spec.md §6.1 "create(options) →
// VM"). It is not safe for concurrent use, matching the core's
// single-threaded execution model (spec.md §5).
type Engine struct {
	vm   *vmrt.VM
	opts *config.Options
}

// New creates an Engine over a fresh clone of the shared world, installing
// the sandbox-allowed built-in modules (spec.md §6.2, §6.4) and
// process.argv (spec.md §6.2 "argc/argv: passthrough for process.argv").
func New(opts ...Option) (*Engine, error) {
	o := config.New(opts...)
	vm := vmrt.New(getSharedWorld())
	e := &Engine{vm: vm, opts: o}
	e.installModules()
	e.installArgv()
	return e, nil
}

func (e *Engine) installModules() {
	global := e.vm.Global()
	funcProto := e.vm.Proto("Function")
	for _, m := range modules.All() {
		if !e.opts.ModuleAllowed(m.Name) {
			continue
		}
		obj := m.Build(funcProto)
		global.DefineOwn(m.Name, &value.Property{
			Name: value.String(m.Name), Kind: value.PropData, Value: value.FromObject(obj),
			Enumerable: value.False, Writable: value.True, Configurable: value.True,
		})
	}
}

func (e *Engine) installArgv() {
	arr := make([]value.Value, len(e.opts.Argv))
	for i, s := range e.opts.Argv {
		arr[i] = value.String(s)
	}
	process := value.NewObject(e.vm.Proto("Object"))
	process.DefineOwn("argv", &value.Property{
		Name: value.String("argv"), Kind: value.PropData,
		Value: value.FromObject(value.NewArray(e.vm.Proto("Array"), arr)),
		Enumerable: value.True, Writable: value.True, Configurable: value.True,
	})
	e.vm.Global().DefineOwn("process", &value.Property{
		Name: value.String("process"), Kind: value.PropData, Value: value.FromObject(process),
		Enumerable: value.False, Writable: value.True, Configurable: value.False,
	})
}

// Program is a compiled, not-yet-executed top-level chunk (spec.md §6.1
// "compile(VM, source) → status").
type Program struct {
	chunk *bytecode.Chunk
}

// Compile parses and generates bytecode for source without executing it.
// A failure at either stage is returned as a *CompileError carrying the
// stage name, the way pkg/dwscript/compile_error_test.go asserts
// (`compileErr.Stage == "parsing"`).
func (e *Engine) Compile(source string) (*Program, error) {
	prog, err := parser.ParseProgram([]byte(source), "<eval>", lexer.Options{})
	if err != nil {
		return nil, &CompileError{Stage: "parsing", Err: err}
	}
	chunk, err := bytecode.CompileProgram(prog)
	if err != nil {
		return nil, &CompileError{Stage: "compiling", Err: err}
	}
	return &Program{chunk: chunk}, nil
}

// Run executes a compiled Program and returns its completion value
// (spec.md §6.1 "start(VM) → status").
func (e *Engine) Run(p *Program) (*Result, error) {
	v, err := e.vm.Run(p.chunk)
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, engine: e, value: v}, nil
}

// Eval compiles and runs source in one step, the shape examples/ffi's
// `engine.Eval(string(data))` uses.
func (e *Engine) Eval(source string) (*Result, error) {
	p, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Run(p)
}

// Bind installs a global value binding (spec.md §6.1 "bind(VM, name,
// value, readonly)").
func (e *Engine) Bind(name string, v value.Value, readonly bool) error {
	e.vm.Global().DefineOwn(name, &value.Property{
		Name: value.String(name), Kind: value.PropData, Value: v,
		Enumerable: value.True, Writable: value.FromBool(!readonly), Configurable: value.FromBool(!readonly),
	})
	return nil
}

// ExternalCreate wraps host behind a registered prototype tree and
// installs it as a global (spec.md §6.1 "external_create(VM, prototype-
// desc, host-ptr) → Value"). Use internal/external.NewObject to build
// node.
func (e *Engine) ExternalCreate(name string, node *value.ExternalNode, host any, readonly bool) value.Value {
	obj := external.Bind(e.vm.Global(), name, node, host, readonly)
	return value.FromObject(obj)
}

// ValueToString, ValueToNumber, ValueToBoolean are the coercion helpers
// spec.md §6.1 lists ("value_to_string/number/boolean").
func (e *Engine) ValueToString(v value.Value) (string, error)  { return value.ToString(e.vm, v) }
func (e *Engine) ValueToNumber(v value.Value) (float64, error) { return value.ToNumber(e.vm, v) }
func (e *Engine) ValueToBoolean(v value.Value) bool            { return value.ToBoolean(v) }

// ArrayAlloc and ObjectAlloc are spec.md §6.1's value-construction
// helpers ("array_alloc", "object_alloc").
func (e *Engine) ArrayAlloc(elems []value.Value) value.Value {
	return value.FromObject(value.NewArray(e.vm.Proto("Array"), elems))
}

func (e *Engine) ObjectAlloc() value.Value {
	return value.FromObject(value.NewObject(e.vm.Proto("Object")))
}

// VMValue looks up a named global binding (spec.md §6.1 "vm_value(VM,
// name)").
func (e *Engine) VMValue(name string) (value.Value, bool) {
	if p, ok := e.vm.Global().OwnProperty(name); ok {
		return p.Value, true
	}
	return value.Undefined, false
}

// Call invokes a JS function value from Go, implementing value.Invoker so
// host-side glue (internal/external callbacks, RegisterFunction
// marshaling) can call back into the script the same way the teacher's
// callDWScriptFunction re-enters its interpreter
// (internal/interp/ffi_callback.go).
func (e *Engine) Call(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	return e.vm.Call(fn, this, args)
}

// Result is a completed Run/Eval's outcome.
type Result struct {
	Success bool
	engine  *Engine
	value   value.Value
}

// Value returns the raw engine Value (spec.md §6.1 "retval(VM) → Value").
func (r *Result) Value() value.Value { return r.value }

// String renders the result with ToString (spec.md §6.1 "retval_string(VM)
// → bytes").
func (r *Result) String() (string, error) { return r.engine.ValueToString(r.value) }

// CompileError reports which pipeline stage failed (spec.md §6.1's
// standard triple collapses, for this single-process embedding, to a Go
// error plus a Stage tag), the shape
// pkg/dwscript/compile_error_test.go checks via type assertion.
type CompileError struct {
	Stage string
	Err   error
}

func (e *CompileError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *CompileError) Unwrap() error { return e.Err }
