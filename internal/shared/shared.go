// Package shared assembles the engine's immutable shared world (every
// built-in prototype, constructor, and global binding, spec.md §3.5) once
// per process, and clones it into an independent copy for each VM run
// (spec.md §5), so mutating a built-in prototype in one run can never leak
// into another.
package shared

import (
	"github.com/cwbudde/go-njs/internal/builtins"
	"github.com/cwbudde/go-njs/internal/value"
)

// World is one instance of the fully-wired object graph: either the
// process-wide template built by New, or a per-run copy produced by Clone.
type World struct {
	Builtins *builtins.World
	Global   *value.Object
}

// New builds the shared world exactly once. Every VM run clones it via
// Clone rather than mutating it directly (spec.md §3.5).
func New() *World {
	b := builtins.Build()
	global := value.NewObject(b.ObjectProto)
	global.Subtype = "global"

	for name, v := range b.Globals {
		writable := !b.ReadonlyGlobals[name]
		global.DefineOwn(name, &value.Property{
			Name: value.String(name), Kind: value.PropData, Value: v,
			Enumerable: value.False, Writable: value.FromBool(writable), Configurable: value.False,
		})
	}
	// globalThis refers back to the global object itself (spec.md §4.4).
	global.DefineOwn("globalThis", &value.Property{
		Name: value.String("globalThis"), Kind: value.PropData, Value: value.FromObject(global),
		Enumerable: value.False, Writable: value.True, Configurable: value.True,
	})

	markShared(b, global)

	return &World{Builtins: b, Global: global}
}

// markShared flags every built-in object as belonging to the immutable
// template, the bit internal/value's Shared field documents (spec.md §3.2).
func markShared(b *builtins.World, global *value.Object) {
	visited := map[*value.Object]bool{}
	var walk func(*value.Object)
	walk = func(o *value.Object) {
		if o == nil || visited[o] {
			return
		}
		visited[o] = true
		o.Shared = true
		walk(o.Proto)
		for _, e := range o.Elements {
			walk(e.Object())
		}
		o.EachOwn(func(p *value.Property) {
			walk(p.Value.Object())
			walk(p.Getter)
			walk(p.Setter)
		})
	}
	walk(global)
	walk(b.ObjectProto)
	walk(b.FunctionProto)
	walk(b.ArrayProto)
	walk(b.StringProto)
	walk(b.NumberProto)
	walk(b.BooleanProto)
	walk(b.SymbolProto)
	walk(b.DateProto)
	walk(b.ArrayBufferProto)
	walk(b.RegExpProto)
	walk(b.ErrorProto)
	for _, p := range b.ErrorKindProtos {
		walk(p)
	}
	walk(b.MathObject)
	walk(b.JSONObject)
}

// Clone produces an independent copy of the whole world: every reachable
// object is cloned exactly once (a visited map keyed by the original
// pointer dedups cycles, e.g. Array.prototype.constructor pointing back to
// the Array constructor whose .prototype points back to the same proto),
// and every Proto/Elements/Property reference is rewritten to point at the
// corresponding clone (spec.md §3.5, §5).
func (w *World) Clone() *World {
	clones := map[*value.Object]*value.Object{}

	var cloneOf func(*value.Object) *value.Object
	cloneOf = func(o *value.Object) *value.Object {
		if o == nil {
			return nil
		}
		if c, ok := clones[o]; ok {
			return c
		}
		c := o.Clone()
		clones[o] = c
		return c
	}

	// First pass: shallow-clone every reachable object.
	var discover func(*value.Object)
	visited := map[*value.Object]bool{}
	discover = func(o *value.Object) {
		if o == nil || visited[o] {
			return
		}
		visited[o] = true
		cloneOf(o)
		discover(o.Proto)
		for _, e := range o.Elements {
			discover(e.Object())
		}
		o.EachOwn(func(p *value.Property) {
			discover(p.Value.Object())
			discover(p.Getter)
			discover(p.Setter)
		})
	}
	discover(w.Global)

	// Second pass: rewrite every clone's internal references to point at
	// clones instead of originals.
	for orig, c := range clones {
		c.Proto = cloneOf(orig.Proto)
		for i, e := range c.Elements {
			if eo := e.Object(); eo != nil {
				c.Elements[i] = value.FromObject(cloneOf(eo))
			}
		}
		c.EachOwn(func(p *value.Property) {
			if po := p.Value.Object(); po != nil {
				p.Value = value.FromObject(cloneOf(po))
			}
			p.Getter = cloneOf(p.Getter)
			p.Setter = cloneOf(p.Setter)
		})
	}

	nb := *w.Builtins
	nb.ObjectProto = cloneOf(w.Builtins.ObjectProto)
	nb.FunctionProto = cloneOf(w.Builtins.FunctionProto)
	nb.ArrayProto = cloneOf(w.Builtins.ArrayProto)
	nb.StringProto = cloneOf(w.Builtins.StringProto)
	nb.NumberProto = cloneOf(w.Builtins.NumberProto)
	nb.BooleanProto = cloneOf(w.Builtins.BooleanProto)
	nb.SymbolProto = cloneOf(w.Builtins.SymbolProto)
	nb.DateProto = cloneOf(w.Builtins.DateProto)
	nb.ArrayBufferProto = cloneOf(w.Builtins.ArrayBufferProto)
	nb.RegExpProto = cloneOf(w.Builtins.RegExpProto)
	nb.ErrorProto = cloneOf(w.Builtins.ErrorProto)
	nb.ErrorKindProtos = map[string]*value.Object{}
	for k, p := range w.Builtins.ErrorKindProtos {
		nb.ErrorKindProtos[k] = cloneOf(p)
	}
	nb.MathObject = cloneOf(w.Builtins.MathObject)
	nb.JSONObject = cloneOf(w.Builtins.JSONObject)

	return &World{Builtins: &nb, Global: cloneOf(w.Global)}
}

// Proto looks up a named prototype, satisfying builtins.ProtoSource so
// native method bodies observe this clone's (possibly already-mutated-by-
// user-code) prototypes instead of the shared template's.
func (w *World) Proto(name string) *value.Object {
	switch name {
	case "Object":
		return w.Builtins.ObjectProto
	case "Array":
		return w.Builtins.ArrayProto
	case "Function":
		return w.Builtins.FunctionProto
	case "String":
		return w.Builtins.StringProto
	case "Number":
		return w.Builtins.NumberProto
	case "Boolean":
		return w.Builtins.BooleanProto
	case "Symbol":
		return w.Builtins.SymbolProto
	case "Date":
		return w.Builtins.DateProto
	case "ArrayBuffer":
		return w.Builtins.ArrayBufferProto
	case "RegExp":
		return w.Builtins.RegExpProto
	default:
		if p, ok := w.Builtins.ErrorKindProtos[name]; ok {
			return p
		}
		return nil
	}
}
