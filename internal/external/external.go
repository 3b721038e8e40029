// Package external builds host-extension prototype trees (spec.md §4.8):
// a host describes a tree of property/method/object nodes once, and the
// engine's property protocol (internal/value's Get/Set/Delete, already
// KindExternal-aware) dispatches reads, writes, deletes, and for…in against
// the host callbacks. This mirrors the teacher's FFI bridge
// (internal/interp/ffi_callback.go, internal/interp/marshal.go) but targets
// spec.md's callback-tree shape instead of the teacher's reflection-based
// function registration, which belongs to pkg/njs's Bind/RegisterFunction
// surface instead.
package external

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/value"
)

// Builder accumulates named children before producing the root
// *value.ExternalNode, so host code can describe a prototype tree
// declaratively instead of hand-assembling maps.
type Builder struct {
	node *value.ExternalNode
}

// NewObject starts a Builder for an `object`-kind node (or the tree root).
func NewObject(name string) *Builder {
	return &Builder{node: &value.ExternalNode{
		Name:     name,
		Kind:     value.ExternalObject,
		Children: map[string]*value.ExternalNode{},
	}}
}

// Property registers a `property` child: get is required, set/del are
// optional (a nil setter makes the property read-only; assignment then
// falls through to the property protocol's normal read-only TypeError).
func (b *Builder) Property(name string, get func(host any) (value.Value, error), set func(host any, v value.Value) error, del func(host any) error) *Builder {
	b.node.Children[name] = &value.ExternalNode{
		Name: name, Kind: value.ExternalProperty,
		Getter: get, Setter: set, Deleter: del,
	}
	return b
}

// Method registers a `method` child: call receives the bound host pointer
// (or the receiver's own host pointer, when invoked off a different
// external of the same prototype) and the JS-supplied arguments.
func (b *Builder) Method(name string, call func(host any, args []value.Value) (value.Value, error)) *Builder {
	b.node.Children[name] = &value.ExternalNode{
		Name: name, Kind: value.ExternalMethod, Call: call,
	}
	return b
}

// Object registers a nested `object` child built by a sub-Builder,
// preserving the stable-identity guarantee spec.md §4.8 requires ("an
// object child whose identity is stable across reads") via
// value.ExternalBinding.NestedCache on the parent object instance.
func (b *Builder) Object(name string, child *Builder) *Builder {
	b.node.Children[name] = child.node
	return b
}

// Keys registers the callback `for…in` uses to enumerate this node's own
// keys (spec.md §4.8); only meaningful on an object-kind node.
func (b *Builder) Keys(keys func(host any) ([]string, error)) *Builder {
	b.node.Keys = keys
	return b
}

// Build finalises the tree rooted at this Builder.
func (b *Builder) Build() *value.ExternalNode { return b.node }

// Bind wraps host behind the prototype tree rooted at node and installs
// the resulting external object as a top-level global binding (spec.md
// §4.8 "Binding an external prototype to a name installs it as a top-level
// value", spec.md §6.1 "bind"). readonly matches the "bind(VM, name, value,
// readonly)" host-API entry of spec.md §6.1.
func Bind(global *value.Object, name string, node *value.ExternalNode, host any, readonly bool) *value.Object {
	obj := New(node, host)
	global.DefineOwn(name, &value.Property{
		Name: value.String(name), Kind: value.PropData, Value: value.FromObject(obj),
		Enumerable: value.False, Writable: value.FromBool(!readonly), Configurable: value.False,
	})
	return obj
}

// New wraps host behind node as a standalone external object, without
// installing it anywhere — used for `external_create` (spec.md §6.1) and
// for a method/property callback that wants to hand back a derived
// external (spec.md §4.8 "$r.create('…').uri").
func New(node *value.ExternalNode, host any) *value.Object {
	return &value.Object{
		Kind: value.KindExternal, Extensible: true,
		External: &value.ExternalBinding{Node: node, Host: host},
	}
}

// Error wraps a host-side failure as a Go error with the TypeError prefix
// internal/errors.ClassifyMessage recognises, so a getter/setter/deleter/
// call callback's failure surfaces as a thrown JS Error (spec.md §4.8
// "may return an error that surfaces as a thrown Error in JS").
func Error(format string, args ...any) error {
	return fmt.Errorf("TypeError: "+format, args...)
}
