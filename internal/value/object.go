package value

import (
	"regexp"
	"sort"

	"github.com/cwbudde/go-njs/internal/hash"
)

// TriState models an attribute that can be true, false, or "unset"
// (inherits the default for the operation that created it), per spec.md
// §3.2.
type TriState uint8

const (
	Unset TriState = iota
	True
	False
)

// FromBool converts a plain bool into a TriState of True/False.
func FromBool(b bool) TriState {
	if b {
		return True
	}
	return False
}

// IsTrue reports whether the tri-state is explicitly True.
func (t TriState) IsTrue() bool { return t == True }

// PropKind discriminates how a property's value is produced and stored
// (spec.md §3.2, §9 "three distinct dispatch surfaces").
type PropKind uint8

const (
	PropData PropKind = iota
	PropAccessor
	PropHandler
	PropWhiteout
)

// Handler is a host callback backing a "handler" property (spec.md §3.2,
// §4.8). setval is nil for a get, the new value for a set, and del is true
// for a delete.
type Handler func(obj *Object, setval *Value, del bool) (Value, error)

// Property is one entry in an object's property table (spec.md §3.2).
type Property struct {
	Name         Value // string or symbol value; never string-confused with a symbol
	Kind         PropKind
	Value        Value
	Getter       *Object
	Setter       *Object
	Handler      Handler
	Enumerable   TriState
	Writable     TriState
	Configurable TriState
}

// Object is the engine's uniform object representation (spec.md §3.2).
type Object struct {
	Kind Kind

	own    *hash.Table[*Property]
	shared *hash.Table[*Property] // prototype-installed / lazily materialised members

	Proto *Object

	Shared      bool // this object belongs to the immutable shared world
	Extensible  bool
	ErrorData   bool // Error instances' toString shortcut
	Subtype     string

	// Array-only fields (spec.md §3.2 "array.length is an out-of-line field").
	Elements []Value
	IsArray  bool

	// Function-only fields live in Function, embedded via Fn.
	Fn *Function

	// Internal slot used by boxed primitives (Boolean/Number/String/Symbol
	// wrappers) and by Date.
	Primitive Value

	// Host-backed external objects (spec.md §4.8).
	External *ExternalBinding

	// Regexp backs a KindRegExp instance's compiled pattern. Shared across
	// clones like any other immutable value: compiling is side-effect-free,
	// so no per-clone recompilation is needed.
	Regexp *regexp.Regexp
}

// NewObject creates a bare, extensible object with the given prototype.
func NewObject(proto *Object) *Object {
	return &Object{
		Kind:       KindObject,
		own:        hash.New[*Property](),
		Proto:      proto,
		Extensible: true,
	}
}

// NewArray creates an array object with the given prototype and backing
// element slice.
func NewArray(proto *Object, elems []Value) *Object {
	return &Object{
		Kind:       KindArray,
		own:        hash.New[*Property](),
		Proto:      proto,
		Extensible: true,
		Elements:   elems,
		IsArray:    true,
	}
}

// OwnProperty looks up name in the object's own table only (private then
// shared), implementing the "own vs inherited" distinction of spec.md §3.2
// / GLOSSARY.
func (o *Object) OwnProperty(name string) (*Property, bool) {
	if p, ok := o.own.Find(name); ok {
		return p, true
	}
	if o.shared != nil {
		if p, ok := o.shared.Find(name); ok {
			return p, true
		}
	}
	return nil, false
}

// DefineOwn installs or replaces an own property, bypassing the full
// get/set protocol (used by the built-in factory and by Object.defineProperty
// after its own checks).
func (o *Object) DefineOwn(name string, p *Property) {
	o.own.Insert(name, p, true)
}

// DeleteOwn removes name from the own table outright (used when a
// whiteout is not needed, e.g. deleting a data property with nothing
// inherited beneath it).
func (o *Object) DeleteOwn(name string) bool {
	return o.own.Delete(name)
}

// Whiteout installs a tombstone so an inherited same-name property is
// shadowed (GLOSSARY "Whiteout"; spec.md §4.5 step 5).
func (o *Object) Whiteout(name string) {
	o.own.Insert(name, &Property{Name: String(name), Kind: PropWhiteout}, true)
}

// OwnKeys returns own keys (only enumerable ones when enumerableOnly is
// set): integer-index keys first in numeric order, then the rest in
// insertion order, the ordering spec.md §8 requires of Object.keys/for…in.
func (o *Object) OwnKeys(enumerableOnly bool) []string {
	var keys []string
	seen := map[string]bool{}
	collect := func(t *hash.Table[*Property]) {
		if t == nil {
			return
		}
		t.Each(func(k string, p *Property) bool {
			if seen[k] {
				return true
			}
			seen[k] = true
			if p.Kind == PropWhiteout {
				return true
			}
			if enumerableOnly && p.Enumerable != True {
				return true
			}
			keys = append(keys, k)
			return true
		})
	}
	collect(o.own)
	collect(o.shared)
	return orderArrayIndicesFirst(keys)
}

// orderArrayIndicesFirst reorders keys so integer-index keys sort
// numerically ahead of the remaining insertion-ordered string keys, the
// canonical own-key ordering ECMAScript objects use.
func orderArrayIndicesFirst(keys []string) []string {
	var idx []string
	var rest []string
	for _, k := range keys {
		if IsArrayIndex(k) {
			idx = append(idx, k)
		} else {
			rest = append(rest, k)
		}
	}
	sort.Slice(idx, func(i, j int) bool { return len(idx[i]) < len(idx[j]) || (len(idx[i]) == len(idx[j]) && idx[i] < idx[j]) })
	return append(idx, rest...)
}

// IsArrayIndex reports whether s is a canonical array index string
// (spec.md §3.2: integer-valued strings in 0..2^32-2).
func IsArrayIndex(s string) bool {
	if s == "" || (s[0] == '0' && len(s) != 1) {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	var n uint64
	for _, c := range s {
		n = n*10 + uint64(c-'0')
		if n > 1<<32-2 {
			return false
		}
	}
	return true
}

// PrototypeChainHas reports whether target appears in start's prototype
// chain, used to reject cyclic __proto__ assignment (spec.md §3.2, §8).
func PrototypeChainHas(start, target *Object) bool {
	for p := start; p != nil; p = p.Proto {
		if p == target {
			return true
		}
	}
	return false
}

// Clone produces an independent copy of a shared-world object suitable for
// installing into a fresh per-run VM (spec.md §3.5, §5). Proto, and any
// object referenced by a cloned Property's Value/Getter/Setter or by an
// Elements slot, must be re-chained by the caller (internal/shared walks
// the whole graph and does this) once clones of every reachable object
// exist — Clone itself only guarantees that the Property *records* are
// independent, so mutating one clone's property never reaches another's.
func (o *Object) Clone() *Object {
	c := *o
	cloneProp := func(p *Property) *Property {
		if p == nil {
			return nil
		}
		cp := *p
		return &cp
	}
	c.own = o.own.CloneWith(cloneProp)
	if o.shared != nil {
		c.shared = o.shared.CloneWith(cloneProp)
	}
	c.Elements = append([]Value(nil), o.Elements...)
	c.Shared = false
	return &c
}

// EachOwn visits every own property record (own table, then shared table),
// letting internal/shared's clone re-chainer mutate Property.Value in
// place without needing a name-keyed round trip through OwnProperty.
func (o *Object) EachOwn(fn func(*Property)) {
	if o.own != nil {
		o.own.Each(func(_ string, p *Property) bool { fn(p); return true })
	}
	if o.shared != nil {
		o.shared.Each(func(_ string, p *Property) bool { fn(p); return true })
	}
}
