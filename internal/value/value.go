// Package value implements the engine's runtime value representation and
// property model (spec.md §3).
//
// The specification calls for a uniform 16-byte tagged cell (NaN-boxed or
// hand-packed). That layout buys a C engine cache-line density that a
// garbage-collected host language cannot reproduce without hiding pointers
// from the collector — an unsafe trade this module declines to make (see
// DESIGN.md "Open Questions"). Value is instead a small tagged struct: one
// Kind byte plus the native Go fields needed to hold each variant. Every
// *semantic* invariant spec.md §3.1 lists (primitive/object tag ordering,
// the truth bit, -0 vs +0, well-known vs described symbols) is preserved;
// only the bit-for-bit packing is not.
package value

import "math"

// Kind is the discriminant of a Value (spec.md §3.1).
type Kind uint8

const (
	KindNull Kind = iota
	KindUndefined
	KindBoolean
	KindNumber
	KindSymbol
	KindString
	KindData
	KindExternal
	KindInvalid

	// primitiveEnd marks the boundary used by IsPrimitive/IsObject range
	// checks (spec.md §3.1 "primitive tags strictly order below object
	// tags").
	primitiveEnd

	KindObject
	KindArray
	KindBooleanWrapper
	KindNumberWrapper
	KindSymbolWrapper
	KindStringWrapper
	KindFunction
	KindRegExp
	KindDate
	KindValueWrapper
	KindArrayBuffer
)

// IsPrimitive reports whether k is one of the primitive kinds.
func (k Kind) IsPrimitive() bool { return k < primitiveEnd }

// IsObject reports whether k is one of the object kinds.
func (k Kind) IsObject() bool { return k > primitiveEnd }

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindData:
		return "data"
	case KindExternal:
		return "external"
	case KindInvalid:
		return "invalid"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindRegExp:
		return "regexp"
	case KindDate:
		return "date"
	case KindArrayBuffer:
		return "arraybuffer"
	default:
		return "object"
	}
}

// Value is the engine's uniform runtime value (spec.md §3.1).
type Value struct {
	kind  Kind
	num   float64 // number payload; also doubles as the symbol well-known id
	str   string  // string payload, or a symbol's description
	truth bool    // cached truth bit, set at assignment (spec.md §3.1)
	obj   *Object // object payload for object-family kinds
	data  any     // opaque host pointer for KindData/KindExternal
}

// Undefined, Null are the two singleton non-boolean primitives.
var (
	Undefined = Value{kind: KindUndefined, truth: false}
	Null      = Value{kind: KindNull, truth: false}
)

// Bool constructs a boolean Value; the truth bit equals the value itself.
func Bool(b bool) Value { return Value{kind: KindBoolean, truth: b, num: boolNum(b)} }

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Number constructs a number Value. NaN, ±Infinity, and -0 all round-trip
// through IEEE-754 untouched (spec.md §3.1, §4.4).
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n, truth: n != 0 && !math.IsNaN(n)}
}

// String constructs a string Value. The short/long split spec.md §3.1
// describes as two in-cell layouts collapses to "Go string" here — the Go
// runtime already shares immutable backing arrays across copies, which is
// the property the split exists to provide.
func String(s string) Value {
	return Value{kind: KindString, str: s, truth: len(s) != 0}
}

// Symbol constructs a described (non-well-known) symbol.
func Symbol(description string) Value {
	return Value{kind: KindSymbol, str: description, num: -1, truth: true}
}

// WellKnownSymbol constructs one of the fixed well-known symbols, which
// carry a small integer id instead of a description pointer (spec.md
// §3.1). See internal/builtins/symbols.go for the canonical table of these.
func WellKnownSymbol(id int, name string) Value {
	return Value{kind: KindSymbol, str: name, num: float64(id), truth: true}
}

// FromObject wraps an *Object as a Value, tagging it with the object's Kind.
func FromObject(o *Object) Value {
	return Value{kind: o.Kind, obj: o, truth: true}
}

// Data wraps an opaque host pointer (spec.md §3.1 KindData).
func Data(ptr any) Value { return Value{kind: KindData, data: ptr, truth: true} }

// Kind returns v's discriminant.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined, IsNull, IsNullish report the obvious predicates.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsNullish() bool   { return v.kind == KindUndefined || v.kind == KindNull }

// IsObject reports whether v holds one of the object-family kinds.
func (v Value) IsObject() bool { return v.kind.IsObject() }

// Bool returns v's boolean payload (only meaningful when Kind()==KindBoolean).
func (v Value) Bool() bool { return v.num != 0 }

// Num returns v's number payload (only meaningful when Kind()==KindNumber).
func (v Value) Num() float64 { return v.num }

// Str returns v's string/symbol-description payload.
func (v Value) Str() string { return v.str }

// SymbolID returns the well-known id of a symbol value, or -1 for a
// described (non-well-known) symbol.
func (v Value) SymbolID() int { return int(v.num) }

// Object returns the *Object payload, or nil for a non-object Value.
func (v Value) Object() *Object { return v.obj }

// DataPtr returns the opaque host payload.
func (v Value) DataPtr() any { return v.data }

// Truthy implements spec.md §3.1's O(1) truth bit: boolean coercion never
// re-inspects the payload.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindInvalid:
		return false
	default:
		return v.truth
	}
}

// IsNegativeZero reports whether v is the number -0, distinct from +0 per
// spec.md §3.1 (preserved through Object.is).
func (v Value) IsNegativeZero() bool {
	return v.kind == KindNumber && v.num == 0 && math.Signbit(v.num)
}

// SameValue implements Object.is semantics (spec.md §3.1, §8).
func SameValue(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		if math.IsNaN(a.num) && math.IsNaN(b.num) {
			return true
		}
		if a.num == 0 && b.num == 0 {
			return math.Signbit(a.num) == math.Signbit(b.num)
		}
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindBoolean:
		return a.Bool() == b.Bool()
	case KindUndefined, KindNull:
		return true
	case KindSymbol:
		return a.num == b.num && a.str == b.str
	default:
		return a.obj == b.obj
	}
}

// Invalid is the sentinel used for uninitialized array slots ("holes") and
// an absent property getter (spec.md §3.1).
var Invalid = Value{kind: KindInvalid}
