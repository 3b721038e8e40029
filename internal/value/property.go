package value

import (
	"fmt"
	"math"
	"strconv"
)

// Invoker lets the property protocol call back into the VM to run an
// accessor, a handler-backed external method, or a Proxy-free getter
// without internal/value importing internal/vmrt (spec.md §4.5 step 2-3).
type Invoker interface {
	Call(fn *Object, this Value, args []Value) (Value, error)
}

// Intent is the operation a property lookup is being performed for
// (spec.md §4.5).
type Intent uint8

const (
	IntentGet Intent = iota
	IntentSet
	IntentDelete
	IntentHas
)

// KeyString normalises a property key the way spec.md §4.5 mandates:
// numeric strings become canonical index strings, symbols keep their own
// identity namespace (never string-confused), and anything else is used
// as-is.
func KeyString(key Value) string {
	if key.Kind() == KindSymbol {
		return symbolKey(key)
	}
	if key.Kind() == KindNumber {
		return FormatNumber(key.Num())
	}
	return key.Str()
}

func symbolKey(key Value) string {
	// Symbols never collide with string keys: prefix with a control byte
	// that cannot appear in a normal property name.
	return "\x00sym:" + strconv.Itoa(key.SymbolID()) + ":" + key.Str()
}

// NumericIndex returns (index, true) if key names a canonical array index
// (spec.md §3.2).
func NumericIndex(key string) (int, bool) {
	if !IsArrayIndex(key) {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Get implements the read half of spec.md §4.5's property-query protocol.
func Get(inv Invoker, target *Object, key Value) (Value, error) {
	k := KeyString(key)

	if target.Kind == KindArray {
		if idx, ok := NumericIndex(k); ok {
			if idx < len(target.Elements) {
				v := target.Elements[idx]
				if v.Kind() == KindInvalid {
					return Undefined, nil
				}
				return v, nil
			}
			return Undefined, nil
		}
		if k == "length" {
			return Number(float64(len(target.Elements))), nil
		}
	}

	if target.Kind == KindExternal && target.External != nil {
		return getExternal(inv, target, k)
	}

	for o := target; o != nil; o = o.Proto {
		p, ok := o.OwnProperty(k)
		if !ok {
			continue
		}
		switch p.Kind {
		case PropWhiteout:
			return Undefined, nil
		case PropHandler:
			return p.Handler(o, nil, false)
		case PropAccessor:
			if p.Getter == nil {
				return Undefined, nil
			}
			return inv.Call(p.Getter, FromObject(target), nil)
		default:
			return p.Value, nil
		}
	}
	return Undefined, nil
}

func getExternal(inv Invoker, target *Object, key string) (Value, error) {
	b := target.External
	child, ok := b.Node.Children[key]
	if !ok {
		return Undefined, nil
	}
	switch child.Kind {
	case ExternalProperty:
		if child.Getter == nil {
			return Undefined, nil
		}
		return child.Getter(b.Host)
	case ExternalMethod:
		return makeExternalMethod(target, child), nil
	case ExternalObject:
		if o, ok := b.NestedCache(key); ok {
			return FromObject(o), nil
		}
		o := &Object{Kind: KindExternal, Extensible: true, External: &ExternalBinding{Node: child, Host: b.Host}}
		b.CacheNested(key, o)
		return FromObject(o), nil
	default:
		return Undefined, nil
	}
}

// makeExternalMethod wraps an external method's Call callback as a native
// function Value, receiver-validated by the VM at call time (spec.md §4.8).
func makeExternalMethod(receiver *Object, node *ExternalNode) Value {
	o := &Object{Kind: KindFunction, Extensible: true}
	o.Fn = &Function{
		Name:     node.Name,
		IsNative: true,
		Flavor:   FlavorNative,
		Native: func(_ Invoker, thisVal Value, args []Value) (Value, error) {
			host := receiver.External.Host
			if thisVal.Kind() == KindExternal && thisVal.Object() != nil && thisVal.Object().External != nil {
				host = thisVal.Object().External.Host
			}
			return node.Call(host, args)
		},
	}
	return FromObject(o)
}

// Set implements the write half of spec.md §4.5's protocol, including the
// frozen/non-writable TypeError (spec.md §4.4) and array length semantics
// (spec.md §3.2, §4.5).
func Set(inv Invoker, target *Object, key Value, val Value) error {
	k := KeyString(key)

	if target.Kind == KindExternal && target.External != nil {
		child, ok := target.External.Node.Children[k]
		if ok && child.Kind == ExternalProperty && child.Setter != nil {
			return child.Setter(target.External.Host, val)
		}
		return fmt.Errorf("TypeError: cannot set property %q on external object", k)
	}

	if target.Kind == KindArray {
		if idx, ok := NumericIndex(k); ok {
			growArray(target, idx)
			target.Elements[idx] = val
			return nil
		}
		if k == "length" {
			return setArrayLength(target, val)
		}
	}

	// Walk the chain looking for an accessor or a non-writable ancestor
	// property (spec.md §4.5 step 4).
	for o := target; o != nil; o = o.Proto {
		p, ok := o.OwnProperty(k)
		if !ok {
			continue
		}
		switch p.Kind {
		case PropHandler:
			_, err := p.Handler(o, &val, false)
			return err
		case PropAccessor:
			if p.Setter == nil {
				return fmt.Errorf(`TypeError: Cannot set property "%s" of object which has only a getter`, k)
			}
			_, err := inv.Call(p.Setter, FromObject(target), []Value{val})
			return err
		case PropWhiteout:
			o = nil // fall through to create on target
		default:
			if o == target {
				if p.Writable == False {
					return fmt.Errorf(`TypeError: Cannot assign to read-only property "%s" of object`, k)
				}
				p.Value = val
				return nil
			}
			if p.Writable == False {
				return fmt.Errorf(`TypeError: Cannot assign to read-only property "%s" of object`, k)
			}
		}
		break
	}

	if !target.Extensible {
		return fmt.Errorf("TypeError: cannot add property %q, object is not extensible", k)
	}
	target.DefineOwn(k, &Property{
		Name: key, Kind: PropData, Value: val,
		Enumerable: True, Writable: True, Configurable: True,
	})
	return nil
}

func growArray(target *Object, idx int) {
	if idx < len(target.Elements) {
		return
	}
	grown := make([]Value, idx+1)
	copy(grown, target.Elements)
	for i := len(target.Elements); i < idx; i++ {
		grown[i] = Invalid
	}
	target.Elements = grown
}

// setArrayLength implements spec.md §3.2's truncate-or-pad-with-holes
// semantics, including the 2^32-1 rejection.
func setArrayLength(target *Object, val Value) error {
	n := val.Num()
	if math.IsNaN(n) || n < 0 || n != math.Trunc(n) || n > math.MaxUint32-1 {
		return fmt.Errorf("RangeError: Invalid array length")
	}
	newLen := int(n)
	if newLen <= len(target.Elements) {
		target.Elements = target.Elements[:newLen]
		return nil
	}
	grown := make([]Value, newLen)
	copy(grown, target.Elements)
	for i := len(target.Elements); i < newLen; i++ {
		grown[i] = Invalid
	}
	target.Elements = grown
	return nil
}

// Has implements the `in` operator / HasProperty (spec.md §4.5).
func Has(target *Object, key Value) bool {
	k := KeyString(key)
	if target.Kind == KindArray {
		if idx, ok := NumericIndex(k); ok {
			return idx < len(target.Elements) && target.Elements[idx].Kind() != KindInvalid
		}
		if k == "length" {
			return true
		}
	}
	if target.Kind == KindExternal && target.External != nil {
		_, ok := target.External.Node.Children[k]
		return ok
	}
	for o := target; o != nil; o = o.Proto {
		if p, ok := o.OwnProperty(k); ok {
			return p.Kind != PropWhiteout
		}
	}
	return false
}

// Delete implements spec.md §4.5 step 5: only an own non-configurable
// property throws, and deleting an absent property returns true.
func Delete(target *Object, key Value) (bool, error) {
	k := KeyString(key)

	if target.Kind == KindExternal && target.External != nil {
		child, ok := target.External.Node.Children[k]
		if ok && child.Deleter != nil {
			if err := child.Deleter(target.External.Host); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	if target.Kind == KindArray {
		if idx, ok := NumericIndex(k); ok {
			if idx < len(target.Elements) {
				target.Elements[idx] = Invalid
			}
			return true, nil
		}
	}

	p, ok := target.OwnProperty(k)
	if !ok {
		return true, nil
	}
	if p.Configurable == False {
		return false, fmt.Errorf(`TypeError: Cannot delete property "%s"`, k)
	}
	target.DeleteOwn(k)
	// A deleted own property must still shadow an inherited same-name
	// property: install a whiteout unless there is nothing to shadow.
	if target.Proto != nil && Has(target.Proto, key) {
		target.Whiteout(k)
	}
	return true, nil
}
