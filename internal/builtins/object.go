package builtins

import (
	"github.com/cwbudde/go-njs/internal/value"
)

func buildObject(w *World) {
	// ObjectProto is the root of every prototype chain (spec.md §3.2's
	// chain terminator): its own Proto stays nil.
	proto := value.NewObject(nil)
	w.ObjectProto = proto

	method(proto, "hasOwnProperty", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o := this.Object()
		if o == nil {
			return value.Bool(false), nil
		}
		k := value.KeyString(arg(args, 0))
		if o.Kind == value.KindArray {
			if idx, ok := value.NumericIndex(k); ok {
				return value.Bool(idx < len(o.Elements) && o.Elements[idx].Kind() != value.KindInvalid), nil
			}
			if k == "length" {
				return value.Bool(true), nil
			}
		}
		_, ok := o.OwnProperty(k)
		return value.Bool(ok), nil
	})

	method(proto, "isPrototypeOf", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		target := arg(args, 0).Object()
		self := this.Object()
		if target == nil || self == nil {
			return value.Bool(false), nil
		}
		return value.Bool(value.PrototypeChainHas(target.Proto, self)), nil
	})

	method(proto, "propertyIsEnumerable", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o := this.Object()
		if o == nil {
			return value.Bool(false), nil
		}
		p, ok := o.OwnProperty(value.KeyString(arg(args, 0)))
		return value.Bool(ok && p.Enumerable.IsTrue()), nil
	})

	method(proto, "toString", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		tag := "Object"
		if o := this.Object(); o != nil && o.Subtype != "" {
			tag = o.Subtype
		}
		return value.String("[object " + tag + "]"), nil
	})

	method(proto, "valueOf", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		return this, nil
	})

	ctor := native("Object", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 || arg(args, 0).IsNullish() {
			return value.FromObject(value.NewObject(protoFor(inv, "Object", w.ObjectProto))), nil
		}
		return args[0], nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	method(ctor, "keys", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		o := arg(args, 0).Object()
		if o == nil {
			return value.FromObject(value.NewArray(w.ArrayProto, nil)), nil
		}
		keys := o.OwnKeys(true)
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.String(k)
		}
		return value.FromObject(value.NewArray(w.ArrayProto, elems)), nil
	})

	method(ctor, "values", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		o := arg(args, 0).Object()
		if o == nil {
			return value.FromObject(value.NewArray(w.ArrayProto, nil)), nil
		}
		keys := o.OwnKeys(true)
		elems := make([]value.Value, 0, len(keys))
		for _, k := range keys {
			v, err := value.Get(inv, o, value.String(k))
			if err != nil {
				return value.Undefined, err
			}
			elems = append(elems, v)
		}
		return value.FromObject(value.NewArray(w.ArrayProto, elems)), nil
	})

	method(ctor, "entries", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		o := arg(args, 0).Object()
		if o == nil {
			return value.FromObject(value.NewArray(w.ArrayProto, nil)), nil
		}
		keys := o.OwnKeys(true)
		elems := make([]value.Value, 0, len(keys))
		for _, k := range keys {
			v, err := value.Get(inv, o, value.String(k))
			if err != nil {
				return value.Undefined, err
			}
			elems = append(elems, value.FromObject(value.NewArray(w.ArrayProto, []value.Value{value.String(k), v})))
		}
		return value.FromObject(value.NewArray(w.ArrayProto, elems)), nil
	})

	method(ctor, "assign", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Undefined, typeError("Object.assign target required")
		}
		target := args[0].Object()
		if target == nil {
			return args[0], nil
		}
		for _, src := range args[1:] {
			so := src.Object()
			if so == nil {
				continue
			}
			for _, k := range so.OwnKeys(true) {
				v, err := value.Get(inv, so, value.String(k))
				if err != nil {
					return value.Undefined, err
				}
				if err := value.Set(inv, target, value.String(k), v); err != nil {
					return value.Undefined, err
				}
			}
		}
		return args[0], nil
	})

	method(ctor, "freeze", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		o := arg(args, 0).Object()
		if o == nil {
			return arg(args, 0), nil
		}
		o.Extensible = false
		for _, k := range o.OwnKeys(false) {
			if p, ok := o.OwnProperty(k); ok {
				p.Writable = value.False
				p.Configurable = value.False
			}
		}
		return arg(args, 0), nil
	})

	method(ctor, "isFrozen", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		o := arg(args, 0).Object()
		if o == nil {
			return value.Bool(true), nil
		}
		if o.Extensible {
			return value.Bool(false), nil
		}
		frozen := true
		for _, k := range o.OwnKeys(false) {
			if p, ok := o.OwnProperty(k); ok && (p.Writable == value.True || p.Configurable == value.True) {
				frozen = false
				break
			}
		}
		return value.Bool(frozen), nil
	})

	method(ctor, "getPrototypeOf", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		o := arg(args, 0).Object()
		if o == nil || o.Proto == nil {
			return value.Null, nil
		}
		return value.FromObject(o.Proto), nil
	})

	method(ctor, "create", 2, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		var proto *value.Object
		if p := arg(args, 0); p.Kind() == value.KindObject || p.Kind() == value.KindArray {
			proto = p.Object()
		}
		return value.FromObject(value.NewObject(proto)), nil
	})

	w.Globals["Object"] = value.FromObject(ctor)
}
