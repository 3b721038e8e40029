package builtins

import (
	"sort"
	"strings"

	"github.com/cwbudde/go-njs/internal/value"
)

func thisArray(this value.Value) (*value.Object, error) {
	o := this.Object()
	if o == nil {
		return nil, typeError("Array.prototype method called on non-object")
	}
	return o, nil
}

func buildArray(w *World) {
	proto := value.NewArray(w.ObjectProto, nil)
	w.ArrayProto = proto

	method(proto, "push", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		o.Elements = append(o.Elements, args...)
		return value.Number(float64(len(o.Elements))), nil
	})

	method(proto, "pop", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		n := len(o.Elements)
		if n == 0 {
			return value.Undefined, nil
		}
		v := o.Elements[n-1]
		o.Elements = o.Elements[:n-1]
		return v, nil
	})

	method(proto, "shift", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		if len(o.Elements) == 0 {
			return value.Undefined, nil
		}
		v := o.Elements[0]
		o.Elements = o.Elements[1:]
		return v, nil
	})

	method(proto, "unshift", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		o.Elements = append(append([]value.Value{}, args...), o.Elements...)
		return value.Number(float64(len(o.Elements))), nil
	})

	method(proto, "slice", 2, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		n := len(o.Elements)
		start := normIndex(arg(args, 0), n, 0)
		end := normIndex(arg(args, 1), n, n)
		if start > end {
			start = end
		}
		out := append([]value.Value(nil), o.Elements[start:end]...)
		return value.FromObject(value.NewArray(w.ArrayProto, out)), nil
	})

	method(proto, "splice", 2, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		n := len(o.Elements)
		start := normIndex(arg(args, 0), n, 0)
		delCount := n - start
		if len(args) > 1 {
			if d := int(arg(args, 1).Num()); d >= 0 && d < delCount {
				delCount = d
			}
		}
		removed := append([]value.Value(nil), o.Elements[start:start+delCount]...)
		var ins []value.Value
		if len(args) > 2 {
			ins = args[2:]
		}
		tail := append([]value.Value(nil), o.Elements[start+delCount:]...)
		o.Elements = append(append(o.Elements[:start], ins...), tail...)
		return value.FromObject(value.NewArray(w.ArrayProto, removed)), nil
	})

	method(proto, "concat", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		out := append([]value.Value(nil), o.Elements...)
		for _, a := range args {
			if ao := a.Object(); ao != nil && ao.Kind == value.KindArray {
				out = append(out, ao.Elements...)
			} else {
				out = append(out, a)
			}
		}
		return value.FromObject(value.NewArray(w.ArrayProto, out)), nil
	})

	method(proto, "join", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			s, err := value.ToString(inv, args[0])
			if err != nil {
				return value.Undefined, err
			}
			sep = s
		}
		parts := make([]string, len(o.Elements))
		for i, v := range o.Elements {
			if v.IsNullish() || v.Kind() == value.KindInvalid {
				parts[i] = ""
				continue
			}
			s, err := value.ToString(inv, v)
			if err != nil {
				return value.Undefined, err
			}
			parts[i] = s
		}
		return value.String(strings.Join(parts, sep)), nil
	})

	method(proto, "indexOf", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		target := arg(args, 0)
		for i, v := range o.Elements {
			if value.StrictEquals(v, target) {
				return value.Number(float64(i)), nil
			}
		}
		return value.Number(-1), nil
	})

	method(proto, "lastIndexOf", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		target := arg(args, 0)
		for i := len(o.Elements) - 1; i >= 0; i-- {
			if value.StrictEquals(o.Elements[i], target) {
				return value.Number(float64(i)), nil
			}
		}
		return value.Number(-1), nil
	})

	method(proto, "includes", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		target := arg(args, 0)
		for _, v := range o.Elements {
			if value.StrictEquals(v, target) || (target.Kind() == value.KindNumber && v.Kind() == value.KindNumber && target.Num() != target.Num() && v.Num() != v.Num()) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	})

	method(proto, "reverse", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		for i, j := 0, len(o.Elements)-1; i < j; i, j = i+1, j-1 {
			o.Elements[i], o.Elements[j] = o.Elements[j], o.Elements[i]
		}
		return this, nil
	})

	method(proto, "forEach", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		thisArg := arg(args, 1)
		for i, v := range o.Elements {
			if _, err := inv.Call(cb, thisArg, []value.Value{v, value.Number(float64(i)), this}); err != nil {
				return value.Undefined, err
			}
		}
		return value.Undefined, nil
	})

	method(proto, "map", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		thisArg := arg(args, 1)
		out := make([]value.Value, len(o.Elements))
		for i, v := range o.Elements {
			r, err := inv.Call(cb, thisArg, []value.Value{v, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			out[i] = r
		}
		return value.FromObject(value.NewArray(protoFor(inv, "Array", w.ArrayProto), out)), nil
	})

	method(proto, "filter", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		thisArg := arg(args, 1)
		var out []value.Value
		for i, v := range o.Elements {
			r, err := inv.Call(cb, thisArg, []value.Value{v, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if r.Truthy() {
				out = append(out, v)
			}
		}
		return value.FromObject(value.NewArray(protoFor(inv, "Array", w.ArrayProto), out)), nil
	})

	method(proto, "find", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		thisArg := arg(args, 1)
		for i, v := range o.Elements {
			r, err := inv.Call(cb, thisArg, []value.Value{v, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if r.Truthy() {
				return v, nil
			}
		}
		return value.Undefined, nil
	})

	method(proto, "findIndex", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		thisArg := arg(args, 1)
		for i, v := range o.Elements {
			r, err := inv.Call(cb, thisArg, []value.Value{v, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if r.Truthy() {
				return value.Number(float64(i)), nil
			}
		}
		return value.Number(-1), nil
	})

	method(proto, "some", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		thisArg := arg(args, 1)
		for i, v := range o.Elements {
			r, err := inv.Call(cb, thisArg, []value.Value{v, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if r.Truthy() {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	})

	method(proto, "every", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		thisArg := arg(args, 1)
		for i, v := range o.Elements {
			r, err := inv.Call(cb, thisArg, []value.Value{v, value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			if !r.Truthy() {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	})

	method(proto, "reduce", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cb := arg(args, 0).Object()
		if cb == nil || cb.Fn == nil {
			return value.Undefined, typeError("callback is not a function")
		}
		i := 0
		var acc value.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(o.Elements) == 0 {
				return value.Undefined, typeError("Reduce of empty array with no initial value")
			}
			acc = o.Elements[0]
			i = 1
		}
		for ; i < len(o.Elements); i++ {
			r, err := inv.Call(cb, value.Undefined, []value.Value{acc, o.Elements[i], value.Number(float64(i)), this})
			if err != nil {
				return value.Undefined, err
			}
			acc = r
		}
		return acc, nil
	})

	method(proto, "sort", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		cmp := arg(args, 0).Object()
		var sortErr error
		sort.SliceStable(o.Elements, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			a, b := o.Elements[i], o.Elements[j]
			if cmp != nil && cmp.Fn != nil {
				r, err := inv.Call(cmp, value.Undefined, []value.Value{a, b})
				if err != nil {
					sortErr = err
					return false
				}
				return r.Num() < 0
			}
			as, err := value.ToString(inv, a)
			if err != nil {
				sortErr = err
				return false
			}
			bs, err := value.ToString(inv, b)
			if err != nil {
				sortErr = err
				return false
			}
			return as < bs
		})
		if sortErr != nil {
			return value.Undefined, sortErr
		}
		return this, nil
	})

	method(proto, "toString", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisArray(this)
		if err != nil {
			return value.Undefined, err
		}
		parts := make([]string, len(o.Elements))
		for i, v := range o.Elements {
			if v.IsNullish() {
				continue
			}
			s, err := value.ToString(inv, v)
			if err != nil {
				return value.Undefined, err
			}
			parts[i] = s
		}
		return value.String(strings.Join(parts, ",")), nil
	})

	ctor := native("Array", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		p := protoFor(inv, "Array", w.ArrayProto)
		if len(args) == 1 && args[0].Kind() == value.KindNumber {
			n := int(args[0].Num())
			return value.FromObject(value.NewArray(p, make([]value.Value, n))), nil
		}
		return value.FromObject(value.NewArray(p, append([]value.Value(nil), args...))), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	method(ctor, "isArray", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		o := arg(args, 0).Object()
		return value.Bool(o != nil && o.Kind == value.KindArray), nil
	})

	method(ctor, "from", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		src := arg(args, 0)
		var elems []value.Value
		if o := src.Object(); o != nil && o.Kind == value.KindArray {
			elems = append([]value.Value(nil), o.Elements...)
		} else if src.Kind() == value.KindString {
			for _, r := range src.Str() {
				elems = append(elems, value.String(string(r)))
			}
		}
		if cb := arg(args, 1).Object(); cb != nil && cb.Fn != nil {
			for i, v := range elems {
				r, err := inv.Call(cb, value.Undefined, []value.Value{v, value.Number(float64(i))})
				if err != nil {
					return value.Undefined, err
				}
				elems[i] = r
			}
		}
		return value.FromObject(value.NewArray(protoFor(inv, "Array", w.ArrayProto), elems)), nil
	})

	method(ctor, "of", 0, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		return value.FromObject(value.NewArray(protoFor(inv, "Array", w.ArrayProto), append([]value.Value(nil), args...))), nil
	})

	w.Globals["Array"] = value.FromObject(ctor)
}

// normIndex implements Array.prototype.slice/splice's relative-index
// clamp: negative counts back from the end, out-of-range clamps to [0,n].
func normIndex(v value.Value, n, def int) int {
	if v.IsUndefined() {
		return def
	}
	i := int(v.Num())
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}
