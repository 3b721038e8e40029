package builtins

import "github.com/cwbudde/go-njs/internal/value"

// errorKinds are the Error subclasses spec.md's internal/errors.Kind
// enumerates, MemoryError excepted (SyntaxError, ReferenceError, TypeError,
// RangeError, URIError, InternalError), plus the base Error, each installed as its own
// constructor/prototype pair chained under Error.prototype.
var errorKinds = []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "URIError", "InternalError"}

func buildError(w *World) {
	base := value.NewObject(w.ObjectProto)
	base.ErrorData = true
	base.Subtype = "Error"
	w.ErrorProto = base
	w.ErrorKindProtos["Error"] = base

	installErrorMethods(base)
	baseCtor := makeErrorCtor("Error", base, w)
	dataProp(base, "name", value.String("Error"), true)
	w.Globals["Error"] = value.FromObject(baseCtor)

	for _, kind := range errorKinds {
		proto := value.NewObject(base)
		proto.ErrorData = true
		proto.Subtype = kind
		dataProp(proto, "name", value.String(kind), true)
		w.ErrorKindProtos[kind] = proto
		ctor := makeErrorCtor(kind, proto, w)
		w.Globals[kind] = value.FromObject(ctor)
	}
}

func installErrorMethods(proto *value.Object) {
	method(proto, "toString", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o := this.Object()
		if o == nil {
			return value.String("Error"), nil
		}
		name := "Error"
		if v, err := value.Get(inv, o, value.String("name")); err == nil && v.Kind() == value.KindString {
			name = v.Str()
		}
		msgVal, _ := value.Get(inv, o, value.String("message"))
		msg, _ := value.ToString(inv, msgVal)
		if msg == "" {
			return value.String(name), nil
		}
		return value.String(name + ": " + msg), nil
	})
}

func makeErrorCtor(name string, proto *value.Object, w *World) *value.Object {
	ctor := native(name, 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		target := this.Object()
		if target == nil || target.Kind != value.KindObject {
			target = value.NewObject(protoFor(inv, name, proto))
			target.ErrorData = true
		}
		if len(args) > 0 && !args[0].IsUndefined() {
			msg, err := value.ToString(inv, args[0])
			if err != nil {
				return value.Undefined, err
			}
			target.DefineOwn("message", &value.Property{
				Name: value.String("message"), Kind: value.PropData, Value: value.String(msg),
				Enumerable: value.False, Writable: value.True, Configurable: value.True,
			})
		}
		target.DefineOwn("stack", &value.Property{
			Name: value.String("stack"), Kind: value.PropData, Value: value.String(name),
			Enumerable: value.False, Writable: value.True, Configurable: value.True,
		})
		return value.FromObject(target), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)
	return ctor
}

// NewError constructs a JS Error instance of the given kind name (as used
// by internal/errors.Kind's String()), for internal/vmrt to throw engine
// errors (out-of-range, reference failures, stack overflow) as ordinary JS
// exceptions (spec.md §4.5 "errors are values").
func NewError(w *World, kind, message string) *value.Object {
	proto, ok := w.ErrorKindProtos[kind]
	if !ok {
		proto = w.ErrorProto
	}
	o := value.NewObject(proto)
	o.ErrorData = true
	o.DefineOwn("message", &value.Property{
		Name: value.String("message"), Kind: value.PropData, Value: value.String(message),
		Enumerable: value.False, Writable: value.True, Configurable: value.True,
	})
	return o
}
