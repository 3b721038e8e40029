package builtins

import "github.com/cwbudde/go-njs/internal/value"

func buildBoolean(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindBooleanWrapper
	proto.Primitive = value.Bool(false)
	w.BooleanProto = proto

	method(proto, "toString", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		b := this.Truthy()
		if o := this.Object(); o != nil && o.Kind == value.KindBooleanWrapper {
			b = o.Primitive.Bool()
		}
		if b {
			return value.String("true"), nil
		}
		return value.String("false"), nil
	})
	method(proto, "valueOf", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		if o := this.Object(); o != nil && o.Kind == value.KindBooleanWrapper {
			return o.Primitive, nil
		}
		return value.Bool(this.Truthy()), nil
	})

	ctor := native("Boolean", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		return value.Bool(arg(args, 0).Truthy()), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	w.Globals["Boolean"] = value.FromObject(ctor)
}
