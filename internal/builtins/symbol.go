package builtins

import "github.com/cwbudde/go-njs/internal/value"

func buildSymbol(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindSymbolWrapper
	w.SymbolProto = proto

	method(proto, "toString", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		desc := this.Str()
		if o := this.Object(); o != nil && o.Primitive.Kind() == value.KindSymbol {
			desc = o.Primitive.Str()
		}
		return value.String("Symbol(" + desc + ")"), nil
	})

	ctor := native("Symbol", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		desc := ""
		if len(args) > 0 && !args[0].IsUndefined() {
			s, err := value.ToString(inv, args[0])
			if err != nil {
				return value.Undefined, err
			}
			desc = s
		}
		return value.Symbol(desc), nil
	})
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(ctor, "iterator", w.WellKnown.Iterator, false)
	dataProp(ctor, "toPrimitive", w.WellKnown.ToPrimitive, false)
	dataProp(ctor, "toStringTag", w.WellKnown.ToStringTag, false)

	w.Globals["Symbol"] = value.FromObject(ctor)
}
