package builtins

import "github.com/cwbudde/go-njs/internal/value"

func buildFunction(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindFunction
	proto.Fn = &value.Function{Name: "", IsNative: true, Flavor: value.FlavorNative, Native: func(_ value.Invoker, _ value.Value, _ []value.Value) (value.Value, error) {
		return value.Undefined, nil
	}}
	w.FunctionProto = proto
	currentFuncProto = proto

	method(proto, "call", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		fn := this.Object()
		if fn == nil || fn.Fn == nil {
			return value.Undefined, typeError("value is not a function")
		}
		var callThis value.Value
		var rest []value.Value
		if len(args) > 0 {
			callThis, rest = args[0], args[1:]
		}
		return inv.Call(fn, callThis, rest)
	})

	method(proto, "apply", 2, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		fn := this.Object()
		if fn == nil || fn.Fn == nil {
			return value.Undefined, typeError("value is not a function")
		}
		var callThis value.Value
		var rest []value.Value
		if len(args) > 0 {
			callThis = args[0]
		}
		if len(args) > 1 && args[1].Object() != nil {
			arr := args[1].Object()
			rest = append(rest, arr.Elements...)
		}
		return inv.Call(fn, callThis, rest)
	})

	method(proto, "bind", 1, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		target := this.Object()
		if target == nil || target.Fn == nil {
			return value.Undefined, typeError("value is not a function")
		}
		var boundThis value.Value
		var boundArgs []value.Value
		if len(args) > 0 {
			boundThis, boundArgs = args[0], args[1:]
		}
		bound := value.NewObject(w.FunctionProto)
		bound.Kind = value.KindFunction
		bound.Fn = &value.Function{
			Name:        "bound " + target.Fn.Name,
			Arity:       target.Fn.Arity - len(boundArgs),
			Flavor:      value.FlavorBound,
			BoundTarget: target,
			BoundThis:   boundThis,
			BoundArgs:   boundArgs,
		}
		return value.FromObject(bound), nil
	})

	method(proto, "toString", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		name := "anonymous"
		if o := this.Object(); o != nil && o.Fn != nil {
			name = o.Fn.Name
		}
		return value.String("function " + name + "() { [native code] }"), nil
	})
}
