package builtins

import "github.com/cwbudde/go-njs/internal/value"

func buildArrayBuffer(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindArrayBuffer
	w.ArrayBufferProto = proto

	accessor(proto, "byteLength", native("get byteLength", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o := this.Object()
		if o == nil {
			return value.Number(0), nil
		}
		buf, _ := o.Primitive.DataPtr().([]byte)
		return value.Number(float64(len(buf))), nil
	}), nil)

	method(proto, "slice", 2, func(_ value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o := this.Object()
		if o == nil {
			return value.Undefined, typeError("this is not an ArrayBuffer")
		}
		buf, _ := o.Primitive.DataPtr().([]byte)
		n := len(buf)
		start := normIndex(arg(args, 0), n, 0)
		end := normIndex(arg(args, 1), n, n)
		if start > end {
			start = end
		}
		out := append([]byte(nil), buf[start:end]...)
		clone := value.NewObject(w.ArrayBufferProto)
		clone.Kind = value.KindArrayBuffer
		clone.Primitive = value.Data(out)
		return value.FromObject(clone), nil
	})

	ctor := native("ArrayBuffer", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		n := int(arg(args, 0).Num())
		if n < 0 {
			return value.Undefined, rangeError("Invalid array buffer length")
		}
		o := value.NewObject(w.ArrayBufferProto)
		o.Kind = value.KindArrayBuffer
		o.Primitive = value.Data(make([]byte, n))
		return value.FromObject(o), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	w.Globals["ArrayBuffer"] = value.FromObject(ctor)
}
