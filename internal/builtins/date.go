package builtins

import (
	"time"

	"github.com/cwbudde/go-njs/internal/value"
)

func thisDate(this value.Value) (*value.Object, error) {
	o := this.Object()
	if o == nil || o.Kind != value.KindDate {
		return nil, typeError("this is not a Date")
	}
	return o, nil
}

func buildDate(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindDate
	proto.Primitive = value.Number(0)
	w.DateProto = proto

	msOf := func(o *value.Object) time.Time {
		ms := o.Primitive.Num()
		return time.UnixMilli(int64(ms)).UTC()
	}

	method(proto, "getTime", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return o.Primitive, nil
	})
	method(proto, "valueOf", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return o.Primitive, nil
	})
	method(proto, "getFullYear", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(msOf(o).Year())), nil
	})
	method(proto, "getMonth", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(int(msOf(o).Month()) - 1)), nil
	})
	method(proto, "getDate", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(msOf(o).Day())), nil
	})
	method(proto, "getHours", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(msOf(o).Hour())), nil
	})
	method(proto, "getMinutes", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(msOf(o).Minute())), nil
	})
	method(proto, "getSeconds", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(msOf(o).Second())), nil
	})
	method(proto, "getDay", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(int(msOf(o).Weekday()))), nil
	})
	method(proto, "toISOString", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(msOf(o).Format("2006-01-02T15:04:05.000Z")), nil
	})
	method(proto, "toString", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisDate(this)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(msOf(o).Format(time.RFC1123)), nil
	})

	ctor := native("Date", 0, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		var ms float64
		switch {
		case len(args) == 0:
			ms = float64(time.Now().UnixMilli())
		case len(args) == 1 && args[0].Kind() == value.KindNumber:
			ms = args[0].Num()
		case len(args) == 1 && args[0].Kind() == value.KindString:
			if t, err := time.Parse(time.RFC3339, args[0].Str()); err == nil {
				ms = float64(t.UnixMilli())
			}
		default:
			y := int(arg(args, 0).Num())
			mo := int(arg(args, 1).Num())
			d := 1
			if len(args) > 2 {
				d = int(args[2].Num())
			}
			t := time.Date(y, time.Month(mo+1), d, 0, 0, 0, 0, time.UTC)
			ms = float64(t.UnixMilli())
		}
		o := value.NewObject(w.DateProto)
		o.Kind = value.KindDate
		o.Primitive = value.Number(ms)
		return value.FromObject(o), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	method(ctor, "now", 0, func(_ value.Invoker, _ value.Value, _ []value.Value) (value.Value, error) {
		return value.Number(float64(time.Now().UnixMilli())), nil
	})

	w.Globals["Date"] = value.FromObject(ctor)
}
