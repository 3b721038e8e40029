package builtins

import (
	"math"
	"strconv"

	"github.com/cwbudde/go-njs/internal/value"
)

func thisNumber(inv value.Invoker, this value.Value) (float64, error) {
	if this.Kind() == value.KindNumber {
		return this.Num(), nil
	}
	if o := this.Object(); o != nil && o.Kind == value.KindNumberWrapper {
		return o.Primitive.Num(), nil
	}
	return value.ToNumber(inv, this)
}

func buildNumber(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindNumberWrapper
	proto.Primitive = value.Number(0)
	w.NumberProto = proto

	method(proto, "toString", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		n, err := thisNumber(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		radix := 10
		if len(args) > 0 && !args[0].IsUndefined() {
			radix = int(args[0].Num())
		}
		if radix == 10 {
			return value.String(value.FormatNumber(n)), nil
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return value.String(value.FormatNumber(n)), nil
		}
		return value.String(strconv.FormatInt(int64(n), radix)), nil
	})

	method(proto, "valueOf", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		n, err := thisNumber(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(n), nil
	})

	method(proto, "toFixed", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		n, err := thisNumber(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		digits := int(arg(args, 0).Num())
		return value.String(strconv.FormatFloat(n, 'f', digits, 64)), nil
	})

	method(proto, "toPrecision", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		n, err := thisNumber(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		if arg(args, 0).IsUndefined() {
			return value.String(value.FormatNumber(n)), nil
		}
		prec := int(args[0].Num())
		return value.String(strconv.FormatFloat(n, 'g', prec, 64)), nil
	})

	ctor := native("Number", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Number(0), nil
		}
		n, err := value.ToNumber(inv, args[0])
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(n), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	dataProp(ctor, "MAX_SAFE_INTEGER", value.Number(9007199254740991), false)
	dataProp(ctor, "MIN_SAFE_INTEGER", value.Number(-9007199254740991), false)
	dataProp(ctor, "MAX_VALUE", value.Number(math.MaxFloat64), false)
	dataProp(ctor, "MIN_VALUE", value.Number(math.SmallestNonzeroFloat64), false)
	dataProp(ctor, "EPSILON", value.Number(2.220446049250313e-16), false)
	dataProp(ctor, "POSITIVE_INFINITY", value.Number(math.Inf(1)), false)
	dataProp(ctor, "NEGATIVE_INFINITY", value.Number(math.Inf(-1)), false)
	dataProp(ctor, "NaN", value.Number(math.NaN()), false)

	method(ctor, "isInteger", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		if v.Kind() != value.KindNumber {
			return value.Bool(false), nil
		}
		n := v.Num()
		return value.Bool(!math.IsNaN(n) && !math.IsInf(n, 0) && n == math.Trunc(n)), nil
	})

	method(ctor, "isFinite", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		return value.Bool(v.Kind() == value.KindNumber && !math.IsNaN(v.Num()) && !math.IsInf(v.Num(), 0)), nil
	})

	method(ctor, "isNaN", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		v := arg(args, 0)
		return value.Bool(v.Kind() == value.KindNumber && math.IsNaN(v.Num())), nil
	})

	method(ctor, "parseFloat", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(parseFloatPrefix(s)), nil
	})

	method(ctor, "parseInt", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		radix := 10
		if len(args) > 1 && !args[1].IsUndefined() {
			radix = int(args[1].Num())
		}
		return value.Number(parseIntPrefix(s, radix)), nil
	})

	w.Globals["Number"] = value.FromObject(ctor)
	w.Globals["parseInt"] = value.FromObject(native("parseInt", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		radix := 0
		if len(args) > 1 && !args[1].IsUndefined() {
			radix = int(args[1].Num())
		}
		return value.Number(parseIntPrefix(s, radix)), nil
	}))
	w.Globals["parseFloat"] = value.FromObject(native("parseFloat", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(parseFloatPrefix(s)), nil
	}))
	w.Globals["isNaN"] = value.FromObject(native("isNaN", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		n, err := value.ToNumber(inv, arg(args, 0))
		if err != nil {
			return value.Bool(true), nil
		}
		return value.Bool(math.IsNaN(n)), nil
	}))
	w.Globals["isFinite"] = value.FromObject(native("isFinite", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		n, err := value.ToNumber(inv, arg(args, 0))
		if err != nil {
			return value.Bool(false), nil
		}
		return value.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))
}

func parseFloatPrefix(s string) float64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	j := i
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	start := j
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
	}
	if j == start {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s[i:j], 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

func parseIntPrefix(s string, radix int) float64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	if (radix == 16 || radix == 0) && i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		i += 2
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}
	start := i
	for i < len(s) {
		c := s[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'z':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			d = int(c-'A') + 10
		default:
			d = 99
		}
		if d >= radix {
			break
		}
		i++
	}
	if i == start {
		return math.NaN()
	}
	n, err := strconv.ParseInt(s[start:i], radix, 64)
	if err != nil {
		return math.NaN()
	}
	if neg {
		return -float64(n)
	}
	return float64(n)
}
