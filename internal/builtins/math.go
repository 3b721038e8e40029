package builtins

import (
	"math"
	"math/rand"

	"github.com/cwbudde/go-njs/internal/value"
)

func buildMath(w *World) {
	m := value.NewObject(w.ObjectProto)
	m.Subtype = "Math"
	w.MathObject = m

	dataProp(m, "PI", value.Number(math.Pi), false)
	dataProp(m, "E", value.Number(math.E), false)
	dataProp(m, "LN2", value.Number(math.Ln2), false)
	dataProp(m, "LN10", value.Number(math.Log(10)), false)
	dataProp(m, "LOG2E", value.Number(1/math.Ln2), false)
	dataProp(m, "LOG10E", value.Number(1/math.Log(10)), false)
	dataProp(m, "SQRT2", value.Number(math.Sqrt2), false)
	dataProp(m, "SQRT1_2", value.Number(math.Sqrt(0.5)), false)

	unary := func(name string, fn func(float64) float64) {
		method(m, name, 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
			n, err := value.ToNumber(inv, arg(args, 0))
			if err != nil {
				return value.Undefined, err
			}
			return value.Number(fn(n)), nil
		})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sign", func(n float64) float64 {
		switch {
		case math.IsNaN(n):
			return math.NaN()
		case n > 0:
			return 1
		case n < 0:
			return -1
		default:
			return n
		}
	})
	unary("exp", math.Exp)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("round", func(n float64) float64 { return math.Floor(n + 0.5) })

	method(m, "atan2", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		y, err := value.ToNumber(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		x, err := value.ToNumber(inv, arg(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(math.Atan2(y, x)), nil
	})

	method(m, "pow", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		base, err := value.ToNumber(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		exp, err := value.ToNumber(inv, arg(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(math.Pow(base, exp)), nil
	})

	method(m, "hypot", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		sum := 0.0
		for _, a := range args {
			n, err := value.ToNumber(inv, a)
			if err != nil {
				return value.Undefined, err
			}
			sum += n * n
		}
		return value.Number(math.Sqrt(sum)), nil
	})

	method(m, "max", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		best := math.Inf(-1)
		for _, a := range args {
			n, err := value.ToNumber(inv, a)
			if err != nil {
				return value.Undefined, err
			}
			if math.IsNaN(n) {
				return value.Number(math.NaN()), nil
			}
			if n > best {
				best = n
			}
		}
		return value.Number(best), nil
	})

	method(m, "min", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		best := math.Inf(1)
		for _, a := range args {
			n, err := value.ToNumber(inv, a)
			if err != nil {
				return value.Undefined, err
			}
			if math.IsNaN(n) {
				return value.Number(math.NaN()), nil
			}
			if n < best {
				best = n
			}
		}
		return value.Number(best), nil
	})

	method(m, "random", 0, func(_ value.Invoker, _ value.Value, _ []value.Value) (value.Value, error) {
		return value.Number(rand.Float64()), nil
	})

	w.Globals["Math"] = value.FromObject(m)
}
