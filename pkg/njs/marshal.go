package njs

import (
	"fmt"
	"reflect"

	"github.com/cwbudde/go-njs/internal/value"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterFunction exposes a Go function as a global JS function, the
// same call shape the teacher's examples/ffi/main.go demonstrates
// (`engine.RegisterFunction("AddNumbers", func(a, b int64) int64 {...})`).
// Arguments are marshaled JS→Go by position; a function may return
// (T, error) or a bare T, mirroring the teacher's
// internal/interp/marshal.go MarshalToGo / marshalValueToGo conventions
// adapted to reflect.Value plumbing instead of the teacher's switch over
// its own tagged Value.Type().
func (e *Engine) RegisterFunction(name string, fn any) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return fmt.Errorf("njs: RegisterFunction(%q): not a function", name)
	}
	ft := fv.Type()

	native := func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		in, err := marshalArgsToGo(inv, ft, args)
		if err != nil {
			return value.Undefined, fmt.Errorf("TypeError: %s: %w", name, err)
		}
		out := fv.Call(in)
		return marshalResultsToJS(out)
	}

	obj := value.NewObject(e.vm.Proto("Function"))
	obj.Kind = value.KindFunction
	obj.Fn = &value.Function{Name: name, Arity: ft.NumIn(), IsNative: true, Flavor: value.FlavorNative, Native: native}

	return e.Bind(name, value.FromObject(obj), false)
}

// marshalArgsToGo converts JS args to Go reflect.Values positionally,
// zero-filling missing trailing arguments the way a JS call with too few
// arguments binds `undefined` to the rest (spec.md §4.3).
func marshalArgsToGo(inv value.Invoker, ft reflect.Type, args []value.Value) ([]reflect.Value, error) {
	variadic := ft.IsVariadic()
	n := ft.NumIn()
	fixed := n
	if variadic {
		fixed = n - 1
	}

	in := make([]reflect.Value, 0, len(args))
	for i := 0; i < fixed; i++ {
		var jv value.Value
		if i < len(args) {
			jv = args[i]
		} else {
			jv = value.Undefined
		}
		gv, err := valueToGo(inv, jv, ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in = append(in, gv)
	}
	if variadic {
		elemType := ft.In(n - 1).Elem()
		for i := fixed; i < len(args); i++ {
			gv, err := valueToGo(inv, args[i], elemType)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			in = append(in, gv)
		}
	}
	return in, nil
}

// marshalResultsToJS converts a Go call's return values to a single JS
// Value, honouring the teacher's (T, error) convention
// (examples/ffi/main.go's SafeDivide) and returning a bare T otherwise.
func marshalResultsToJS(out []reflect.Value) (value.Value, error) {
	if len(out) == 0 {
		return value.Undefined, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errType) {
		if !last.IsNil() {
			return value.Undefined, last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return value.Undefined, nil
	}
	return goToValue(out[0])
}

func valueToGo(inv value.Invoker, v value.Value, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		n, err := value.ToNumber(inv, v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(int64(n)).Convert(t), nil
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		n, err := value.ToNumber(inv, v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(uint64(n)).Convert(t), nil
	case reflect.Float64, reflect.Float32:
		n, err := value.ToNumber(inv, v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.String:
		s, err := value.ToString(inv, v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Bool:
		return reflect.ValueOf(value.ToBoolean(v)), nil
	case reflect.Slice:
		o := v.Object()
		if o == nil || !o.IsArray {
			return reflect.Value{}, fmt.Errorf("expected array, got %s", value.TypeOf(v))
		}
		out := reflect.MakeSlice(t, len(o.Elements), len(o.Elements))
		for i, e := range o.Elements {
			gv, err := valueToGo(inv, e, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(gv)
		}
		return out, nil
	case reflect.Func:
		return makeCallbackFunc(inv, v, t)
	case reflect.Interface:
		gv, err := goAnyFromValue(inv, v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(gv), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", t)
	}
}

// makeCallbackFunc lets a registered Go function accept a JS function
// value as a Go func(...) T parameter, calling back into the engine the
// way the teacher's callDWScriptFunction re-enters the interpreter
// (internal/interp/ffi_callback.go's "ForEach(items, callback)" example).
func makeCallbackFunc(inv value.Invoker, v value.Value, t reflect.Type) (reflect.Value, error) {
	if v.Kind() != value.KindFunction || v.Object() == nil {
		return reflect.Value{}, fmt.Errorf("expected function, got %s", value.TypeOf(v))
	}
	fnObj := v.Object()
	shim := reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
		jsArgs := make([]value.Value, len(args))
		for i, a := range args {
			jv, err := goToValue(a)
			if err != nil {
				jv = value.Undefined
			}
			jsArgs[i] = jv
		}
		result, err := inv.Call(fnObj, value.Undefined, jsArgs)
		return callbackResults(inv, t, result, err)
	})
	return shim, nil
}

func callbackResults(inv value.Invoker, t reflect.Type, result value.Value, err error) []reflect.Value {
	numOut := t.NumOut()
	out := make([]reflect.Value, numOut)
	for i := 0; i < numOut; i++ {
		ot := t.Out(i)
		if ot.Implements(errType) {
			if err != nil {
				out[i] = reflect.ValueOf(err)
			} else {
				out[i] = reflect.Zero(ot)
			}
			continue
		}
		if err != nil {
			out[i] = reflect.Zero(ot)
			continue
		}
		gv, convErr := valueToGo(inv, result, ot)
		if convErr != nil {
			out[i] = reflect.Zero(ot)
			continue
		}
		out[i] = gv
	}
	return out
}

// goToValue converts a reflect.Value returned from Go code into a JS
// Value (the inverse of valueToGo), matching the teacher's
// marshalValueToGo's type-directed dispatch.
func goToValue(rv reflect.Value) (value.Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return value.Number(rv.Float()), nil
	case reflect.String:
		return value.String(rv.String()), nil
	case reflect.Bool:
		return value.Bool(rv.Bool()), nil
	case reflect.Slice, reflect.Array:
		elems := make([]value.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := goToValue(rv.Index(i))
			if err != nil {
				return value.Undefined, err
			}
			elems[i] = ev
		}
		return value.FromObject(value.NewArray(nil, elems)), nil
	case reflect.Invalid:
		return value.Undefined, nil
	default:
		return value.Undefined, fmt.Errorf("unsupported return type %s", rv.Type())
	}
}

func goAnyFromValue(inv value.Invoker, v value.Value) (any, error) {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return nil, nil
	case value.KindBoolean:
		return v.Bool(), nil
	case value.KindNumber:
		return v.Num(), nil
	case value.KindString:
		return v.Str(), nil
	default:
		return value.ToString(inv, v)
	}
}
