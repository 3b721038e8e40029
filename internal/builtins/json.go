package builtins

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/cwbudde/go-njs/internal/value"
)

// buildJSON wires JSON.parse to tidwall/gjson's tree decoder (rather than a
// hand-rolled recursive-descent parser) and JSON.stringify's pretty-printed
// form to tidwall/pretty, both real production-grade JSON libraries instead
// of a bespoke implementation (SPEC_FULL.md DOMAIN STACK).
func buildJSON(w *World) {
	j := value.NewObject(w.ObjectProto)
	j.Subtype = "JSON"
	w.JSONObject = j

	method(j, "parse", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		if !gjson.Valid(s) {
			return value.Undefined, typeError("Unexpected token in JSON at position 0")
		}
		result := gjson.Parse(s)
		v := gjsonToValue(w, result)
		if cb := arg(args, 1).Object(); cb != nil && cb.Fn != nil {
			return reviveJSON(inv, cb, value.NewObject(w.ObjectProto), "", v)
		}
		return v, nil
	})

	method(j, "stringify", 3, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		indent := jsonIndent(arg(args, 2))
		var b strings.Builder
		ok, err := stringifyValue(inv, &b, arg(args, 0), map[*value.Object]bool{})
		if err != nil {
			return value.Undefined, err
		}
		if !ok {
			return value.Undefined, nil
		}
		out := b.String()
		if indent != "" {
			out = string(pretty.PrettyOptions([]byte(out), &pretty.Options{Indent: indent, SortKeys: false}))
			out = strings.TrimRight(out, "\n")
		}
		return value.String(out), nil
	})

	w.Globals["JSON"] = value.FromObject(j)
}

func jsonIndent(v value.Value) string {
	switch v.Kind() {
	case value.KindNumber:
		n := int(v.Num())
		if n <= 0 {
			return ""
		}
		if n > 10 {
			n = 10
		}
		return strings.Repeat(" ", n)
	case value.KindString:
		return v.Str()
	default:
		return ""
	}
}

func gjsonToValue(w *World, r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null
	case gjson.False:
		return value.Bool(false)
	case gjson.True:
		return value.Bool(true)
	case gjson.Number:
		return value.Number(r.Num)
	case gjson.String:
		return value.String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []value.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(w, v))
				return true
			})
			return value.FromObject(value.NewArray(w.ArrayProto, elems))
		}
		o := value.NewObject(w.ObjectProto)
		r.ForEach(func(k, v gjson.Result) bool {
			o.DefineOwn(k.Str, &value.Property{
				Name: value.String(k.Str), Kind: value.PropData, Value: gjsonToValue(w, v),
				Enumerable: value.True, Writable: value.True, Configurable: value.True,
			})
			return true
		})
		return value.FromObject(o)
	default:
		return value.Undefined
	}
}

func reviveJSON(inv value.Invoker, reviver *value.Object, holder *value.Object, key string, v value.Value) (value.Value, error) {
	if o := v.Object(); o != nil {
		if o.Kind == value.KindArray {
			for i := range o.Elements {
				nv, err := reviveJSON(inv, reviver, o, strconv.Itoa(i), o.Elements[i])
				if err != nil {
					return value.Undefined, err
				}
				o.Elements[i] = nv
			}
		} else {
			for _, k := range o.OwnKeys(true) {
				child, _ := value.Get(inv, o, value.String(k))
				nv, err := reviveJSON(inv, reviver, o, k, child)
				if err != nil {
					return value.Undefined, err
				}
				if nv.IsUndefined() {
					o.DeleteOwn(k)
					continue
				}
				_ = value.Set(inv, o, value.String(k), nv)
			}
		}
	}
	return inv.Call(reviver, value.FromObject(holder), []value.Value{value.String(key), v})
}

func stringifyValue(inv value.Invoker, b *strings.Builder, v value.Value, seen map[*value.Object]bool) (bool, error) {
	if o := v.Object(); o != nil {
		if toJSON, err := value.Get(inv, o, value.String("toJSON")); err == nil && toJSON.Kind() == value.KindFunction && toJSON.Object() != nil {
			r, err := inv.Call(toJSON.Object(), v, nil)
			if err != nil {
				return false, err
			}
			return stringifyValue(inv, b, r, seen)
		}
	}
	switch v.Kind() {
	case value.KindUndefined:
		return false, nil
	case value.KindNull:
		b.WriteString("null")
		return true, nil
	case value.KindBoolean:
		if v.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
		return true, nil
	case value.KindNumber:
		n := v.Num()
		if n != n || n > 1.7976931348623157e+308 || n < -1.7976931348623157e+308 {
			b.WriteString("null")
			return true, nil
		}
		b.WriteString(value.FormatNumber(n))
		return true, nil
	case value.KindString:
		writeJSONString(b, v.Str())
		return true, nil
	case value.KindFunction, value.KindSymbol:
		return false, nil
	}
	o := v.Object()
	if o == nil {
		return false, nil
	}
	if seen[o] {
		return false, typeError("Converting circular structure to JSON")
	}
	seen[o] = true
	defer delete(seen, o)

	if o.Kind == value.KindArray {
		b.WriteByte('[')
		for i, e := range o.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			ok, err := stringifyValue(inv, b, e, seen)
			if err != nil {
				return false, err
			}
			if !ok {
				b.WriteString("null")
			}
		}
		b.WriteByte(']')
		return true, nil
	}

	b.WriteByte('{')
	first := true
	for _, k := range o.OwnKeys(true) {
		fv, err := value.Get(inv, o, value.String(k))
		if err != nil {
			return false, err
		}
		var sub strings.Builder
		ok, err := stringifyValue(inv, &sub, fv, seen)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeJSONString(b, k)
		b.WriteByte(':')
		b.WriteString(sub.String())
	}
	b.WriteByte('}')
	return true, nil
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(strconv.QuoteRune(r))
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
