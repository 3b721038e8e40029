package builtins

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cwbudde/go-njs/internal/value"
)

func thisString(inv value.Invoker, this value.Value) (string, error) {
	if this.Kind() == value.KindString {
		return this.Str(), nil
	}
	if o := this.Object(); o != nil && o.Kind == value.KindStringWrapper {
		return o.Primitive.Str(), nil
	}
	return value.ToString(inv, this)
}

// utf16Len counts UTF-16 code units, the length unit spec.md §4.6 assigns
// to JS strings (Go strings are UTF-8; indices must be translated).
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.Encode([]rune{r}))
	}
	return n
}

func buildString(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindStringWrapper
	proto.Primitive = value.String("")
	w.StringProto = proto

	method(proto, "charAt", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		r := []rune(s)
		i := int(arg(args, 0).Num())
		if i < 0 || i >= len(r) {
			return value.String(""), nil
		}
		return value.String(string(r[i])), nil
	})

	method(proto, "charCodeAt", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		units := utf16.Encode([]rune(s))
		i := int(arg(args, 0).Num())
		if i < 0 || i >= len(units) {
			return value.Number(nan()), nil
		}
		return value.Number(float64(units[i])), nil
	})

	method(proto, "indexOf", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		sub, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(strings.Index(s, sub))), nil
	})

	method(proto, "lastIndexOf", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		sub, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(strings.LastIndex(s, sub))), nil
	})

	method(proto, "includes", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		sub, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Bool(strings.Contains(s, sub)), nil
	})

	method(proto, "startsWith", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		sub, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Bool(strings.HasPrefix(s, sub)), nil
	})

	method(proto, "endsWith", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		sub, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		return value.Bool(strings.HasSuffix(s, sub)), nil
	})

	method(proto, "slice", 2, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		r := []rune(s)
		n := len(r)
		start := normIndex(arg(args, 0), n, 0)
		end := normIndex(arg(args, 1), n, n)
		if start > end {
			start = end
		}
		return value.String(string(r[start:end])), nil
	})

	method(proto, "substring", 2, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		r := []rune(s)
		n := len(r)
		start := clampIndex(arg(args, 0), n, 0)
		end := clampIndex(arg(args, 1), n, n)
		if start > end {
			start, end = end, start
		}
		return value.String(string(r[start:end])), nil
	})

	method(proto, "split", 2, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		if arg(args, 0).IsUndefined() {
			return value.FromObject(value.NewArray(w.ArrayProto, []value.Value{value.String(s)})), nil
		}
		sep, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = value.String(p)
		}
		return value.FromObject(value.NewArray(protoFor(inv, "Array", w.ArrayProto), elems)), nil
	})

	method(proto, "replace", 2, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		search, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		if cb := arg(args, 1).Object(); cb != nil && cb.Fn != nil {
			idx := strings.Index(s, search)
			if idx < 0 {
				return value.String(s), nil
			}
			r, err := inv.Call(cb, value.Undefined, []value.Value{value.String(search), value.Number(float64(idx)), value.String(s)})
			if err != nil {
				return value.Undefined, err
			}
			repl, err := value.ToString(inv, r)
			if err != nil {
				return value.Undefined, err
			}
			return value.String(s[:idx] + repl + s[idx+len(search):]), nil
		}
		repl, err := value.ToString(inv, arg(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		return value.String(strings.Replace(s, search, repl, 1)), nil
	})

	method(proto, "replaceAll", 2, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		search, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		repl, err := value.ToString(inv, arg(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		return value.String(strings.ReplaceAll(s, search, repl)), nil
	})

	method(proto, "trim", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(strings.TrimSpace(s)), nil
	})

	method(proto, "repeat", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		n := int(arg(args, 0).Num())
		if n < 0 {
			return value.Undefined, rangeError("Invalid count value")
		}
		return value.String(strings.Repeat(s, n)), nil
	})

	method(proto, "concat", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			as, err := value.ToString(inv, a)
			if err != nil {
				return value.Undefined, err
			}
			b.WriteString(as)
		}
		return value.String(b.String()), nil
	})

	// toUpperCase/toLowerCase use golang.org/x/text/cases rather than
	// strings.ToUpper/ToLower so Unicode special-casing (e.g. German ß,
	// Turkish dotless i) matches ECMA-402's locale-independent mapping
	// tables instead of Go's simple per-rune case fold.
	method(proto, "toUpperCase", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(cases.Upper(language.Und).String(s)), nil
	})
	method(proto, "toLowerCase", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(cases.Lower(language.Und).String(s)), nil
	})

	// localeCompare uses golang.org/x/text/collate for a real Unicode
	// collation order instead of a byte-wise strings.Compare.
	method(proto, "localeCompare", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		other, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		col := collate.New(language.Und)
		return value.Number(float64(col.CompareString(s, other))), nil
	})

	method(proto, "toString", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(s), nil
	})
	method(proto, "valueOf", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(s), nil
	})

	accessor(proto, "length", native("get length", 0, func(inv value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(utf16Len(s))), nil
	}), nil)

	ctor := native("String", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.String(""), nil
		}
		s, err := value.ToString(inv, args[0])
		if err != nil {
			return value.Undefined, err
		}
		return value.String(s), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	method(ctor, "fromCharCode", 1, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		units := make([]uint16, len(args))
		for i, a := range args {
			units[i] = uint16(a.Num())
		}
		return value.String(string(utf16.Decode(units))), nil
	})

	w.Globals["String"] = value.FromObject(ctor)
}

func clampIndex(v value.Value, n, def int) int {
	if v.IsUndefined() {
		return def
	}
	i := int(v.Num())
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}
