package builtins

import (
	"regexp"
	"strings"

	"github.com/cwbudde/go-njs/internal/value"
)

// regexpFlags is the parsed form of a JS regex literal's flag string.
type regexpFlags struct {
	global     bool
	ignoreCase bool
	multiline  bool
	dotAll     bool
}

func parseRegexpFlags(flags string) regexpFlags {
	var f regexpFlags
	for _, r := range flags {
		switch r {
		case 'g':
			f.global = true
		case 'i':
			f.ignoreCase = true
		case 'm':
			f.multiline = true
		case 's':
			f.dotAll = true
		}
	}
	return f
}

// compileGoRegexp translates a JS regex source into Go's RE2 syntax well
// enough for the fixed-feature subset spec.md §9 accepts: inline flag
// groups for case/multiline/dotall, and the pattern passed through as-is
// otherwise. PCRE-only constructs (backreferences, lookaround) are outside
// RE2's capability and are not supported, the explicit backend tradeoff
// spec.md §9's open question invites ("accept that these tests may require
// a minimum backend capability rather than porting the C-level
// capability").
func compileGoRegexp(source string, f regexpFlags) (*regexp.Regexp, error) {
	var prefix strings.Builder
	prefix.WriteByte('(')
	prefix.WriteByte('?')
	if f.ignoreCase {
		prefix.WriteByte('i')
	}
	if f.multiline {
		prefix.WriteByte('m')
	}
	if f.dotAll {
		prefix.WriteByte('s')
	}
	prefix.WriteByte(')')
	pattern := source
	if prefix.Len() > 2 {
		pattern = prefix.String() + source
	}
	return regexp.Compile(pattern)
}

func thisRegexp(this value.Value) (*value.Object, error) {
	o := this.Object()
	if o == nil || o.Kind != value.KindRegExp {
		return nil, typeError("this is not a RegExp")
	}
	return o, nil
}

// buildRegExp constructs RegExp.prototype and the RegExp constructor
// (spec.md §6.3's language surface includes regex literals; the runtime
// object this builds is the piece the RegexpLiteral codegen path compiles
// `new RegExp(pattern, flags)` against). No third-party regex engine in
// the example pack has an actual call site to ground an implementation
// on — github.com/dlclark/regexp2 appears only as an unused transitive
// dependency of an unrelated example repo's TUI/markdown stack, with
// nothing to imitate — so this is carried on the standard library's RE2
// engine, the explicit backend choice spec.md §9 invites (DESIGN.md).
func buildRegExp(w *World) {
	proto := value.NewObject(w.ObjectProto)
	proto.Kind = value.KindRegExp
	w.RegExpProto = proto

	method(proto, "test", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisRegexp(this)
		if err != nil {
			return value.Undefined, err
		}
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		re := o.Regexp
		if re == nil {
			return value.Bool(false), nil
		}
		return value.Bool(re.MatchString(s)), nil
	})

	method(proto, "exec", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		o, err := thisRegexp(this)
		if err != nil {
			return value.Undefined, err
		}
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		re := o.Regexp
		if re == nil {
			return value.Null, nil
		}
		start := 0
		flags := regexpFlagsOf(o)
		if flags.global {
			if li, ok := o.OwnProperty("lastIndex"); ok {
				start = int(li.Value.Num())
			}
			if start > len(s) {
				dataProp(o, "lastIndex", value.Number(0), true)
				return value.Null, nil
			}
		}
		loc := re.FindStringSubmatchIndex(s[start:])
		if loc == nil {
			if flags.global {
				dataProp(o, "lastIndex", value.Number(0), true)
			}
			return value.Null, nil
		}
		groups := loc[1]/2 + 1
		elems := make([]value.Value, 0, groups)
		for i := 0; i+1 < len(loc); i += 2 {
			if loc[i] < 0 {
				elems = append(elems, value.Undefined)
				continue
			}
			elems = append(elems, value.String(s[start+loc[i]:start+loc[i+1]]))
		}
		arr := value.NewArray(protoFor(inv, "Array", w.ArrayProto), elems)
		arr.DefineOwn("index", &value.Property{
			Name: value.String("index"), Kind: value.PropData, Value: value.Number(float64(start + loc[0])),
			Enumerable: value.True, Writable: value.True, Configurable: value.True,
		})
		arr.DefineOwn("input", &value.Property{
			Name: value.String("input"), Kind: value.PropData, Value: value.String(s),
			Enumerable: value.True, Writable: value.True, Configurable: value.True,
		})
		if flags.global {
			dataProp(o, "lastIndex", value.Number(float64(start+loc[1])), true)
		}
		return value.FromObject(arr), nil
	})

	method(proto, "toString", 0, func(_ value.Invoker, this value.Value, _ []value.Value) (value.Value, error) {
		o, err := thisRegexp(this)
		if err != nil {
			return value.Undefined, err
		}
		src, _ := o.OwnProperty("source")
		fl, _ := o.OwnProperty("flags")
		return value.String("/" + src.Value.Str() + "/" + fl.Value.Str()), nil
	})

	ctor := native("RegExp", 2, func(_ value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		source := arg(args, 0).Str()
		flagStr := arg(args, 1).Str()
		f := parseRegexpFlags(flagStr)
		re, err := compileGoRegexp(source, f)
		if err != nil {
			return value.Undefined, typeError("invalid regular expression: %v", err)
		}
		o := value.NewObject(w.RegExpProto)
		o.Kind = value.KindRegExp
		o.Regexp = re
		dataProp(o, "source", value.String(source), false)
		dataProp(o, "flags", value.String(flagStr), false)
		dataProp(o, "global", value.Bool(f.global), false)
		dataProp(o, "ignoreCase", value.Bool(f.ignoreCase), false)
		dataProp(o, "multiline", value.Bool(f.multiline), false)
		dataProp(o, "lastIndex", value.Number(0), true)
		return value.FromObject(o), nil
	})
	ctor.Fn.IsCtor = true
	dataProp(ctor, "prototype", value.FromObject(proto), false)
	dataProp(proto, "constructor", value.FromObject(ctor), true)

	w.Globals["RegExp"] = value.FromObject(ctor)
}

func regexpFlagsOf(o *value.Object) regexpFlags {
	var f regexpFlags
	if p, ok := o.OwnProperty("global"); ok {
		f.global = value.ToBoolean(p.Value)
	}
	if p, ok := o.OwnProperty("ignoreCase"); ok {
		f.ignoreCase = value.ToBoolean(p.Value)
	}
	if p, ok := o.OwnProperty("multiline"); ok {
		f.multiline = value.ToBoolean(p.Value)
	}
	return f
}
