package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hint selects which order ToPrimitive tries valueOf/toString in
// (spec.md §4.4).
type Hint uint8

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

// ToPrimitive coerces v to a primitive, consulting Symbol.toPrimitive-style
// method lookup by name ("valueOf"/"toString") in the hint order spec.md
// §4.4 requires for arithmetic and comparison coercions.
func ToPrimitive(inv Invoker, v Value, hint Hint) (Value, error) {
	if !v.IsObject() {
		return v, nil
	}
	order := []string{"valueOf", "toString"}
	if hint == HintString {
		order = []string{"toString", "valueOf"}
	}
	obj := v.Object()
	for _, name := range order {
		fnVal, err := Get(inv, obj, String(name))
		if err != nil {
			return Undefined, err
		}
		if fnVal.Kind() != KindFunction || fnVal.Object() == nil {
			continue
		}
		res, err := inv.Call(fnVal.Object(), v, nil)
		if err != nil {
			return Undefined, err
		}
		if !res.IsObject() {
			return res, nil
		}
	}
	return Undefined, fmt.Errorf("TypeError: Cannot convert object to primitive value")
}

// ToNumber implements spec.md §4.4's arithmetic coercion ladder, including
// the symbol-opacity TypeError (spec.md §8 "Symbol opacity").
func ToNumber(inv Invoker, v Value) (float64, error) {
	switch v.Kind() {
	case KindNumber:
		return v.Num(), nil
	case KindBoolean:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case KindNull:
		return 0, nil
	case KindUndefined:
		return math.NaN(), nil
	case KindString:
		return parseNumericString(v.Str()), nil
	case KindSymbol:
		return 0, fmt.Errorf("TypeError: Cannot convert a Symbol value to a number")
	default:
		p, err := ToPrimitive(inv, v, HintNumber)
		if err != nil {
			return 0, err
		}
		if p.IsObject() {
			return 0, fmt.Errorf("TypeError: Cannot convert object to a number")
		}
		return ToNumber(inv, p)
	}
}

func parseNumericString(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if n, err := strconv.ParseFloat(t, 64); err == nil {
		return n
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		if n, err := strconv.ParseUint(t[2:], 16, 64); err == nil {
			return float64(n)
		}
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	return math.NaN()
}

// ToString implements spec.md §4.4/§8's string coercion, throwing on a
// symbol operand the same way ToNumber does.
func ToString(inv Invoker, v Value) (string, error) {
	switch v.Kind() {
	case KindString:
		return v.Str(), nil
	case KindNumber:
		return FormatNumber(v.Num()), nil
	case KindBoolean:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case KindNull:
		return "null", nil
	case KindUndefined:
		return "undefined", nil
	case KindSymbol:
		return "", fmt.Errorf("TypeError: Cannot convert a Symbol value to a string")
	default:
		p, err := ToPrimitive(inv, v, HintString)
		if err != nil {
			return "", err
		}
		if p.IsObject() {
			return "", fmt.Errorf("TypeError: Cannot convert object to a string")
		}
		return ToString(inv, p)
	}
}

// FormatNumber renders a float64 the way Number.prototype.toString does
// for radix 10 (spec.md §8 "ToString round-trip").
func FormatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == 0 {
		return "0"
	}
	if a := math.Abs(n); a >= 1e21 || a < 1e-6 {
		// Exponent form without the exponent's leading zeros (Go writes
		// "1e-07" where Number.prototype.toString writes "1e-7").
		s := strconv.FormatFloat(n, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToBoolean is simply the truth bit (spec.md §3.1), exposed here for
// symmetry with the other coercions.
func ToBoolean(v Value) bool { return v.Truthy() }

// ToInt32 / ToUint32 implement the bitwise-operator coercions of spec.md
// §4.4.
func ToInt32(inv Invoker, v Value) (int32, error) {
	n, err := ToNumber(inv, v)
	if err != nil {
		return 0, err
	}
	return toInt32(n), nil
}

func ToUint32(inv Invoker, v Value) (uint32, error) {
	n, err := ToNumber(inv, v)
	if err != nil {
		return 0, err
	}
	return uint32(toInt32(n)), nil
}

func toInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	n = math.Trunc(n)
	m := math.Mod(n, 4294967296)
	if m < 0 {
		m += 4294967296
	}
	if m >= 2147483648 {
		m -= 4294967296
	}
	return int32(m)
}

// TypeOf implements the `typeof` operator (spec.md §4.3/§4.4).
func TypeOf(v Value) string {
	switch v.Kind() {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindFunction:
		return "function"
	default:
		return "object"
	}
}

// LooseEquals implements `==` per spec.md §4.4, including the symbol
// TypeError rule.
func LooseEquals(inv Invoker, a, b Value) (bool, error) {
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b), nil
	}
	if a.IsNullish() && b.IsNullish() {
		return true, nil
	}
	if a.IsNullish() || b.IsNullish() {
		return false, nil
	}
	if a.Kind() == KindSymbol || b.Kind() == KindSymbol {
		return false, fmt.Errorf("TypeError: Cannot convert a Symbol value")
	}
	if a.Kind() == KindNumber && b.Kind() == KindString {
		bn, err := ToNumber(inv, b)
		if err != nil {
			return false, err
		}
		return a.Num() == bn, nil
	}
	if a.Kind() == KindString && b.Kind() == KindNumber {
		return LooseEquals(inv, b, a)
	}
	if a.Kind() == KindBoolean {
		an, _ := ToNumber(inv, a)
		return LooseEquals(inv, Number(an), b)
	}
	if b.Kind() == KindBoolean {
		bn, _ := ToNumber(inv, b)
		return LooseEquals(inv, a, Number(bn))
	}
	if a.IsObject() && !b.IsObject() {
		ap, err := ToPrimitive(inv, a, HintDefault)
		if err != nil {
			return false, err
		}
		return LooseEquals(inv, ap, b)
	}
	if b.IsObject() && !a.IsObject() {
		return LooseEquals(inv, b, a)
	}
	return false, nil
}

// StrictEquals implements `===` (spec.md §4.4): tags compared first, then
// payload, with -0 == +0 (unlike Object.is).
func StrictEquals(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.Bool() == b.Bool()
	case KindNumber:
		return a.Num() == b.Num()
	case KindString:
		return a.Str() == b.Str()
	case KindSymbol:
		return a.SymbolID() == b.SymbolID() && a.Str() == b.Str()
	default:
		return a.Object() == b.Object()
	}
}
