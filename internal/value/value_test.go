package value

import (
	"math"
	"testing"
)

type noopInvoker struct{}

func (noopInvoker) Call(fn *Object, this Value, args []Value) (Value, error) {
	return Undefined, nil
}

func TestPropertyGetSetOwn(t *testing.T) {
	o := NewObject(nil)
	inv := noopInvoker{}
	if err := Set(inv, o, String("a"), Number(1)); err != nil {
		t.Fatal(err)
	}
	v, err := Get(inv, o, String("a"))
	if err != nil {
		t.Fatal(err)
	}
	if v.Num() != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestFrozenRejectsWrite(t *testing.T) {
	o := NewObject(nil)
	inv := noopInvoker{}
	Set(inv, o, String("a"), Number(1))
	p, _ := o.OwnProperty("a")
	p.Writable = False
	p.Configurable = False
	o.Extensible = false

	if err := Set(inv, o, String("a"), Number(2)); err == nil {
		t.Fatal("expected TypeError on frozen write")
	}
	if err := Set(inv, o, String("b"), Number(1)); err == nil {
		t.Fatal("expected TypeError extending a non-extensible object")
	}
}

func TestPrototypeChainLookup(t *testing.T) {
	proto := NewObject(nil)
	inv := noopInvoker{}
	Set(inv, proto, String("greet"), String("hi"))
	child := NewObject(proto)
	v, err := Get(inv, child, String("greet"))
	if err != nil || v.Str() != "hi" {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestCyclicPrototypeRejected(t *testing.T) {
	a := NewObject(nil)
	b := NewObject(a)
	if !PrototypeChainHas(b, a) {
		t.Fatal("expected a to be found in b's chain")
	}
}

func TestArrayGrowthAndLength(t *testing.T) {
	a := NewArray(nil, nil)
	inv := noopInvoker{}
	Set(inv, a, Number(2), String("x"))
	if len(a.Elements) != 3 {
		t.Fatalf("expected length 3, got %d", len(a.Elements))
	}
	lenVal, _ := Get(inv, a, String("length"))
	if lenVal.Num() != 3 {
		t.Fatalf("length = %v", lenVal)
	}
	if a.Elements[0].Kind() != KindInvalid {
		t.Fatalf("expected hole at index 0")
	}
}

func TestSameValueNegativeZero(t *testing.T) {
	if SameValue(Number(0), Number(math.Copysign(0, -1))) {
		t.Fatal("expected +0 and -0 to differ under SameValue")
	}
	if !StrictEquals(Number(0), Number(math.Copysign(0, -1))) {
		t.Fatal("expected +0 === -0 under StrictEquals")
	}
}

func TestSymbolOpacity(t *testing.T) {
	inv := noopInvoker{}
	if _, err := ToNumber(inv, Symbol("s")); err == nil {
		t.Fatal("expected TypeError converting symbol to number")
	}
	if _, err := ToString(inv, Symbol("s")); err == nil {
		t.Fatal("expected TypeError converting symbol to string")
	}
}
