package modules

import (
	"testing"

	"github.com/cwbudde/go-njs/internal/value"
)

type noopInvoker struct{}

func (noopInvoker) Call(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	return value.Undefined, nil
}

func callMethod(t *testing.T, inv value.Invoker, obj *value.Object, name string, this value.Value, args []value.Value) value.Value {
	t.Helper()
	fnVal, err := value.Get(inv, obj, value.String(name))
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	fn := fnVal.Object()
	if fn == nil || fn.Fn == nil || fn.Fn.Native == nil {
		t.Fatalf("%q did not resolve to a native method", name)
	}
	result, err := fn.Fn.Native(inv, this, args)
	if err != nil {
		t.Fatalf("%q call failed: %v", name, err)
	}
	return result
}

func TestAllListsCryptoAndFS(t *testing.T) {
	names := map[string]bool{}
	for _, m := range All() {
		names[m.Name] = true
	}
	if !names["crypto"] || !names["fs"] {
		t.Fatalf("expected crypto and fs in All(), got %v", names)
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("crypto"); !ok {
		t.Fatal("expected crypto to be found")
	}
	if _, ok := Lookup("nonexistent"); ok {
		t.Fatal("expected nonexistent module to be absent")
	}
}

func TestCryptoHashDigestHex(t *testing.T) {
	inv := noopInvoker{}
	funcProto := value.NewObject(nil)
	crypto := BuildCrypto(funcProto)

	hasher := callMethod(t, inv, crypto, "createHash", value.Undefined, []value.Value{value.String("sha256")})
	hasherObj := hasher.Object()
	if hasherObj == nil {
		t.Fatal("createHash did not return an object")
	}

	callMethod(t, inv, hasherObj, "update", hasher, []value.Value{value.String("abc")})
	digest := callMethod(t, inv, hasherObj, "digest", hasher, nil)

	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if digest.Str() != want {
		t.Fatalf("got %q, want %q", digest.Str(), want)
	}
}

func TestCryptoUnsupportedAlgorithm(t *testing.T) {
	inv := noopInvoker{}
	funcProto := value.NewObject(nil)
	crypto := BuildCrypto(funcProto)

	fnVal, err := value.Get(inv, crypto, value.String("createHash"))
	if err != nil {
		t.Fatal(err)
	}
	fn := fnVal.Object()
	_, err = fn.Fn.Native(inv, value.Undefined, []value.Value{value.String("md4")})
	if err == nil {
		t.Fatal("expected an error for an unsupported algorithm")
	}
}

func TestEncodeDigestEncodings(t *testing.T) {
	raw := []byte("hi")
	if s, err := encodeDigest(raw, "hex"); err != nil || s != "6869" {
		t.Fatalf("hex: got %q, err %v", s, err)
	}
	if s, err := encodeDigest(raw, "utf8"); err != nil || s != "hi" {
		t.Fatalf("utf8: got %q, err %v", s, err)
	}
	if _, err := encodeDigest(raw, "bogus"); err == nil {
		t.Fatal("expected an error for an unsupported encoding")
	}
}
