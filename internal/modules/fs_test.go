package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/go-njs/internal/value"
)

// recordingInvoker captures the arguments of the last Call, letting tests
// assert on the (err, data) callback's payload the way Node's fs.readFile
// convention expects.
type recordingInvoker struct {
	lastArgs []value.Value
}

func (r *recordingInvoker) Call(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	r.lastArgs = args
	return value.Undefined, nil
}

func nativeFn(name string, arity int, fn value.NativeFn) value.Value {
	o := value.NewObject(nil)
	o.Kind = value.KindFunction
	o.Fn = &value.Function{Name: name, Arity: arity, IsNative: true, Flavor: value.FlavorNative, Native: fn}
	return value.FromObject(o)
}

func TestFSWriteThenReadSyncRoundTrip(t *testing.T) {
	inv := &recordingInvoker{}
	funcProto := value.NewObject(nil)
	fs := BuildFS(funcProto)
	path := filepath.Join(t.TempDir(), "out.txt")

	callMethod(t, inv, fs, "writeFileSync", value.Undefined, []value.Value{
		value.String(path), value.String("hello world"),
	})

	got := callMethod(t, inv, fs, "readFileSync", value.Undefined, []value.Value{
		value.String(path),
	})
	if got.Str() != "hello world" {
		t.Fatalf("got %q, want %q", got.Str(), "hello world")
	}
}

func TestFSReadFileAsyncInvokesCallback(t *testing.T) {
	inv := &recordingInvoker{}
	funcProto := value.NewObject(nil)
	fs := BuildFS(funcProto)
	path := filepath.Join(t.TempDir(), "async.txt")
	if err := os.WriteFile(path, []byte("async data"), 0o644); err != nil {
		t.Fatal(err)
	}

	cb := nativeFn("cb", 2, func(_ value.Invoker, _ value.Value, _ []value.Value) (value.Value, error) {
		return value.Undefined, nil
	})

	callMethod(t, inv, fs, "readFile", value.Undefined, []value.Value{
		value.String(path), cb,
	})

	if len(inv.lastArgs) != 2 {
		t.Fatalf("expected a 2-arg (err, data) callback invocation, got %v", inv.lastArgs)
	}
	if inv.lastArgs[0] != value.Null {
		t.Fatalf("expected a nil error on success, got %v", inv.lastArgs[0])
	}
	if inv.lastArgs[1].Str() != "async data" {
		t.Fatalf("got %q, want %q", inv.lastArgs[1].Str(), "async data")
	}
}

func TestFSReadFileMissingArgsDoesNotPanic(t *testing.T) {
	inv := &recordingInvoker{}
	funcProto := value.NewObject(nil)
	fs := BuildFS(funcProto)

	fnVal, err := value.Get(inv, fs, value.String("readFile"))
	if err != nil {
		t.Fatal(err)
	}
	fn := fnVal.Object()
	if _, err := fn.Fn.Native(inv, value.Undefined, nil); err == nil {
		t.Fatal("expected an error for a missing callback argument")
	}
}

func TestFSRenameSync(t *testing.T) {
	inv := &recordingInvoker{}
	funcProto := value.NewObject(nil)
	fs := BuildFS(funcProto)
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	if err := os.WriteFile(oldPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	callMethod(t, inv, fs, "renameSync", value.Undefined, []value.Value{
		value.String(oldPath), value.String(newPath),
	})

	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("expected renamed file to exist: %v", err)
	}
}

func TestDecodeBytesRoundTripsEncodeDigest(t *testing.T) {
	raw := []byte("round trip me")
	for _, enc := range []string{"hex", "base64", "base64url", "utf8"} {
		encoded, err := encodeDigest(raw, enc)
		if err != nil {
			t.Fatalf("encodeDigest(%s): %v", enc, err)
		}
		decoded, err := decodeBytes(encoded, enc)
		if err != nil {
			t.Fatalf("decodeBytes(%s): %v", enc, err)
		}
		if string(decoded) != string(raw) {
			t.Fatalf("%s round trip: got %q, want %q", enc, decoded, raw)
		}
	}
}
