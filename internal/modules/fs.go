package modules

import (
	"encoding/base64"
	"encoding/hex"
	"os"

	"github.com/cwbudde/go-njs/internal/value"
)

// decodeBytes is encodeDigest's inverse, used to turn a write() payload
// string back into raw bytes per its declared encoding (spec.md §6.4).
func decodeBytes(s, encoding string) ([]byte, error) {
	switch encoding {
	case "", "utf8":
		return []byte(s), nil
	case "hex":
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, typeError("invalid hex string: %v", err)
		}
		return b, nil
	case "base64":
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, typeError("invalid base64 string: %v", err)
		}
		return b, nil
	case "base64url":
		b, err := base64.RawURLEncoding.DecodeString(s)
		if err != nil {
			return nil, typeError("invalid base64url string: %v", err)
		}
		return b, nil
	default:
		return nil, typeError("unsupported encoding %q", encoding)
	}
}

// fsOptions is the parsed form of fs's string/object option argument
// (spec.md §6.4 "with string/object options and a {encoding, flag} option
// bag").
type fsOptions struct {
	encoding string
	flag     string
}

func parseFSOptions(inv value.Invoker, v value.Value) (fsOptions, error) {
	opts := fsOptions{encoding: "utf8", flag: "r"}
	if v.IsUndefined() || v.IsNull() {
		return opts, nil
	}
	if v.Kind() == value.KindString {
		opts.encoding = v.Str()
		return opts, nil
	}
	o := v.Object()
	if o == nil {
		return opts, typeError("options must be a string or object")
	}
	if enc, err := value.Get(inv, o, value.String("encoding")); err == nil && !enc.IsUndefined() {
		s, err := value.ToString(inv, enc)
		if err != nil {
			return opts, err
		}
		opts.encoding = s
	}
	if flag, err := value.Get(inv, o, value.String("flag")); err == nil && !flag.IsUndefined() {
		s, err := value.ToString(inv, flag)
		if err != nil {
			return opts, err
		}
		opts.flag = s
	}
	return opts, nil
}

func writeFlags(flag string) int {
	switch flag {
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case "ax":
		return os.O_WRONLY | os.O_CREATE | os.O_EXCL | os.O_APPEND
	case "wx":
		return os.O_WRONLY | os.O_CREATE | os.O_EXCL | os.O_TRUNC
	default: // "w"
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
}

// nodeErrno adapts a Go os error into a thrown TypeError whose message
// names the operation and path (no code or path property is attached),
// per spec.md §7 ("errors originating in native callbacks are wrapped
// into the appropriate kind").
func nodeErrno(op, path string, err error) error {
	if os.IsNotExist(err) {
		return typeError("%s %q: no such file or directory", op, path)
	}
	if os.IsPermission(err) {
		return typeError("%s %q: permission denied", op, path)
	}
	return typeError("%s %q: %v", op, path, err)
}

// BuildFS constructs the `fs` module object (spec.md §6.4). The *Sync
// variants return/throw directly; the async variants take a Node-style
// `(err, data) => …` callback and invoke it synchronously before
// returning, since the engine has no event loop to defer onto (spec.md §5
// "no suspension points").
func BuildFS(funcProto *value.Object) *value.Object {
	m := value.NewObject(nil)

	method(m, funcProto, "readFileSync", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		return fsReadFileSync(inv, args)
	})
	method(m, funcProto, "readFile", 3, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		rest, cb := splitCallback(args)
		result, err := fsReadFileSync(inv, rest)
		return fsInvokeCallback(inv, cb, err, result)
	})

	method(m, funcProto, "writeFileSync", 3, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		return value.Undefined, fsWriteFileSync(inv, args)
	})
	method(m, funcProto, "writeFile", 4, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		rest, cb := splitCallback(args)
		err := fsWriteFileSync(inv, rest)
		return fsInvokeCallback(inv, cb, err, value.Undefined)
	})

	method(m, funcProto, "renameSync", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		oldPath, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		newPath, err := value.ToString(inv, arg(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			return value.Undefined, nodeErrno("rename", oldPath, err)
		}
		return value.Undefined, nil
	})

	return m
}

// splitCallback pulls the trailing callback argument off an async fs
// call's argument list, tolerating the Node convention of an omittable
// options argument (readFile(path, cb) vs readFile(path, opts, cb)).
func splitCallback(args []value.Value) ([]value.Value, value.Value) {
	if len(args) == 0 {
		return args, value.Undefined
	}
	return args[:len(args)-1], args[len(args)-1]
}

func fsReadFileSync(inv value.Invoker, args []value.Value) (value.Value, error) {
	path, err := value.ToString(inv, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	opts, err := parseFSOptions(inv, arg(args, 1))
	if err != nil {
		return value.Undefined, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return value.Undefined, nodeErrno("open", path, err)
	}
	out, err := encodeDigest(raw, opts.encoding)
	if err != nil {
		return value.Undefined, err
	}
	return value.String(out), nil
}

func fsWriteFileSync(inv value.Invoker, args []value.Value) error {
	path, err := value.ToString(inv, arg(args, 0))
	if err != nil {
		return err
	}
	data, err := value.ToString(inv, arg(args, 1))
	if err != nil {
		return err
	}
	opts, err := parseFSOptions(inv, arg(args, 2))
	if err != nil {
		return err
	}
	raw, err := decodeBytes(data, opts.encoding)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, writeFlags(opts.flag), 0o644)
	if err != nil {
		return nodeErrno("open", path, err)
	}
	defer f.Close()
	if _, err := f.Write(raw); err != nil {
		return nodeErrno("write", path, err)
	}
	return nil
}

// fsInvokeCallback calls a Node-style (err, data) callback synchronously,
// returning undefined (its own return value is ignored by convention).
func fsInvokeCallback(inv value.Invoker, cb value.Value, opErr error, result value.Value) (value.Value, error) {
	if cb.Kind() != value.KindFunction || cb.Object() == nil {
		return value.Undefined, typeError("callback must be a function")
	}
	errVal := value.Null
	if opErr != nil {
		errVal = value.String(opErr.Error())
	}
	_, err := inv.Call(cb.Object(), value.Undefined, []value.Value{errVal, result})
	return value.Undefined, err
}
