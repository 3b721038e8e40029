package modules

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"hash"

	"github.com/cwbudde/go-njs/internal/value"
)

// newHash resolves an algorithm name to a stdlib hash.Hash constructor
// (spec.md §6.4 "createHash('md5'|'sha1'|'sha256')"). No example repo in
// the pack wraps a cryptographic hash library (the teacher is a scripting
// language, not a crypto tool), so this one concern is carried on the
// standard library rather than grounded on a pack dependency (DESIGN.md).
func newHash(algo string) (func() hash.Hash, error) {
	switch algo {
	case "md5":
		return md5.New, nil
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	default:
		return nil, typeError("unsupported digest algorithm %q", algo)
	}
}

// encodeDigest renders raw digest bytes per spec.md §6.4's accepted
// encodings (hex, base64, base64url, utf8 — utf8 returned as a "byte
// string" whose bytes may not be valid UTF-8 text, matching the source's
// permissive digest-as-string convention).
func encodeDigest(raw []byte, encoding string) (string, error) {
	switch encoding {
	case "", "hex":
		return hex.EncodeToString(raw), nil
	case "base64":
		return base64.StdEncoding.EncodeToString(raw), nil
	case "base64url":
		return base64.RawURLEncoding.EncodeToString(raw), nil
	case "utf8":
		return string(raw), nil
	default:
		return "", typeError("unsupported encoding %q", encoding)
	}
}

// BuildCrypto constructs the `crypto` module object: createHash returns a
// chainable { update(data), digest([encoding]) } hasher object, createHmac
// mirrors it keyed with an HMAC secret (spec.md §6.4).
func BuildCrypto(funcProto *value.Object) *value.Object {
	m := value.NewObject(nil)

	method(m, funcProto, "createHash", 1, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		algo, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		ctor, err := newHash(algo)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromObject(newHasher(funcProto, ctor())), nil
	})

	method(m, funcProto, "createHmac", 2, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		algo, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		key, err := value.ToString(inv, arg(args, 1))
		if err != nil {
			return value.Undefined, err
		}
		ctor, err := newHash(algo)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromObject(newHasher(funcProto, hmac.New(ctor, []byte(key)))), nil
	})

	return m
}

// newHasher wraps a live hash.Hash as a { update, digest } object, since
// spec.md §6.4 models createHash/createHmac as returning a stateful
// updatable hasher rather than a one-shot digest function.
func newHasher(funcProto *value.Object, h hash.Hash) *value.Object {
	o := value.NewObject(nil)

	method(o, funcProto, "update", 1, func(inv value.Invoker, this value.Value, args []value.Value) (value.Value, error) {
		s, err := value.ToString(inv, arg(args, 0))
		if err != nil {
			return value.Undefined, err
		}
		h.Write([]byte(s))
		return this, nil
	})

	method(o, funcProto, "digest", 0, func(inv value.Invoker, _ value.Value, args []value.Value) (value.Value, error) {
		encoding := "hex"
		if !arg(args, 0).IsUndefined() {
			s, err := value.ToString(inv, arg(args, 0))
			if err != nil {
				return value.Undefined, err
			}
			encoding = s
		}
		out, err := encodeDigest(h.Sum(nil), encoding)
		if err != nil {
			return value.Undefined, err
		}
		return value.String(out), nil
	})

	return o
}
