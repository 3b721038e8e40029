// Package errors provides the engine's error formatting, mirroring the
// teacher's internal/errors package: a single struct carrying a source
// position and message, rendered with a caret pointing at the offending
// column (spec.md §7).
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-njs/internal/token"
)

// Kind is one of the JS error kinds in spec.md §7. Each is also the host
// error code returned across the embedding API (spec.md §6.1).
type Kind string

const (
	SyntaxError    Kind = "SyntaxError"
	ReferenceError Kind = "ReferenceError"
	TypeError      Kind = "TypeError"
	RangeError     Kind = "RangeError"
	URIError       Kind = "URIError"
	InternalError  Kind = "InternalError"
	MemoryError    Kind = "MemoryError"
)

// EngineError is a positioned error whose Format can include the
// offending source line (spec.md §4.1, §6.3). The lexer, parser, compiler
// and VM do not construct it: they return plain Go errors in the
// "Kind: message" shape that ClassifyMessage reads.
type EngineError struct {
	EKind   Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New constructs an EngineError. Source may be empty when no snippet is
// available (e.g. errors raised deep inside a native builtin).
func New(kind Kind, pos token.Position, source, file, format string, args ...any) *EngineError {
	return &EngineError{
		EKind:   kind,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
		File:    file,
		Pos:     pos,
	}
}

// Error implements the error interface, rendering "Kind: message" the way
// spec.md §7 mandates ("Name: message", prefix dropped when Name is empty).
func (e *EngineError) Error() string {
	if e.EKind == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.EKind, e.Message)
}

// Format renders the error with a source-context caret, following the
// teacher's CompilerError.Format (internal/errors/errors.go).
func (e *EngineError) Format() string {
	var sb strings.Builder
	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", e.EKind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d\n", e.EKind, e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		sb.WriteString("^\n")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

func (e *EngineError) sourceLine(n int) string {
	if e.Source == "" || n < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// OOM is a pre-allocated MemoryError: its own construction must never
// recurse into an allocation failure (spec.md §7).
var OOM = &EngineError{EKind: MemoryError, Message: "out of memory"}

// knownKinds lists the prefixes ClassifyMessage recognises, in the same
// "Kind: message" shape EngineError.Error() renders (spec.md §7). Native
// built-ins (internal/builtins) return plain Go errors using this
// convention rather than constructing an EngineError directly, since they
// have no source position to attach.
var knownKinds = []Kind{TypeError, RangeError, ReferenceError, SyntaxError, URIError, InternalError, MemoryError}

// ClassifyMessage splits a "Kind: message"-shaped error string into its
// Kind and bare message, defaulting to Error (the generic kind) when no
// recognised prefix is present. Used by internal/vmrt to turn a Go error
// returned from internal/value or internal/builtins into a catchable JS
// Error instance of the right subclass.
func ClassifyMessage(s string) (string, string) {
	for _, k := range knownKinds {
		prefix := string(k) + ": "
		if strings.HasPrefix(s, prefix) {
			return string(k), s[len(prefix):]
		}
	}
	return "Error", s
}
