// Package vmrt implements the engine's register/stack virtual machine:
// call frames, the call stack, the try chain, and the instruction-dispatch
// loop that drives bytecode produced by internal/bytecode (spec.md §4.4).
package vmrt

import (
	"github.com/cwbudde/go-njs/internal/bytecode"
	"github.com/cwbudde/go-njs/internal/value"
)

// frame is one call frame (spec.md §3.4): the executing chunk, program
// counter, locals array, the active `this` binding, the raw argument list
// (for a lazily-materialised `arguments` object), and the owning function
// object (nil for the top-level program frame).
type frame struct {
	chunk *bytecode.Chunk
	ip    int

	locals []value.Value
	this   value.Value
	fn     *value.Object
	args   []value.Value

	argumentsObj *value.Object

	// stackBase is the VM value-stack depth when this frame was entered,
	// used to discard any leftover operands on an early return/throw.
	stackBase int

	// tries is this frame's try chain (spec.md §3.4, §4.5): try/catch/
	// finally never crosses a call boundary, so the chain lives on the
	// frame rather than the VM.
	tries []tryHandler

	// finallyPending holds the completion a throw redirected into a
	// finally block, so OpFinallyEnd knows whether to resume it (spec.md
	// §4.5's "finally always runs, then resumes the pending completion").
	// An exception raised inside a catch block is treated as propagating
	// to the next *outer* try/finally rather than re-entering this
	// statement's own finally, so that finally block does not run.
	finallyPending []pendingCompletion

	// forIn is the active for-in iterator stack (spec.md §4.2), one entry
	// per (possibly nested) for-in loop live in this frame.
	forIn []*forInIter
}

// tryHandler is one entry of a frame's try chain (spec.md §3.4, §4.5): the
// catch/finally targets and the stack depth to unwind to when this try's
// body (or its catch block) raises.
type tryHandler struct {
	info      bytecode.TryInfo
	stackDepth int
}

type pendingKind uint8

const (
	pendingNone pendingKind = iota
	pendingThrow
)

// pendingCompletion is the control-flow outcome that triggered entry into a
// finally block, resumed by OpFinallyEnd once the finally body completes
// normally (spec.md §4.5).
type pendingCompletion struct {
	kind  pendingKind
	value value.Value
}

// forInIter walks one object's own+inherited enumerable string keys, most
// specific first, skipping duplicates already yielded by a shadowing layer
// (spec.md §4.2 ForInStatement, §8 "Enumeration order").
type forInIter struct {
	keys []string
	pos  int
}

func newForInIter(obj *value.Object) *forInIter {
	seen := map[string]bool{}
	var keys []string
	for o := obj; o != nil; o = o.Proto {
		for _, k := range o.OwnKeys(true) {
			if seen[k] {
				continue
			}
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return &forInIter{keys: keys}
}

func (it *forInIter) next() (string, bool) {
	if it.pos >= len(it.keys) {
		return "", false
	}
	k := it.keys[it.pos]
	it.pos++
	return k, true
}
