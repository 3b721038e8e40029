package vmrt

import (
	"fmt"
	"math"

	"github.com/cwbudde/go-njs/internal/bytecode"
	"github.com/cwbudde/go-njs/internal/value"
)

// run drives the frame currently on top of vm.frames to completion, one
// bytecode instruction at a time, returning the value its chunk completes
// with (spec.md §4.3, §4.4). Every nested call recurses back into run()
// through callBytecode rather than resuming in this loop, so Go's own call
// stack is the engine's call stack; vm.frames exists purely for bookkeeping
// (closures, try chains, arguments) that outlives a single run() activation.
func (vm *VM) run() (value.Value, error) {
	f := vm.frames[len(vm.frames)-1]
	defer func() { vm.frames = vm.frames[:len(vm.frames)-1] }()

	for {
		if f.ip >= len(f.chunk.Code) {
			vm.truncate(f.stackBase)
			return value.Undefined, nil
		}
		idx := f.ip
		inst := f.chunk.Code[idx]
		f.ip++
		op := inst.OpCode()

		switch op {

		// ---- constants & literals ----

		case bytecode.OpConstant:
			vm.push(f.chunk.Constants[inst.B()])
		case bytecode.OpNull:
			vm.push(value.Null)
		case bytecode.OpUndefined:
			vm.push(value.Undefined)
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))
		case bytecode.OpPop:
			vm.pop()
		case bytecode.OpDup:
			vm.push(vm.peek(0))
		case bytecode.OpDup2:
			a, b := vm.peek(1), vm.peek(0)
			vm.push(a)
			vm.push(b)

		// ---- arithmetic ----

		case bytecode.OpAdd:
			b, a := vm.pop(), vm.pop()
			v, err := vm.add(a, b)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(v)
		case bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod, bytecode.OpPow:
			b, a := vm.pop(), vm.pop()
			na, nb, err := vm.numberPair(a, b)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Number(arith(op, na, nb)))
		case bytecode.OpNeg:
			v := vm.pop()
			n, err := value.ToNumber(vm, v)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Number(-n))
		case bytecode.OpPos:
			v := vm.pop()
			n, err := value.ToNumber(vm, v)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Number(n))
		case bytecode.OpBitAnd, bytecode.OpBitOr, bytecode.OpBitXor, bytecode.OpShl, bytecode.OpShr:
			b, a := vm.pop(), vm.pop()
			ia, err := value.ToInt32(vm, a)
			if err == nil {
				var ib int32
				ib, err = value.ToInt32(vm, b)
				if err == nil {
					vm.push(value.Number(float64(bitwise(op, ia, ib))))
					continue
				}
			}
			if vm.raise(f, err) {
				continue
			}
			return vm.unwound(f, err)
		case bytecode.OpUShr:
			b, a := vm.pop(), vm.pop()
			ua, err := value.ToUint32(vm, a)
			if err == nil {
				var ub uint32
				ub, err = value.ToUint32(vm, b)
				if err == nil {
					vm.push(value.Number(float64(ua >> (ub & 31))))
					continue
				}
			}
			if vm.raise(f, err) {
				continue
			}
			return vm.unwound(f, err)
		case bytecode.OpBitNot:
			v := vm.pop()
			i, err := value.ToInt32(vm, v)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Number(float64(^i)))
		case bytecode.OpNot:
			v := vm.pop()
			vm.push(value.Bool(!v.Truthy()))
		case bytecode.OpTypeof:
			v := vm.pop()
			vm.push(value.String(value.TypeOf(v)))
		case bytecode.OpVoidOp:
			vm.pop()
			vm.push(value.Undefined)

		// ---- comparison ----

		case bytecode.OpEq, bytecode.OpNeq:
			b, a := vm.pop(), vm.pop()
			eq, err := value.LooseEquals(vm, a, b)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			if op == bytecode.OpNeq {
				eq = !eq
			}
			vm.push(value.Bool(eq))
		case bytecode.OpStrictEq:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.StrictEquals(a, b)))
		case bytecode.OpStrictNeq:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(!value.StrictEquals(a, b)))
		case bytecode.OpLt, bytecode.OpGt, bytecode.OpLe, bytecode.OpGe:
			b, a := vm.pop(), vm.pop()
			result, err := vm.relational(op, a, b)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Bool(result))
		case bytecode.OpInstanceOf:
			b, a := vm.pop(), vm.pop()
			result, err := vm.instanceOf(a, b)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Bool(result))
		case bytecode.OpIn:
			objVal, keyVal := vm.pop(), vm.pop()
			if !objVal.IsObject() {
				err := fmt.Errorf("TypeError: Cannot use 'in' operator on a non-object")
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Bool(value.Has(objVal.Object(), keyVal)))

		// ---- variables ----

		case bytecode.OpGetLocal:
			vm.push(f.locals[inst.B()])
		case bytecode.OpSetLocal:
			f.locals[inst.B()] = vm.peek(0)
		case bytecode.OpGetUpvalue:
			vm.push(*f.fn.Fn.Closure[inst.B()])
		case bytecode.OpSetUpvalue:
			*f.fn.Fn.Closure[inst.B()] = vm.peek(0)
		case bytecode.OpGetGlobal:
			name := f.chunk.Constants[inst.B()].Str()
			key := value.String(name)
			if !value.Has(vm.world.Global, key) {
				err := fmt.Errorf("ReferenceError: %s is not defined", name)
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			v, err := value.Get(vm, vm.world.Global, key)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(v)
		case bytecode.OpSetGlobal:
			name := f.chunk.Constants[inst.B()].Str()
			key := value.String(name)
			v := vm.peek(0)
			if inst.A() == 0 && !value.Has(vm.world.Global, key) {
				err := fmt.Errorf("ReferenceError: %s is not defined", name)
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			if err := value.Set(vm, vm.world.Global, key, v); err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}

		// ---- properties ----

		case bytecode.OpGetProp:
			name := f.chunk.Constants[inst.B()]
			objVal := vm.pop()
			obj, err := vm.toObject(objVal)
			if err == nil {
				var v value.Value
				v, err = value.Get(vm, obj, name)
				if err == nil {
					vm.push(v)
					continue
				}
			}
			if vm.raise(f, err) {
				continue
			}
			return vm.unwound(f, err)
		case bytecode.OpSetProp:
			name := f.chunk.Constants[inst.B()]
			val := vm.pop()
			objVal := vm.pop()
			obj, err := vm.toObject(objVal)
			if err == nil {
				err = value.Set(vm, obj, name, val)
				if err == nil {
					vm.push(val)
					continue
				}
			}
			if vm.raise(f, err) {
				continue
			}
			return vm.unwound(f, err)
		case bytecode.OpGetIndex:
			keyVal, objVal := vm.pop(), vm.pop()
			obj, err := vm.toObject(objVal)
			if err == nil {
				var v value.Value
				v, err = value.Get(vm, obj, keyVal)
				if err == nil {
					vm.push(v)
					continue
				}
			}
			if vm.raise(f, err) {
				continue
			}
			return vm.unwound(f, err)
		case bytecode.OpSetIndex:
			val := vm.pop()
			keyVal, objVal := vm.pop(), vm.pop()
			obj, err := vm.toObject(objVal)
			if err == nil {
				err = value.Set(vm, obj, keyVal, val)
				if err == nil {
					vm.push(val)
					continue
				}
			}
			if vm.raise(f, err) {
				continue
			}
			return vm.unwound(f, err)
		case bytecode.OpDeleteProp:
			name := f.chunk.Constants[inst.B()]
			objVal := vm.pop()
			if !objVal.IsObject() {
				vm.push(value.Bool(true))
				continue
			}
			ok, err := value.Delete(objVal.Object(), name)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Bool(ok))
		case bytecode.OpDeleteIndex:
			keyVal, objVal := vm.pop(), vm.pop()
			if !objVal.IsObject() {
				vm.push(value.Bool(true))
				continue
			}
			ok, err := value.Delete(objVal.Object(), keyVal)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Bool(ok))

		// ---- control flow ----

		case bytecode.OpJump:
			f.ip = int(inst.B())
		case bytecode.OpJumpIfFalse:
			if !vm.pop().Truthy() {
				f.ip = int(inst.B())
			}
		case bytecode.OpJumpIfTrue:
			if vm.pop().Truthy() {
				f.ip = int(inst.B())
			}
		case bytecode.OpJumpIfFalseKeep:
			if !vm.peek(0).Truthy() {
				f.ip = int(inst.B())
			}
		case bytecode.OpJumpIfTrueKeep:
			if vm.peek(0).Truthy() {
				f.ip = int(inst.B())
			}

		// ---- calls & functions ----

		case bytecode.OpCall:
			n := int(inst.B())
			args := vm.popN(n)
			calleeVal := vm.pop()
			thisVal := vm.pop()
			if calleeVal.Kind() != value.KindFunction || calleeVal.Object() == nil {
				err := fmt.Errorf("TypeError: value is not a function")
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			result, err := vm.Call(calleeVal.Object(), thisVal, args)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(result)
		case bytecode.OpNew:
			n := int(inst.B())
			args := vm.popN(n)
			calleeVal := vm.pop()
			ctor := calleeVal.Object()
			if ctor == nil || ctor.Fn == nil {
				err := fmt.Errorf("TypeError: value is not a constructor")
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			result, err := vm.construct(ctor, args)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(result)
		case bytecode.OpReturn:
			v := vm.pop()
			vm.truncate(f.stackBase)
			return v, nil
		case bytecode.OpClosure:
			tmplObj := f.chunk.Constants[inst.B()].Object()
			vm.push(value.FromObject(vm.makeClosure(f, tmplObj)))
		case bytecode.OpThis:
			vm.push(f.this)
		case bytecode.OpArguments:
			if f.argumentsObj == nil {
				f.argumentsObj = value.NewArray(vm.world.Proto("Array"), append([]value.Value(nil), f.args...))
			}
			vm.push(value.FromObject(f.argumentsObj))

		// ---- composite literals ----

		case bytecode.OpArray:
			n := int(inst.B())
			elems := vm.popN(n)
			vm.push(value.FromObject(value.NewArray(vm.world.Proto("Array"), elems)))
		case bytecode.OpArraySpread:
			n := int(inst.B())
			raw := vm.popN(n)
			flags := f.chunk.ArraySpreads[idx]
			var elems []value.Value
			var err error
			for i, v := range raw {
				if i < len(flags) && flags[i] {
					arr := v.Object()
					if arr == nil {
						err = fmt.Errorf("TypeError: spread element is not iterable")
						break
					}
					elems = append(elems, arr.Elements...)
				} else {
					elems = append(elems, v)
				}
			}
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.FromObject(value.NewArray(vm.world.Proto("Array"), elems)))
		case bytecode.OpObject:
			n := int(inst.B())
			raw := vm.popN(2 * n)
			obj := value.NewObject(vm.world.Proto("Object"))
			for i := 0; i < n; i++ {
				key, val := raw[2*i], raw[2*i+1]
				obj.DefineOwn(value.KeyString(key), &value.Property{
					Name: key, Kind: value.PropData, Value: val,
					Enumerable: value.True, Writable: value.True, Configurable: value.True,
				})
			}
			vm.push(value.FromObject(obj))
		case bytecode.OpTemplateConcat:
			n := int(inst.B())
			raw := vm.popN(n)
			cb := value.NewChainBuffer(0)
			var err error
			for _, v := range raw {
				var s string
				s, err = value.ToString(vm, v)
				if err != nil {
					break
				}
				cb.WriteString(s)
			}
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.String(cb.String()))
		case bytecode.OpArrayRest:
			startVal, arrVal := vm.pop(), vm.pop()
			var rest []value.Value
			if arr := arrVal.Object(); arr != nil {
				start := int(startVal.Num())
				if start < len(arr.Elements) {
					rest = append(rest, arr.Elements[start:]...)
				}
			}
			vm.push(value.FromObject(value.NewArray(vm.world.Proto("Array"), rest)))
		case bytecode.OpObjectRest:
			exclVal, objVal := vm.pop(), vm.pop()
			excluded := map[string]bool{}
			if ea := exclVal.Object(); ea != nil {
				for _, k := range ea.Elements {
					s, _ := value.ToString(vm, k)
					excluded[s] = true
				}
			}
			newObj := value.NewObject(vm.world.Proto("Object"))
			var err error
			if o := objVal.Object(); o != nil {
				for _, k := range o.OwnKeys(true) {
					if excluded[k] {
						continue
					}
					var v value.Value
					v, err = value.Get(vm, o, value.String(k))
					if err != nil {
						break
					}
					newObj.DefineOwn(k, &value.Property{
						Name: value.String(k), Kind: value.PropData, Value: v,
						Enumerable: value.True, Writable: value.True, Configurable: value.True,
					})
				}
			}
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.FromObject(newObj))
		case bytecode.OpToNumber:
			v := vm.pop()
			n, err := value.ToNumber(vm, v)
			if err != nil {
				if vm.raise(f, err) {
					continue
				}
				return vm.unwound(f, err)
			}
			vm.push(value.Number(n))

		// ---- exceptions ----

		case bytecode.OpPushTry:
			info := f.chunk.TryInfos[idx]
			f.tries = append(f.tries, tryHandler{info: info, stackDepth: len(vm.stack)})
		case bytecode.OpPopTry:
			if len(f.tries) > 0 {
				f.tries = f.tries[:len(f.tries)-1]
			}
		case bytecode.OpThrow:
			v := vm.pop()
			if vm.tryHandle(f, v) {
				continue
			}
			return value.Undefined, &ThrownValue{V: v}
		case bytecode.OpFinallyEnd:
			if len(f.finallyPending) == 0 {
				continue
			}
			pc := f.finallyPending[len(f.finallyPending)-1]
			f.finallyPending = f.finallyPending[:len(f.finallyPending)-1]
			if pc.kind == pendingThrow {
				if vm.tryHandle(f, pc.value) {
					continue
				}
				return value.Undefined, &ThrownValue{V: pc.value}
			}

		// ---- for-in ----

		case bytecode.OpForInInit:
			objVal := vm.pop()
			if obj := objVal.Object(); obj != nil {
				f.forIn = append(f.forIn, newForInIter(obj))
			} else {
				f.forIn = append(f.forIn, &forInIter{})
			}
		case bytecode.OpForInNext:
			it := f.forIn[len(f.forIn)-1]
			if k, ok := it.next(); ok {
				vm.push(value.String(k))
			} else {
				f.forIn = f.forIn[:len(f.forIn)-1]
				f.ip = int(inst.B())
			}
		case bytecode.OpForInEnd:
			if len(f.forIn) > 0 {
				f.forIn = f.forIn[:len(f.forIn)-1]
			}

		default:
			err := fmt.Errorf("InternalError: unimplemented opcode %s", op)
			if vm.raise(f, err) {
				continue
			}
			return vm.unwound(f, err)
		}
	}
}

// raise redirects err into f's try chain, the way spec.md §4.5's throw/catch
// protocol requires for any runtime failure (a bad coercion, an arity/type
// violation, a property-protocol TypeError), not just an explicit `throw`.
// Returns true when f.ip now points at a catch or finally block and the
// dispatch loop should simply continue; false means err must propagate out
// of this frame (the caller does `return vm.unwound(f, err)`).
func (vm *VM) raise(f *frame, err error) bool {
	return vm.tryHandle(f, vm.newError(err))
}

// unwound packages err as the ThrownValue run() returns when f's try chain
// is exhausted, so the caller (an outer run() activation via callBytecode,
// or Run itself) sees a catchable JS value rather than a bare Go error.
func (vm *VM) unwound(f *frame, err error) (value.Value, error) {
	vm.truncate(f.stackBase)
	if tv, ok := err.(*ThrownValue); ok {
		return value.Undefined, tv
	}
	return value.Undefined, &ThrownValue{V: vm.newError(err)}
}

// tryHandle implements the throw/unwind algorithm (spec.md §4.5): pop f's
// innermost try handler unconditionally, discard operands above its stack
// depth, and redirect into its catch block (pushing thrown first) or, if it
// has no catch, into its finally block with the throw recorded as a pending
// completion for OpFinallyEnd to resume. If neither is present, keep
// unwinding to the next outer handler in this same frame. Returns false once
// f.tries is exhausted, meaning the exception must propagate out of the
// frame as a Go error. An exception raised inside a catch body is handled by
// whatever try remains on f.tries at that point — never this statement's own
// finally, since its handler was already popped on the way in.
func (vm *VM) tryHandle(f *frame, thrown value.Value) bool {
	for len(f.tries) > 0 {
		th := f.tries[len(f.tries)-1]
		f.tries = f.tries[:len(f.tries)-1]
		vm.truncate(th.stackDepth)
		if th.info.HasCatch {
			vm.push(thrown)
			f.ip = th.info.CatchTarget
			return true
		}
		if th.info.HasFinally {
			f.finallyPending = append(f.finallyPending, pendingCompletion{kind: pendingThrow, value: thrown})
			f.ip = th.info.FinallyTarget
			return true
		}
	}
	return false
}

// toObject boxes a primitive receiver into a short-lived wrapper object so
// member access (`"x".length`, `(5).toFixed()`) resolves through the normal
// prototype-chain property protocol (spec.md §4.6, §4.7).
func (vm *VM) toObject(v value.Value) (*value.Object, error) {
	switch v.Kind() {
	case value.KindString:
		o := value.NewObject(vm.world.Proto("String"))
		o.Kind = value.KindStringWrapper
		o.Primitive = v
		return o, nil
	case value.KindNumber:
		o := value.NewObject(vm.world.Proto("Number"))
		o.Kind = value.KindNumberWrapper
		o.Primitive = v
		return o, nil
	case value.KindBoolean:
		o := value.NewObject(vm.world.Proto("Boolean"))
		o.Kind = value.KindBooleanWrapper
		o.Primitive = v
		return o, nil
	case value.KindSymbol:
		o := value.NewObject(vm.world.Proto("Symbol"))
		o.Kind = value.KindSymbolWrapper
		o.Primitive = v
		return o, nil
	case value.KindUndefined, value.KindNull:
		return nil, fmt.Errorf("TypeError: Cannot convert undefined or null to object")
	default:
		if o := v.Object(); o != nil {
			return o, nil
		}
		return nil, fmt.Errorf("TypeError: Cannot convert value to object")
	}
}

// add implements `+`'s ToPrimitive-then-string-or-number dispatch (spec.md
// §4.4): string concatenation if either operand's primitive form is a
// string, numeric addition otherwise.
func (vm *VM) add(a, b value.Value) (value.Value, error) {
	pa, err := value.ToPrimitive(vm, a, value.HintDefault)
	if err != nil {
		return value.Undefined, err
	}
	pb, err := value.ToPrimitive(vm, b, value.HintDefault)
	if err != nil {
		return value.Undefined, err
	}
	if pa.Kind() == value.KindString || pb.Kind() == value.KindString {
		sa, err := value.ToString(vm, pa)
		if err != nil {
			return value.Undefined, err
		}
		sb, err := value.ToString(vm, pb)
		if err != nil {
			return value.Undefined, err
		}
		cb := value.NewChainBuffer(len(sa) + len(sb))
		cb.WriteString(sa)
		cb.WriteString(sb)
		return value.String(cb.String()), nil
	}
	na, err := value.ToNumber(vm, pa)
	if err != nil {
		return value.Undefined, err
	}
	nb, err := value.ToNumber(vm, pb)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(na + nb), nil
}

func (vm *VM) numberPair(a, b value.Value) (float64, float64, error) {
	na, err := value.ToNumber(vm, a)
	if err != nil {
		return 0, 0, err
	}
	nb, err := value.ToNumber(vm, b)
	if err != nil {
		return 0, 0, err
	}
	return na, nb, nil
}

func arith(op bytecode.OpCode, a, b float64) float64 {
	switch op {
	case bytecode.OpSub:
		return a - b
	case bytecode.OpMul:
		return a * b
	case bytecode.OpDiv:
		return a / b
	case bytecode.OpMod:
		return math.Mod(a, b)
	case bytecode.OpPow:
		return math.Pow(a, b)
	default:
		return math.NaN()
	}
}

func bitwise(op bytecode.OpCode, a, b int32) int32 {
	switch op {
	case bytecode.OpBitAnd:
		return a & b
	case bytecode.OpBitOr:
		return a | b
	case bytecode.OpBitXor:
		return a ^ b
	case bytecode.OpShl:
		return a << (uint32(b) & 31)
	case bytecode.OpShr:
		return a >> (uint32(b) & 31)
	default:
		return 0
	}
}

// relational implements the abstract relational comparison (spec.md §4.4):
// string operands compare lexicographically, numeric operands compare
// after ToNumber, and any NaN operand makes every one of <, >, <=, >= false.
func (vm *VM) relational(op bytecode.OpCode, a, b value.Value) (bool, error) {
	switch op {
	case bytecode.OpLt:
		less, ok, err := vm.lessThan(a, b)
		return ok && less, err
	case bytecode.OpGt:
		less, ok, err := vm.lessThan(b, a)
		return ok && less, err
	case bytecode.OpLe:
		less, ok, err := vm.lessThan(b, a)
		if err != nil || !ok {
			return false, err
		}
		return !less, nil
	default: // OpGe
		less, ok, err := vm.lessThan(a, b)
		if err != nil || !ok {
			return false, err
		}
		return !less, nil
	}
}

func (vm *VM) lessThan(a, b value.Value) (less bool, ok bool, err error) {
	pa, err := value.ToPrimitive(vm, a, value.HintNumber)
	if err != nil {
		return false, false, err
	}
	pb, err := value.ToPrimitive(vm, b, value.HintNumber)
	if err != nil {
		return false, false, err
	}
	if pa.Kind() == value.KindString && pb.Kind() == value.KindString {
		return pa.Str() < pb.Str(), true, nil
	}
	na, err := value.ToNumber(vm, pa)
	if err != nil {
		return false, false, err
	}
	nb, err := value.ToNumber(vm, pb)
	if err != nil {
		return false, false, err
	}
	if math.IsNaN(na) || math.IsNaN(nb) {
		return false, false, nil
	}
	return na < nb, true, nil
}

func (vm *VM) instanceOf(objVal, ctorVal value.Value) (bool, error) {
	ctor := ctorVal.Object()
	if ctor == nil || ctor.Fn == nil {
		return false, fmt.Errorf("TypeError: Right-hand side of 'instanceof' is not callable")
	}
	if !objVal.IsObject() {
		return false, nil
	}
	protoVal, err := value.Get(vm, ctor, value.String("prototype"))
	if err != nil {
		return false, err
	}
	proto := protoVal.Object()
	if proto == nil {
		return false, nil
	}
	return value.PrototypeChainHas(objVal.Object().Proto, proto), nil
}

// construct implements `new` (spec.md §4.3): a fresh object linked to the
// constructor's .prototype is passed as `this`; an object result from the
// call replaces it, otherwise the fresh object itself is the result.
func (vm *VM) construct(ctor *value.Object, args []value.Value) (value.Value, error) {
	protoVal, err := value.Get(vm, ctor, value.String("prototype"))
	if err != nil {
		return value.Undefined, err
	}
	proto := protoVal.Object()
	if proto == nil {
		proto = vm.world.Proto("Object")
	}
	newObj := value.NewObject(proto)
	result, err := vm.Call(ctor, value.FromObject(newObj), args)
	if err != nil {
		return value.Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return value.FromObject(newObj), nil
}

// makeClosure instantiates a function object from a compiled template,
// capturing each upvalue per its UpvalueDesc: a local slot of the enclosing
// frame, or a forwarded cell from the enclosing function's own closure
// (spec.md §4.2 closures, §3.3 "closure vector").
func (vm *VM) makeClosure(f *frame, tmplObj *value.Object) *value.Object {
	tmpl, _ := tmplObj.Fn.Template.(*bytecode.FunctionTemplate)
	fn := *tmplObj.Fn
	if tmpl != nil && len(tmpl.Upvalues) > 0 {
		fn.Closure = make([]*value.Value, len(tmpl.Upvalues))
		for i, uv := range tmpl.Upvalues {
			if uv.FromParentLocal {
				fn.Closure[i] = &f.locals[uv.Index]
			} else if f.fn != nil && f.fn.Fn != nil {
				fn.Closure[i] = f.fn.Fn.Closure[uv.Index]
			}
		}
	}

	obj := value.NewObject(vm.world.Proto("Function"))
	obj.Kind = value.KindFunction
	obj.Fn = &fn

	if !fn.IsArrow && !fn.IsNative {
		proto := value.NewObject(vm.world.Proto("Object"))
		proto.DefineOwn("constructor", &value.Property{
			Name: value.String("constructor"), Kind: value.PropData, Value: value.FromObject(obj),
			Enumerable: value.False, Writable: value.True, Configurable: value.True,
		})
		obj.DefineOwn("prototype", &value.Property{
			Name: value.String("prototype"), Kind: value.PropData, Value: value.FromObject(proto),
			Enumerable: value.False, Writable: value.True, Configurable: value.False,
		})
	}
	return obj
}
