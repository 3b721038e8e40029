package bytecode

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-njs/internal/value"
)

// constantOperandOps is the set of opcodes whose B operand addresses the
// constant pool, used so Disassemble can print the constant's value inline.
var constantOperandOps = map[OpCode]bool{
	OpConstant: true, OpGetGlobal: true, OpSetGlobal: true,
	OpGetProp: true, OpSetProp: true, OpDeleteProp: true, OpClosure: true,
}

// Disassemble renders a chunk (and, recursively, any function templates in
// its constant pool) as human-readable text, in the teacher's disassembler
// style (one instruction per line, constants inlined).
func Disassemble(c *Chunk) string {
	var sb strings.Builder
	disassembleInto(&sb, c, c.Name)
	return sb.String()
}

func disassembleInto(sb *strings.Builder, c *Chunk, name string) {
	fmt.Fprintf(sb, "== %s ==\n", name)
	for i, inst := range c.Code {
		op := inst.OpCode()
		fmt.Fprintf(sb, "%04d %-20s", i, op.String())
		if constantOperandOps[op] {
			b := inst.B()
			if int(b) < len(c.Constants) {
				fmt.Fprintf(sb, " %4d ; %s", b, describeConstant(c.Constants[b]))
			} else {
				fmt.Fprintf(sb, " %4d", b)
			}
		} else if op != OpPop && op != OpDup && op != OpReturn && opHasOperand(op) {
			fmt.Fprintf(sb, " %4d", inst.B())
		}
		sb.WriteByte('\n')
	}
	for _, cv := range c.Constants {
		if tmpl := templateOf(cv); tmpl != nil && tmpl.Chunk != nil {
			disassembleInto(sb, tmpl.Chunk, tmpl.Name)
		}
	}
}

func templateOf(v value.Value) *FunctionTemplate {
	if v.Kind() != value.KindFunction || v.Object() == nil || v.Object().Fn == nil {
		return nil
	}
	tmpl, _ := v.Object().Fn.Template.(*FunctionTemplate)
	return tmpl
}

func opHasOperand(op OpCode) bool {
	switch op {
	case OpNull, OpUndefined, OpTrue, OpFalse, OpPop, OpDup,
		OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow, OpNeg, OpPos,
		OpBitAnd, OpBitOr, OpBitXor, OpBitNot, OpShl, OpShr, OpUShr, OpNot,
		OpTypeof, OpVoidOp, OpEq, OpNeq, OpStrictEq, OpStrictNeq,
		OpLt, OpGt, OpLe, OpGe, OpInstanceOf, OpIn,
		OpGetIndex, OpSetIndex, OpDeleteIndex, OpReturn, OpThis, OpArguments,
		OpPushTry, OpPopTry, OpThrow, OpFinallyEnd, OpForInEnd,
		OpArrayRest, OpObjectRest, OpDup2, OpToNumber:
		return false
	default:
		return true
	}
}

func describeConstant(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		return fmt.Sprintf("%q", v.Str())
	case value.KindNumber:
		return value.FormatNumber(v.Num())
	case value.KindFunction:
		if tmpl := templateOf(v); tmpl != nil {
			return "<fn " + tmpl.Name + ">"
		}
		return "<fn>"
	default:
		return v.Kind().String()
	}
}
