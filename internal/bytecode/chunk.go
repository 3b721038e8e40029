package bytecode

import "github.com/cwbudde/go-njs/internal/value"

// Instruction is a packed 32-bit bytecode word: [8-bit opcode][8-bit A][16-bit B].
type Instruction uint32

// MakeInstruction packs an opcode and its operands.
func MakeInstruction(op OpCode, a byte, b uint16) Instruction {
	return Instruction(uint32(op) | uint32(a)<<8 | uint32(b)<<16)
}

// MakeSimple packs an opcode with no operands.
func MakeSimple(op OpCode) Instruction { return Instruction(op) }

func (inst Instruction) OpCode() OpCode { return OpCode(inst & 0xFF) }
func (inst Instruction) A() byte       { return byte((inst >> 8) & 0xFF) }
func (inst Instruction) B() uint16     { return uint16((inst >> 16) & 0xFFFF) }

// SignedB reinterprets B as a signed offset, used nowhere currently since
// jump targets are absolute instruction indices, but kept for symmetry with
// the teacher's instruction helpers.
func (inst Instruction) SignedB() int16 { return int16(inst.B()) }

// TryInfo records the catch/finally targets an OpPushTry installs,
// addressed by the instruction's index (spec.md §4.5).
type TryInfo struct {
	CatchTarget   int
	FinallyTarget int
	HasCatch      bool
	HasFinally    bool
}

// LineInfo maps an instruction index to a source line, for error reporting.
type LineInfo struct {
	InstrIndex int
	Line       int
}

// Chunk is one compiled code unit: a script top level or a single function
// body (spec.md §4.3).
type Chunk struct {
	Name      string
	Code      []Instruction
	Constants []value.Value
	Lines     []LineInfo
	TryInfos  map[int]TryInfo

	// LocalCount sizes the frame's locals array. Only meaningful for the
	// top-level program chunk; a function chunk's locals are instead sized
	// by its FunctionTemplate.LocalCount.
	LocalCount int

	// ArraySpreads maps an OpArraySpread instruction index to the set of
	// popped-argument positions (0-based, from the bottom of that
	// instruction's operands) that are spread rather than single elements.
	ArraySpreads map[int][]bool
}

// NewChunk creates an empty chunk.
func NewChunk(name string) *Chunk {
	return &Chunk{
		Name:         name,
		Code:         make([]Instruction, 0, 64),
		Constants:    make([]value.Value, 0, 16),
		Lines:        make([]LineInfo, 0, 16),
		TryInfos:     make(map[int]TryInfo),
		ArraySpreads: make(map[int][]bool),
	}
}

// Write appends an instruction, recording its source line, and returns the
// instruction's index (used by callers that need to patch jump targets).
func (c *Chunk) Write(inst Instruction, line int) int {
	idx := len(c.Code)
	c.Code = append(c.Code, inst)
	if len(c.Lines) == 0 || c.Lines[len(c.Lines)-1].Line != line {
		c.Lines = append(c.Lines, LineInfo{InstrIndex: idx, Line: line})
	}
	return idx
}

// Patch overwrites the instruction at idx, used to back-patch jump targets
// once the jump destination is known.
func (c *Chunk) Patch(idx int, inst Instruction) {
	c.Code[idx] = inst
}

// AddConstant interns v into the constant pool, reusing an existing slot
// for identical primitive constants (spec.md §4.3 constant dedup).
func (c *Chunk) AddConstant(v value.Value) uint16 {
	for i, existing := range c.Constants {
		if constantsEqual(existing, v) {
			return uint16(i)
		}
	}
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

func constantsEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.KindString:
		return a.Str() == b.Str()
	case value.KindNumber:
		return value.SameValue(a, b)
	case value.KindBoolean:
		return a.Bool() == b.Bool()
	case value.KindUndefined, value.KindNull:
		return true
	default:
		return false
	}
}

// LineFor returns the source line recorded for the instruction at idx.
func (c *Chunk) LineFor(idx int) int {
	line := 0
	for _, li := range c.Lines {
		if li.InstrIndex > idx {
			break
		}
		line = li.Line
	}
	return line
}

// UpvalueDesc describes where a closure's captured-variable slot gets its
// value from when the closure is created (spec.md §4.2 closures).
type UpvalueDesc struct {
	// FromParentLocal is true when Index addresses a local slot of the
	// immediately enclosing function; otherwise Index addresses one of
	// the enclosing function's own upvalues.
	FromParentLocal bool
	Index           int
	Name            string
}

// FunctionTemplate is the compiled, not-yet-closed-over form of a function
// literal; value.Function.Template holds one of these as `any` to avoid an
// import cycle between internal/value and internal/bytecode.
type FunctionTemplate struct {
	Name       string
	ParamCount int
	HasRest    bool
	LocalCount int
	Chunk      *Chunk
	Upvalues   []UpvalueDesc
	IsArrow    bool
}
