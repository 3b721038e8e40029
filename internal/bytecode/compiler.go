package bytecode

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/ast"
	"github.com/cwbudde/go-njs/internal/value"
)

// Compiler walks an ast.Program (or a nested ast.FunctionLiteral) and emits
// a Chunk. It also performs the scope/closure-resolution pass that
// spec.md §4.2 assigns to the parser: local-slot assignment, `var`
// hoisting, and upvalue capture for nested closures (internal/parser only
// produces the tree; this single pass both resolves bindings and emits
// code for them, the way the teacher's compiler package folds the symbol
// table into code generation rather than keeping a separate resolver).
type Compiler struct {
	parent *Compiler
	chunk  *Chunk

	isTopLevel bool // true for the Program compiler: bindings are globals

	locals     []string
	localIndex map[string]int
	tempCount  int // scratch local slots handed out by declareTemp

	upvalues     []UpvalueDesc
	upvalueIndex map[string]int

	loops []*loopCtx
}

// loopCtx tracks one enclosing break/continue target. isLoop is false for
// switch statements and plain labeled non-loop statements, which accept a
// labeled or unlabeled break but never a continue.
type loopCtx struct {
	label         string
	isLoop        bool
	breakJumps    []int
	continueJumps []int
}

// findBreakTarget resolves an (optionally labeled) break to its enclosing
// loopCtx, searching innermost-out.
func (c *Compiler) findBreakTarget(label string) (*loopCtx, error) {
	for i := len(c.loops) - 1; i >= 0; i-- {
		if label == "" || c.loops[i].label == label {
			return c.loops[i], nil
		}
	}
	return nil, fmt.Errorf("SyntaxError: undefined label %q", label)
}

// findContinueTarget resolves an (optionally labeled) continue, skipping
// non-loop contexts (a continue can only target an enclosing loop, never a
// bare labeled block or a switch).
func (c *Compiler) findContinueTarget(label string) (*loopCtx, error) {
	for i := len(c.loops) - 1; i >= 0; i-- {
		if !c.loops[i].isLoop {
			continue
		}
		if label == "" || c.loops[i].label == label {
			return c.loops[i], nil
		}
	}
	return nil, fmt.Errorf("SyntaxError: undefined label %q", label)
}

// CompileProgram compiles a full source file into the top-level chunk.
func CompileProgram(prog *ast.Program) (*Chunk, error) {
	c := &Compiler{
		chunk:      NewChunk("<script>"),
		isTopLevel: true,
		localIndex: map[string]int{},
	}
	if err := c.hoist(prog.Body); err != nil {
		return nil, err
	}
	for _, stmt := range prog.Body {
		if err := c.compileStatement(stmt); err != nil {
			return nil, err
		}
	}
	c.emit(OpUndefined, 0, 0, 0)
	c.emit(OpReturn, 0, 0, 0)
	c.chunk.LocalCount = len(c.locals)
	return c.chunk, nil
}

func newFunctionCompiler(parent *Compiler, name string) *Compiler {
	return &Compiler{
		parent:       parent,
		chunk:        NewChunk(name),
		localIndex:   map[string]int{},
		upvalueIndex: map[string]int{},
	}
}

func (c *Compiler) emit(op OpCode, a byte, b uint16, line int) int {
	return c.chunk.Write(MakeInstruction(op, a, b), line)
}

func (c *Compiler) emitSimple(op OpCode, line int) int {
	return c.chunk.Write(MakeSimple(op), line)
}

func (c *Compiler) constIndex(v value.Value) uint16 { return c.chunk.AddConstant(v) }

func (c *Compiler) constIndexNumber(n float64) uint16 { return c.constIndex(value.Number(n)) }

func stringConst(s string) value.Value { return value.String(s) }

// ---- binding resolution ----

// declareLocal assigns the next free slot to name, used by hoisting and by
// parameter binding. Re-declaring the same name (e.g. `var x; var x;`) is
// allowed and reuses the existing slot.
func (c *Compiler) declareLocal(name string) int {
	if idx, ok := c.localIndex[name]; ok {
		return idx
	}
	idx := len(c.locals)
	c.locals = append(c.locals, name)
	c.localIndex[name] = idx
	return idx
}

// declareTemp allocates a fresh scratch local slot, used by codegen that
// needs to hold a value across an instruction sequence a pure stack machine
// can't reach past (e.g. preserving a member postfix update's old value
// while the new value is written). The name uses a NUL prefix no source
// identifier can produce, so it never collides with a user binding.
func (c *Compiler) declareTemp() int {
	name := fmt.Sprintf("\x00tmp%d", c.tempCount)
	c.tempCount++
	return c.declareLocal(name)
}

func (c *Compiler) emitGetLocal(slot int, line int) { c.emit(OpGetLocal, 0, uint16(slot), line) }
func (c *Compiler) emitSetLocal(slot int, line int) { c.emit(OpSetLocal, 0, uint16(slot), line) }

// resolveLocal returns the slot index of name in this compiler's own
// function, if bound there.
func (c *Compiler) resolveLocal(name string) (int, bool) {
	idx, ok := c.localIndex[name]
	return idx, ok
}

// resolveUpvalue finds name in an enclosing function and threads an
// upvalue chain down to this compiler, returning its upvalue index here.
func (c *Compiler) resolveUpvalue(name string) (int, bool) {
	if c.parent == nil {
		return 0, false
	}
	if idx, ok := c.upvalueIndex[name]; ok {
		return idx, true
	}
	if slot, ok := c.parent.resolveLocal(name); ok {
		return c.addUpvalue(name, true, slot), true
	}
	if idx, ok := c.parent.resolveUpvalue(name); ok {
		return c.addUpvalue(name, false, idx), true
	}
	return 0, false
}

func (c *Compiler) addUpvalue(name string, fromParentLocal bool, index int) int {
	idx := len(c.upvalues)
	c.upvalues = append(c.upvalues, UpvalueDesc{FromParentLocal: fromParentLocal, Index: index, Name: name})
	c.upvalueIndex[name] = idx
	return idx
}

// emitIdentLoad / emitIdentStore dispatch an identifier reference to
// whichever binding kind resolves it: local slot, upvalue, or (failing
// both, or at top level) the global object.
func (c *Compiler) emitIdentLoad(name string, line int) {
	if !c.isTopLevel {
		if slot, ok := c.resolveLocal(name); ok {
			c.emit(OpGetLocal, 0, uint16(slot), line)
			return
		}
		if idx, ok := c.resolveUpvalue(name); ok {
			c.emit(OpGetUpvalue, 0, uint16(idx), line)
			return
		}
	}
	c.emit(OpGetGlobal, 0, c.constIndex(value.String(name)), line)
}

func (c *Compiler) emitIdentStore(name string, define bool, line int) {
	if !c.isTopLevel {
		if slot, ok := c.resolveLocal(name); ok {
			c.emit(OpSetLocal, 0, uint16(slot), line)
			return
		}
		if idx, ok := c.resolveUpvalue(name); ok {
			c.emit(OpSetUpvalue, 0, uint16(idx), line)
			return
		}
	}
	a := byte(0)
	if define {
		a = 1
	}
	c.emit(OpSetGlobal, a, c.constIndex(value.String(name)), line)
}

// ---- var/function hoisting (spec.md §4.2) ----

// hoist walks body (not descending into nested function literals) and
// declares every `var` name and function-declaration name as a binding
// before any code for the block is emitted, so a reference textually
// before its declaration still resolves (spec.md "var hoisted to function
// scope"). A name used by both a `var` and a function declaration is a
// syntax error per spec.md §4.2.
func (c *Compiler) hoist(body []ast.Statement) error {
	varNames := map[string]bool{}
	funcNames := map[string]*ast.FunctionLiteral{}
	if err := collectHoists(body, varNames, funcNames); err != nil {
		return err
	}
	for name := range funcNames {
		if varNames[name] {
			return fmt.Errorf("SyntaxError: identifier %q has already been declared", name)
		}
	}
	for name := range varNames {
		c.declareLocal(name)
	}
	for name := range funcNames {
		c.declareLocal(name)
	}
	// Local slots start undefined by construction, but the global object
	// has no such default: a top-level `var` must explicitly install an
	// undefined global binding before anything can reference it.
	if c.isTopLevel {
		for name := range varNames {
			c.emitSimple(OpUndefined, 0)
			c.emitIdentStore(name, true, 0)
			c.emitSimple(OpPop, 0)
		}
	}
	// Function declarations are fully initialized before the body runs
	// (unlike plain `var`, which starts undefined).
	for name, lit := range funcNames {
		if err := c.compileFunctionInto(lit, name); err != nil {
			return err
		}
		c.emitIdentStore(name, true, lit.Pos().Line)
		c.emitSimple(OpPop, lit.Pos().Line)
	}
	return nil
}

func collectHoists(body []ast.Statement, vars map[string]bool, funcs map[string]*ast.FunctionLiteral) error {
	for _, s := range body {
		if err := collectHoistsStmt(s, vars, funcs); err != nil {
			return err
		}
	}
	return nil
}

func collectHoistsStmt(s ast.Statement, vars map[string]bool, funcs map[string]*ast.FunctionLiteral) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		for _, d := range n.Decls {
			collectPatternNames(d.Target, vars)
		}
	case *ast.FunctionDecl:
		funcs[n.Fn.Name] = n.Fn
	case *ast.BlockStatement:
		return collectHoists(n.Body, vars, funcs)
	case *ast.IfStatement:
		if err := collectHoistsStmt(n.Then, vars, funcs); err != nil {
			return err
		}
		if n.Else != nil {
			return collectHoistsStmt(n.Else, vars, funcs)
		}
	case *ast.ForStatement:
		if decl, ok := n.Init.(*ast.VarDecl); ok {
			for _, d := range decl.Decls {
				collectPatternNames(d.Target, vars)
			}
		}
		return collectHoistsStmt(n.Body, vars, funcs)
	case *ast.ForInStatement:
		if n.Decl {
			collectPatternNames(n.Left, vars)
		}
		return collectHoistsStmt(n.Body, vars, funcs)
	case *ast.WhileStatement:
		return collectHoistsStmt(n.Body, vars, funcs)
	case *ast.DoWhileStatement:
		return collectHoistsStmt(n.Body, vars, funcs)
	case *ast.TryStatement:
		if err := collectHoists(n.Block.Body, vars, funcs); err != nil {
			return err
		}
		if n.CatchBlock != nil {
			if err := collectHoists(n.CatchBlock.Body, vars, funcs); err != nil {
				return err
			}
		}
		if n.FinallyBlock != nil {
			return collectHoists(n.FinallyBlock.Body, vars, funcs)
		}
	case *ast.SwitchStatement:
		for _, sc := range n.Cases {
			if err := collectHoists(sc.Body, vars, funcs); err != nil {
				return err
			}
		}
	case *ast.LabeledStatement:
		return collectHoistsStmt(n.Body, vars, funcs)
	}
	return nil
}

func collectPatternNames(p ast.Pattern, out map[string]bool) {
	switch n := p.(type) {
	case *ast.Identifier:
		out[n.Name] = true
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				collectPatternNames(el, out)
			}
		}
		if n.Rest != nil {
			collectPatternNames(n.Rest, out)
		}
	case *ast.ObjectPattern:
		for _, prop := range n.Props {
			collectPatternNames(prop.Value, out)
		}
		if n.Rest != nil {
			collectPatternNames(n.Rest, out)
		}
	case *ast.AssignPattern:
		collectPatternNames(n.Target, out)
	}
}
