package bytecode

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/ast"
	"github.com/cwbudde/go-njs/internal/value"
)

var binaryOps = map[string]OpCode{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod, "**": OpPow,
	"&": OpBitAnd, "|": OpBitOr, "^": OpBitXor, "<<": OpShl, ">>": OpShr, ">>>": OpUShr,
	"==": OpEq, "!=": OpNeq, "===": OpStrictEq, "!==": OpStrictNeq,
	"<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
	"instanceof": OpInstanceOf, "in": OpIn,
}

var unaryOpcodes = map[string]OpCode{
	"!": OpNot, "~": OpBitNot, "-": OpNeg, "+": OpPos,
	"typeof": OpTypeof, "void": OpVoidOp,
}

func (c *Compiler) compileExpression(e ast.Expression) error {
	line := e.Pos().Line
	switch n := e.(type) {
	case *ast.NumberLiteral:
		c.emit(OpConstant, 0, c.constIndexNumber(n.Value), line)
	case *ast.StringLiteral:
		c.emit(OpConstant, 0, c.constIndex(value.String(n.Value)), line)
	case *ast.BoolLiteral:
		if n.Value {
			c.emitSimple(OpTrue, line)
		} else {
			c.emitSimple(OpFalse, line)
		}
	case *ast.NullLiteral:
		c.emitSimple(OpNull, line)
	case *ast.UndefinedLiteral:
		c.emitSimple(OpUndefined, line)
	case *ast.ThisExpr:
		c.emitSimple(OpThis, line)
	case *ast.IdentExpr:
		if n.Name == "arguments" {
			c.emitSimple(OpArguments, line)
			return nil
		}
		c.emitIdentLoad(n.Name, line)
	case *ast.RegexpLiteral:
		c.emitIdentLoad("RegExp", line)
		c.emit(OpConstant, 0, c.constIndex(value.String(n.Pattern)), line)
		c.emit(OpConstant, 0, c.constIndex(value.String(n.Flags)), line)
		c.emit(OpNew, 0, 2, line)
	case *ast.TemplateLiteral:
		return c.compileTemplateLiteral(n, line)
	case *ast.ArrayLiteral:
		return c.compileArrayLiteral(n, line)
	case *ast.ObjectLiteral:
		return c.compileObjectLiteral(n, line)
	case *ast.FunctionLiteral:
		return c.compileFunctionInto(n, n.Name)
	case *ast.UnaryExpr:
		return c.compileUnary(n, line)
	case *ast.UpdateExpr:
		return c.compileUpdate(n, line)
	case *ast.BinaryExpr:
		return c.compileBinary(n, line)
	case *ast.LogicalExpr:
		return c.compileLogical(n, line)
	case *ast.AssignExpr:
		return c.compileAssign(n, line)
	case *ast.ConditionalExpr:
		return c.compileConditional(n, line)
	case *ast.CallExpr:
		return c.compileCall(n, line)
	case *ast.NewExpr:
		return c.compileNew(n, line)
	case *ast.MemberExpr:
		return c.compileMemberGet(n, line)
	case *ast.SequenceExpr:
		for i, sub := range n.Exprs {
			if err := c.compileExpression(sub); err != nil {
				return err
			}
			if i < len(n.Exprs)-1 {
				c.emitSimple(OpPop, line)
			}
		}
	default:
		return fmt.Errorf("InternalError: unhandled expression type %T", n)
	}
	return nil
}

func (c *Compiler) compileTemplateLiteral(n *ast.TemplateLiteral, line int) error {
	count := 0
	for i, q := range n.Quasis {
		c.emit(OpConstant, 0, c.constIndex(value.String(q)), line)
		count++
		if i < len(n.Exprs) {
			if err := c.compileExpression(n.Exprs[i]); err != nil {
				return err
			}
			count++
		}
	}
	c.emit(OpTemplateConcat, 0, uint16(count), line)
	return nil
}

func (c *Compiler) compileArrayLiteral(n *ast.ArrayLiteral, line int) error {
	spreadAt := map[int]bool{}
	count := 0
	for _, el := range n.Elements {
		if el == nil {
			c.emitSimple(OpUndefined, line)
			count++
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			if err := c.compileExpression(spread.Arg); err != nil {
				return err
			}
			spreadAt[count] = true
			count++
			continue
		}
		if err := c.compileExpression(el); err != nil {
			return err
		}
		count++
	}
	if len(spreadAt) > 0 {
		idx := c.emit(OpArraySpread, 0, uint16(count), line)
		flags := make([]bool, count)
		for i := range flags {
			flags[i] = spreadAt[i]
		}
		c.chunk.ArraySpreads[idx] = flags
	} else {
		c.emit(OpArray, 0, uint16(count), line)
	}
	return nil
}

func (c *Compiler) compileObjectLiteral(n *ast.ObjectLiteral, line int) error {
	count := 0
	for _, prop := range n.Props {
		switch prop.Kind {
		case "spread":
			if err := c.compileSpreadIntoObject(prop, line); err != nil {
				return err
			}
			count++
			continue
		case "get", "set":
			c.emit(OpConstant, 0, c.constIndex(propKeyAccessorName(prop.Key, prop.Kind)), line)
			fn := prop.Value.(*ast.FunctionLiteral)
			if err := c.compileFunctionInto(fn, ""); err != nil {
				return err
			}
			count++
			continue
		}
		if err := c.emitObjectKey(prop, line); err != nil {
			return err
		}
		if err := c.compileExpression(prop.Value); err != nil {
			return err
		}
		count++
	}
	c.emit(OpObject, 0, uint16(count), line)
	return nil
}

func (c *Compiler) compileSpreadIntoObject(prop *ast.ObjectProp, line int) error {
	c.emit(OpConstant, 0, c.constIndex(value.String("\x00spread")), line)
	return c.compileExpression(prop.Value)
}

func propKeyAccessorName(key ast.Expression, kind string) value.Value {
	if id, ok := key.(*ast.IdentExpr); ok {
		return value.String("\x00" + kind + ":" + id.Name)
	}
	if s, ok := key.(*ast.StringLiteral); ok {
		return value.String("\x00" + kind + ":" + s.Value)
	}
	return value.String("\x00" + kind + ":")
}

func (c *Compiler) emitObjectKey(prop *ast.ObjectProp, line int) error {
	if prop.Computed {
		return c.compileExpression(prop.Key)
	}
	switch k := prop.Key.(type) {
	case *ast.IdentExpr:
		c.emit(OpConstant, 0, c.constIndex(value.String(k.Name)), line)
	case *ast.StringLiteral:
		c.emit(OpConstant, 0, c.constIndex(value.String(k.Value)), line)
	case *ast.NumberLiteral:
		c.emit(OpConstant, 0, c.constIndex(value.String(value.FormatNumber(k.Value))), line)
	default:
		return fmt.Errorf("InternalError: unhandled object key type %T", k)
	}
	return nil
}

func (c *Compiler) compileUnary(n *ast.UnaryExpr, line int) error {
	if n.Op == "delete" {
		m, ok := n.Arg.(*ast.MemberExpr)
		if !ok {
			c.emitSimple(OpTrue, line)
			return nil
		}
		if err := c.compileExpression(m.Object); err != nil {
			return err
		}
		if err := c.emitMemberKey(m, line); err != nil {
			return err
		}
		c.emitSimple(OpDeleteIndex, line)
		return nil
	}
	if err := c.compileExpression(n.Arg); err != nil {
		return err
	}
	op, ok := unaryOpcodes[n.Op]
	if !ok {
		return fmt.Errorf("InternalError: unhandled unary operator %q", n.Op)
	}
	c.emitSimple(op, line)
	return nil
}

// compileUpdate implements `++`/`--`, prefix and postfix, on an identifier or
// member target (spec.md §4.2/§4.4). `++`/`--` always apply the unconditional
// ToNumber coercion, never `+`'s string-concat fallback.
//
// A member target's object/key subexpressions are evaluated once: OpDup2
// keeps a second (obj, key) pair on the stack so the read and the write each
// get their own copy without re-evaluating user code. Postfix needs the old
// (coerced) value as its result while still writing the new value; a pure
// stack machine can't reach past the (obj, key) pair to stash a value below
// them, so the old value is parked in a scratch local slot for the duration
// of the write.
func (c *Compiler) compileUpdate(n *ast.UpdateExpr, line int) error {
	delta := 1.0
	if n.Op == "--" {
		delta = -1.0
	}
	deltaConst := c.constIndexNumber(delta)

	switch target := n.Arg.(type) {
	case *ast.IdentExpr:
		c.emitIdentLoad(target.Name, line) // [old]
		c.emitSimple(OpToNumber, line)     // [oldNum]
		if n.Prefix {
			c.emit(OpConstant, 0, deltaConst, line) // [oldNum delta]
			c.emitSimple(OpAdd, line)                // [newNum]
			c.emitIdentStore(target.Name, false, line)
			return nil
		}
		c.emitSimple(OpDup, line)                  // [oldNum oldNum]
		c.emit(OpConstant, 0, deltaConst, line)     // [oldNum oldNum delta]
		c.emitSimple(OpAdd, line)                   // [oldNum newNum]
		c.emitIdentStore(target.Name, false, line)  // store doesn't pop: [oldNum newNum]
		c.emitSimple(OpPop, line)                   // [oldNum]
		return nil
	case *ast.MemberExpr:
		if err := c.compileExpression(target.Object); err != nil {
			return err
		}
		if err := c.emitMemberKey(target, line); err != nil {
			return err
		}
		c.emitSimple(OpDup2, line)     // [obj key obj key]
		c.emitSimple(OpGetIndex, line) // [obj key old]
		c.emitSimple(OpToNumber, line) // [obj key oldNum]
		if n.Prefix {
			c.emit(OpConstant, 0, deltaConst, line) // [obj key oldNum delta]
			c.emitSimple(OpAdd, line)                 // [obj key newNum]
			c.emitSimple(OpSetIndex, line)             // [newNum]
			return nil
		}
		tmp := c.declareTemp()
		c.emitSimple(OpDup, line)               // [obj key oldNum oldNum]
		c.emitSetLocal(tmp, line)               // stash a copy, doesn't pop
		c.emitSimple(OpPop, line)               // [obj key oldNum]
		c.emit(OpConstant, 0, deltaConst, line) // [obj key oldNum delta]
		c.emitSimple(OpAdd, line)               // [obj key newNum]
		c.emitSimple(OpSetIndex, line)          // [newNum]
		c.emitSimple(OpPop, line)               // []
		c.emitGetLocal(tmp, line)               // [oldNum]
		return nil
	default:
		return fmt.Errorf("InternalError: invalid update target %T", target)
	}
}

func (c *Compiler) compileBinary(n *ast.BinaryExpr, line int) error {
	if err := c.compileExpression(n.Left); err != nil {
		return err
	}
	if err := c.compileExpression(n.Right); err != nil {
		return err
	}
	op, ok := binaryOps[n.Op]
	if !ok {
		return fmt.Errorf("InternalError: unhandled binary operator %q", n.Op)
	}
	c.emitSimple(op, line)
	return nil
}

func (c *Compiler) compileLogical(n *ast.LogicalExpr, line int) error {
	if err := c.compileExpression(n.Left); err != nil {
		return err
	}
	var jmp int
	if n.Op == "&&" {
		jmp = c.emit(OpJumpIfFalseKeep, 0, 0, line)
	} else {
		jmp = c.emit(OpJumpIfTrueKeep, 0, 0, line)
	}
	c.emitSimple(OpPop, line)
	if err := c.compileExpression(n.Right); err != nil {
		return err
	}
	if n.Op == "&&" {
		c.chunk.Patch(jmp, MakeInstruction(OpJumpIfFalseKeep, 0, uint16(len(c.chunk.Code))))
	} else {
		c.chunk.Patch(jmp, MakeInstruction(OpJumpIfTrueKeep, 0, uint16(len(c.chunk.Code))))
	}
	return nil
}

func (c *Compiler) compileConditional(n *ast.ConditionalExpr, line int) error {
	if err := c.compileExpression(n.Test); err != nil {
		return err
	}
	elseJump := c.emit(OpJumpIfFalse, 0, 0, line)
	if err := c.compileExpression(n.Cons); err != nil {
		return err
	}
	endJump := c.emit(OpJump, 0, 0, line)
	c.chunk.Patch(elseJump, MakeInstruction(OpJumpIfFalse, 0, uint16(len(c.chunk.Code))))
	if err := c.compileExpression(n.Alt); err != nil {
		return err
	}
	c.chunk.Patch(endJump, MakeInstruction(OpJump, 0, uint16(len(c.chunk.Code))))
	return nil
}

// compileCall compiles a call expression. A member-expression callee
// (`obj.method(...)`) evaluates the object once, keeps it as the `this`
// binding, and fetches the method off the same object; any other callee is
// invoked with `this` as undefined. OpCall expects [this, callee, args...].
func (c *Compiler) compileCall(n *ast.CallExpr, line int) error {
	if m, ok := n.Callee.(*ast.MemberExpr); ok {
		if err := c.compileExpression(m.Object); err != nil {
			return err
		}
		c.emitSimple(OpDup, line) // [this this]
		if err := c.emitMemberKey(m, line); err != nil {
			return err
		}
		c.emitSimple(OpGetIndex, line) // [this fn]
	} else {
		c.emitSimple(OpUndefined, line) // [this]
		if err := c.compileExpression(n.Callee); err != nil {
			return err
		}
	}
	return c.emitCallArgs(n.Args, line)
}

func (c *Compiler) emitCallArgs(args []ast.Expression, line int) error {
	count := 0
	for _, a := range args {
		if sp, ok := a.(*ast.SpreadElement); ok {
			if err := c.compileExpression(sp.Arg); err != nil {
				return err
			}
			c.emitSimple(OpArraySpread, line)
			count++
			continue
		}
		if err := c.compileExpression(a); err != nil {
			return err
		}
		count++
	}
	c.emit(OpCall, 0, uint16(count), line)
	return nil
}

func (c *Compiler) compileNew(n *ast.NewExpr, line int) error {
	if err := c.compileExpression(n.Callee); err != nil {
		return err
	}
	count := 0
	for _, a := range n.Args {
		if err := c.compileExpression(a); err != nil {
			return err
		}
		count++
	}
	c.emit(OpNew, 0, uint16(count), line)
	return nil
}

func (c *Compiler) compileMemberGet(n *ast.MemberExpr, line int) error {
	if err := c.compileExpression(n.Object); err != nil {
		return err
	}
	if err := c.emitMemberKey(n, line); err != nil {
		return err
	}
	c.emitSimple(OpGetIndex, line)
	return nil
}

func (c *Compiler) emitMemberKey(n *ast.MemberExpr, line int) error {
	if n.Computed {
		return c.compileExpression(n.Property)
	}
	id, ok := n.Property.(*ast.IdentExpr)
	if !ok {
		return fmt.Errorf("InternalError: non-computed member property must be an identifier")
	}
	c.emit(OpConstant, 0, c.constIndex(value.String(id.Name)), line)
	return nil
}

// compileAssign compiles `=` and the compound assignment operators (`+=`,
// `-=`, ...). Every branch leaves exactly the assigned value on the stack,
// matching JS assignment-expression semantics.
func (c *Compiler) compileAssign(n *ast.AssignExpr, line int) error {
	if n.Op == "=" {
		switch t := n.Target.(type) {
		case *ast.IdentExpr:
			if err := c.compileExpression(n.Value); err != nil {
				return err
			}
			c.emitIdentStore(t.Name, false, line)
			return nil
		case *ast.MemberExpr:
			if err := c.compileExpression(t.Object); err != nil {
				return err
			}
			if err := c.emitMemberKey(t, line); err != nil {
				return err
			}
			if err := c.compileExpression(n.Value); err != nil {
				return err
			}
			c.emitSimple(OpSetIndex, line)
			return nil
		case *ast.ArrayLiteral, *ast.ObjectLiteral:
			pat, err := exprToBindingPattern(n.Target)
			if err != nil {
				return err
			}
			if err := c.compileExpression(n.Value); err != nil {
				return err
			}
			c.emitSimple(OpDup, line)
			return c.compileBindingPattern(pat, line)
		default:
			return fmt.Errorf("InternalError: invalid assignment target %T", t)
		}
	}

	binOp := n.Op[:len(n.Op)-1]
	op, ok := binaryOps[binOp]
	if !ok {
		return fmt.Errorf("InternalError: unhandled compound operator %q", n.Op)
	}
	switch target := n.Target.(type) {
	case *ast.IdentExpr:
		c.emitIdentLoad(target.Name, line)
		if err := c.compileExpression(n.Value); err != nil {
			return err
		}
		c.emitSimple(op, line)
		c.emitIdentStore(target.Name, false, line)
		return nil
	case *ast.MemberExpr:
		if err := c.compileExpression(target.Object); err != nil {
			return err
		}
		if err := c.emitMemberKey(target, line); err != nil {
			return err
		}
		c.emitSimple(OpDup2, line)     // [obj key obj key]
		c.emitSimple(OpGetIndex, line) // [obj key current]
		if err := c.compileExpression(n.Value); err != nil {
			return err
		}
		c.emitSimple(op, line)         // [obj key result]
		c.emitSimple(OpSetIndex, line) // [result]
		return nil
	default:
		return fmt.Errorf("InternalError: invalid compound assignment target %T", target)
	}
}

// exprToBindingPattern converts an array/object literal used as a
// destructuring assignment target into the Pattern shape compileBindingPattern
// consumes. Only identifiers, array/object literal shapes, and rest elements
// are valid here; a property shorthand default (`{a = 1} = x`) is not
// supported in assignment-expression position (it remains supported in
// `var`/for-in/catch-clause binding position).
func exprToBindingPattern(e ast.Expression) (ast.Pattern, error) {
	switch v := e.(type) {
	case *ast.IdentExpr:
		return ast.IdentPattern(v.Name, v.Pos()), nil
	case *ast.ArrayLiteral:
		pat := &ast.ArrayPattern{PatternBase: ast.PatternBase{Base: v.Base}}
		for _, el := range v.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if spread, ok := el.(*ast.SpreadElement); ok {
				rest, err := exprToBindingPattern(spread.Arg)
				if err != nil {
					return nil, err
				}
				pat.Rest = rest
				continue
			}
			sub, err := exprToBindingPattern(el)
			if err != nil {
				return nil, err
			}
			pat.Elements = append(pat.Elements, sub)
		}
		return pat, nil
	case *ast.ObjectLiteral:
		pat := &ast.ObjectPattern{PatternBase: ast.PatternBase{Base: v.Base}}
		for _, prop := range v.Props {
			if prop.Kind == "spread" {
				rest, err := exprToBindingPattern(prop.Value)
				if err != nil {
					return nil, err
				}
				pat.Rest = rest
				continue
			}
			sub, err := exprToBindingPattern(prop.Value)
			if err != nil {
				return nil, err
			}
			pat.Props = append(pat.Props, &ast.ObjectPatternProp{
				Key: prop.Key, Computed: prop.Computed, Value: sub, Base: prop.Base,
			})
		}
		return pat, nil
	default:
		return nil, fmt.Errorf("SyntaxError: invalid destructuring assignment target")
	}
}
