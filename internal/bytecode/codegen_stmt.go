package bytecode

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/ast"
)

func (c *Compiler) compileStatement(s ast.Statement) error {
	line := s.Pos().Line
	switch n := s.(type) {
	case *ast.VarDecl:
		return c.compileVarDecl(n)
	case *ast.ExprStatement:
		if err := c.compileExpression(n.X); err != nil {
			return err
		}
		c.emitSimple(OpPop, line)
		return nil
	case *ast.BlockStatement:
		for _, stmt := range n.Body {
			if err := c.compileStatement(stmt); err != nil {
				return err
			}
		}
		return nil
	case *ast.EmptyStatement:
		return nil
	case *ast.IfStatement:
		return c.compileIf(n)
	case *ast.ForStatement:
		return c.compileFor(n)
	case *ast.ForInStatement:
		return c.compileForIn(n)
	case *ast.WhileStatement:
		return c.compileWhile(n)
	case *ast.DoWhileStatement:
		return c.compileDoWhile(n)
	case *ast.BreakStatement:
		ctx, err := c.findBreakTarget(n.Label)
		if err != nil {
			return err
		}
		ctx.breakJumps = append(ctx.breakJumps, c.emit(OpJump, 0, 0, line))
		return nil
	case *ast.ContinueStatement:
		ctx, err := c.findContinueTarget(n.Label)
		if err != nil {
			return err
		}
		ctx.continueJumps = append(ctx.continueJumps, c.emit(OpJump, 0, 0, line))
		return nil
	case *ast.ReturnStatement:
		if n.Arg != nil {
			if err := c.compileExpression(n.Arg); err != nil {
				return err
			}
		} else {
			c.emitSimple(OpUndefined, line)
		}
		c.emitSimple(OpReturn, line)
		return nil
	case *ast.ThrowStatement:
		if err := c.compileExpression(n.Arg); err != nil {
			return err
		}
		c.emitSimple(OpThrow, line)
		return nil
	case *ast.TryStatement:
		return c.compileTry(n)
	case *ast.SwitchStatement:
		return c.compileSwitch(n)
	case *ast.LabeledStatement:
		return c.compileLabeled(n)
	case *ast.FunctionDecl:
		// Top-level-of-block function declarations are installed by hoist;
		// re-encountering the declaration in statement position is a no-op.
		return nil
	default:
		return fmt.Errorf("InternalError: unhandled statement type %T", n)
	}
}

func (c *Compiler) compileVarDecl(n *ast.VarDecl) error {
	for _, d := range n.Decls {
		line := d.Pos().Line
		if d.Init != nil {
			if err := c.compileExpression(d.Init); err != nil {
				return err
			}
		} else if _, ok := d.Target.(*ast.Identifier); ok {
			continue // already undefined via hoist; nothing to assign
		} else {
			c.emitSimple(OpUndefined, line)
		}
		if err := c.compileBindingPattern(d.Target, line); err != nil {
			return err
		}
	}
	return nil
}

// compileBindingPattern consumes the value on top of the stack, binding it
// (or its destructured parts) to pattern's targets.
func (c *Compiler) compileBindingPattern(p ast.Pattern, line int) error {
	switch n := p.(type) {
	case *ast.Identifier:
		c.emitIdentStore(n.Name, false, line)
		c.emitSimple(OpPop, line)
		return nil
	case *ast.AssignPattern:
		return c.compileDefaultedBinding(n, line)
	case *ast.ArrayPattern:
		return c.compileArrayBindingPattern(n, line)
	case *ast.ObjectPattern:
		return c.compileObjectBindingPattern(n, line)
	default:
		return fmt.Errorf("InternalError: unhandled pattern type %T", n)
	}
}

func (c *Compiler) compileDefaultedBinding(n *ast.AssignPattern, line int) error {
	c.emitSimple(OpDup, line)
	c.emitSimple(OpUndefined, line)
	c.emitSimple(OpStrictEq, line)
	jmp := c.emit(OpJumpIfFalse, 0, 0, line)
	c.emitSimple(OpPop, line) // discard the undefined value
	if err := c.compileExpression(n.Default); err != nil {
		return err
	}
	done := c.emit(OpJump, 0, 0, line)
	c.chunk.Patch(jmp, MakeInstruction(OpJumpIfFalse, 0, uint16(len(c.chunk.Code))))
	c.chunk.Patch(done, MakeInstruction(OpJump, 0, uint16(len(c.chunk.Code))))
	return c.compileBindingPattern(n.Target, line)
}

func (c *Compiler) compileArrayBindingPattern(n *ast.ArrayPattern, line int) error {
	for i, el := range n.Elements {
		c.emitSimple(OpDup, line)
		c.emit(OpConstant, 0, c.constIndexNumber(float64(i)), line)
		c.emitSimple(OpGetIndex, line)
		if el == nil {
			c.emitSimple(OpPop, line)
			continue
		}
		if err := c.compileBindingPattern(el, line); err != nil {
			return err
		}
	}
	if n.Rest != nil {
		c.emit(OpConstant, 0, c.constIndexNumber(float64(len(n.Elements))), line)
		c.emitSimple(OpArrayRest, line)
		if err := c.compileBindingPattern(n.Rest, line); err != nil {
			return err
		}
	} else {
		c.emitSimple(OpPop, line) // drop the source array
	}
	return nil
}

func (c *Compiler) compileObjectBindingPattern(n *ast.ObjectPattern, line int) error {
	var literalKeys []uint16
	for _, prop := range n.Props {
		c.emitSimple(OpDup, line) // [obj obj]
		if prop.Computed {
			if err := c.compileExpression(prop.Key); err != nil {
				return err
			}
		} else {
			id, ok := prop.Key.(*ast.IdentExpr)
			if !ok {
				return fmt.Errorf("InternalError: non-computed object pattern key must be an identifier")
			}
			idx := c.constIndex(stringConst(id.Name))
			literalKeys = append(literalKeys, idx)
			c.emit(OpConstant, 0, idx, line)
		}
		c.emitSimple(OpGetIndex, line) // [obj value]
		target := ast.Pattern(prop.Value)
		if prop.Default != nil {
			target = &ast.AssignPattern{Target: prop.Value, Default: prop.Default}
		}
		if err := c.compileBindingPattern(target, line); err != nil {
			return err
		}
	}
	if n.Rest != nil {
		for _, idx := range literalKeys {
			c.emit(OpConstant, 0, idx, line)
		}
		c.emit(OpArray, 0, uint16(len(literalKeys)), line)
		c.emitSimple(OpObjectRest, line)
		return c.compileBindingPattern(n.Rest, line)
	}
	c.emitSimple(OpPop, line)
	return nil
}
