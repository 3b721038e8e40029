package bytecode

import "github.com/cwbudde/go-njs/internal/ast"

func (c *Compiler) compileIf(n *ast.IfStatement) error {
	line := n.Pos().Line
	if err := c.compileExpression(n.Cond); err != nil {
		return err
	}
	elseJump := c.emit(OpJumpIfFalse, 0, 0, line)
	if err := c.compileStatement(n.Then); err != nil {
		return err
	}
	if n.Else == nil {
		c.chunk.Patch(elseJump, MakeInstruction(OpJumpIfFalse, 0, uint16(len(c.chunk.Code))))
		return nil
	}
	endJump := c.emit(OpJump, 0, 0, line)
	c.chunk.Patch(elseJump, MakeInstruction(OpJumpIfFalse, 0, uint16(len(c.chunk.Code))))
	if err := c.compileStatement(n.Else); err != nil {
		return err
	}
	c.chunk.Patch(endJump, MakeInstruction(OpJump, 0, uint16(len(c.chunk.Code))))
	return nil
}

func (c *Compiler) compileWhile(n *ast.WhileStatement) error {
	line := n.Pos().Line
	ctx := &loopCtx{label: n.Label, isLoop: true}
	c.loops = append(c.loops, ctx)

	condAt := len(c.chunk.Code)
	if err := c.compileExpression(n.Cond); err != nil {
		return err
	}
	exitJump := c.emit(OpJumpIfFalse, 0, 0, line)
	if err := c.compileStatement(n.Body); err != nil {
		return err
	}
	c.patchJumps(ctx.continueJumps, condAt)
	c.emit(OpJump, 0, uint16(condAt), line)
	end := len(c.chunk.Code)
	c.chunk.Patch(exitJump, MakeInstruction(OpJumpIfFalse, 0, uint16(end)))
	c.patchJumps(ctx.breakJumps, end)

	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

func (c *Compiler) compileDoWhile(n *ast.DoWhileStatement) error {
	line := n.Pos().Line
	ctx := &loopCtx{label: n.Label, isLoop: true}
	c.loops = append(c.loops, ctx)

	bodyAt := len(c.chunk.Code)
	if err := c.compileStatement(n.Body); err != nil {
		return err
	}
	condAt := len(c.chunk.Code)
	c.patchJumps(ctx.continueJumps, condAt)
	if err := c.compileExpression(n.Cond); err != nil {
		return err
	}
	c.emit(OpJumpIfTrue, 0, uint16(bodyAt), line)
	end := len(c.chunk.Code)
	c.patchJumps(ctx.breakJumps, end)

	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

func (c *Compiler) compileFor(n *ast.ForStatement) error {
	line := n.Pos().Line
	switch init := n.Init.(type) {
	case *ast.VarDecl:
		if err := c.compileVarDecl(init); err != nil {
			return err
		}
	case ast.Expression:
		if err := c.compileExpression(init); err != nil {
			return err
		}
		c.emitSimple(OpPop, line)
	}

	ctx := &loopCtx{label: n.Label, isLoop: true}
	c.loops = append(c.loops, ctx)

	condAt := len(c.chunk.Code)
	var exitJump int
	hasCond := n.Cond != nil
	if hasCond {
		if err := c.compileExpression(n.Cond); err != nil {
			return err
		}
		exitJump = c.emit(OpJumpIfFalse, 0, 0, line)
	}
	if err := c.compileStatement(n.Body); err != nil {
		return err
	}
	updateAt := len(c.chunk.Code)
	c.patchJumps(ctx.continueJumps, updateAt)
	if n.Update != nil {
		if err := c.compileExpression(n.Update); err != nil {
			return err
		}
		c.emitSimple(OpPop, line)
	}
	c.emit(OpJump, 0, uint16(condAt), line)
	end := len(c.chunk.Code)
	if hasCond {
		c.chunk.Patch(exitJump, MakeInstruction(OpJumpIfFalse, 0, uint16(end)))
	}
	c.patchJumps(ctx.breakJumps, end)

	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

func (c *Compiler) compileForIn(n *ast.ForInStatement) error {
	line := n.Pos().Line
	if err := c.compileExpression(n.Right); err != nil {
		return err
	}
	c.emitSimple(OpForInInit, line)

	ctx := &loopCtx{label: n.Label, isLoop: true}
	c.loops = append(c.loops, ctx)

	loopAt := len(c.chunk.Code)
	exitJump := c.emit(OpForInNext, 0, 0, line)
	if err := c.compileBindingPattern(n.Left, line); err != nil {
		return err
	}
	if err := c.compileStatement(n.Body); err != nil {
		return err
	}
	c.patchJumps(ctx.continueJumps, loopAt)
	c.emit(OpJump, 0, uint16(loopAt), line)
	end := len(c.chunk.Code)
	c.chunk.Patch(exitJump, MakeInstruction(OpForInNext, 0, uint16(end)))
	c.patchJumps(ctx.breakJumps, end)
	c.emitSimple(OpForInEnd, line)

	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

func (c *Compiler) compileSwitch(n *ast.SwitchStatement) error {
	line := n.Pos().Line
	if err := c.compileExpression(n.Disc); err != nil {
		return err
	}
	ctx := &loopCtx{label: n.Label, isLoop: false}
	c.loops = append(c.loops, ctx)

	// Test each non-default case in source order; jump to its body on a
	// strict-equals match. Stack holds the discriminant throughout testing.
	var bodyJumps []int
	defaultIdx := -1
	for i, sc := range n.Cases {
		if sc.Test == nil {
			defaultIdx = i
			continue
		}
		c.emitSimple(OpDup, line)
		if err := c.compileExpression(sc.Test); err != nil {
			return err
		}
		c.emitSimple(OpStrictEq, line)
		bodyJumps = append(bodyJumps, c.emit(OpJumpIfTrue, 0, 0, line))
	}
	var toDefault, toEnd int
	if defaultIdx >= 0 {
		toDefault = c.emit(OpJump, 0, 0, line)
	} else {
		toEnd = c.emit(OpJump, 0, 0, line)
	}

	// Case bodies fall through to the next case, matching JS switch
	// semantics. bodyStarts[i] records where case i's body begins.
	bodyStarts := make([]int, len(n.Cases))
	ji := 0
	for i, sc := range n.Cases {
		skipPop := -1
		if i > 0 {
			// Falling through from case i-1: the discriminant is already
			// gone, so step over this case's OpPop.
			skipPop = c.emit(OpJump, 0, 0, line)
		}
		bodyStarts[i] = len(c.chunk.Code)
		if sc.Test != nil {
			c.chunk.Patch(bodyJumps[ji], MakeInstruction(OpJumpIfTrue, 0, uint16(bodyStarts[i])))
			ji++
		} else {
			c.chunk.Patch(toDefault, MakeInstruction(OpJump, 0, uint16(bodyStarts[i])))
		}
		c.emitSimple(OpPop, line) // discard discriminant once matched
		if skipPop >= 0 {
			c.chunk.Patch(skipPop, MakeInstruction(OpJump, 0, uint16(len(c.chunk.Code))))
		}
		for _, stmt := range sc.Body {
			if err := c.compileStatement(stmt); err != nil {
				return err
			}
		}
	}
	if defaultIdx < 0 {
		// No case matched and there is no default: pop the discriminant
		// here; falling out of the last body jumps past this pop.
		past := c.emit(OpJump, 0, 0, line)
		c.chunk.Patch(toEnd, MakeInstruction(OpJump, 0, uint16(len(c.chunk.Code))))
		c.emitSimple(OpPop, line)
		c.chunk.Patch(past, MakeInstruction(OpJump, 0, uint16(len(c.chunk.Code))))
	}
	end := len(c.chunk.Code)
	c.patchJumps(ctx.breakJumps, end)

	c.loops = c.loops[:len(c.loops)-1]
	return nil
}

func (c *Compiler) compileTry(n *ast.TryStatement) error {
	line := n.Pos().Line
	pushAt := c.emit(OpPushTry, 0, 0, line)
	info := TryInfo{HasCatch: n.CatchBlock != nil, HasFinally: n.FinallyBlock != nil}

	for _, s := range n.Block.Body {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	c.emitSimple(OpPopTry, line)
	afterTry := c.emit(OpJump, 0, 0, line)

	if n.CatchBlock != nil {
		info.CatchTarget = len(c.chunk.Code)
		if n.CatchParam != nil {
			if err := c.compileBindingPattern(n.CatchParam, line); err != nil {
				return err
			}
		} else {
			c.emitSimple(OpPop, line)
		}
		for _, s := range n.CatchBlock.Body {
			if err := c.compileStatement(s); err != nil {
				return err
			}
		}
	}
	c.chunk.Patch(afterTry, MakeInstruction(OpJump, 0, uint16(len(c.chunk.Code))))

	if n.FinallyBlock != nil {
		info.HasFinally = true
		info.FinallyTarget = len(c.chunk.Code)
		for _, s := range n.FinallyBlock.Body {
			if err := c.compileStatement(s); err != nil {
				return err
			}
		}
		c.emitSimple(OpFinallyEnd, line)
	}

	c.chunk.TryInfos[pushAt] = info
	return nil
}

func (c *Compiler) compileLabeled(n *ast.LabeledStatement) error {
	switch n.Body.(type) {
	case *ast.ForStatement, *ast.WhileStatement, *ast.DoWhileStatement,
		*ast.ForInStatement, *ast.SwitchStatement:
		// These already carry n.Label themselves (the parser threads the
		// label through), so their own compile registers the loopCtx.
		return c.compileStatement(n.Body)
	default:
		ctx := &loopCtx{label: n.Label, isLoop: false}
		c.loops = append(c.loops, ctx)
		if err := c.compileStatement(n.Body); err != nil {
			return err
		}
		c.patchJumps(ctx.breakJumps, len(c.chunk.Code))
		c.loops = c.loops[:len(c.loops)-1]
		return nil
	}
}

func (c *Compiler) patchJumps(idxs []int, target int) {
	for _, idx := range idxs {
		c.chunk.Patch(idx, MakeInstruction(OpJump, 0, uint16(target)))
	}
}
