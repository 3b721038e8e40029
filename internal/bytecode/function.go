package bytecode

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/ast"
	"github.com/cwbudde/go-njs/internal/value"
)

// maxFunctionNesting bounds closure depth (spec.md §4.2): reaching it is a
// syntax error raised at compile time, not a runtime stack-depth guard.
const maxFunctionNesting = 64

// compileFunctionInto compiles lit into a FunctionTemplate and pushes a
// function Value built from it onto the chunk's constant pool, emitting an
// OpClosure that refers to that constant. The emitted closure captures
// whatever upvalues the nested compiler resolved against c.
func (c *Compiler) compileFunctionInto(lit *ast.FunctionLiteral, name string) error {
	depth := 0
	for p := c; p != nil; p = p.parent {
		depth++
	}
	if depth > maxFunctionNesting {
		return fmt.Errorf("SyntaxError: The maximum function nesting level is \"%d\"", maxFunctionNesting)
	}

	fc := newFunctionCompiler(c, name)

	for _, p := range lit.Params {
		id, ok := p.(*ast.Identifier)
		if !ok {
			return fmt.Errorf("SyntaxError: destructured parameter patterns are not supported")
		}
		fc.declareLocal(id.Name)
	}
	hasRest := lit.RestParam != nil
	if hasRest {
		id, ok := lit.RestParam.(*ast.Identifier)
		if !ok {
			return fmt.Errorf("SyntaxError: destructured parameter patterns are not supported")
		}
		fc.declareLocal(id.Name)
	}
	if !lit.IsArrow {
		fc.declareLocal("arguments")
	}

	if lit.IsArrow && lit.ExprBody != nil {
		if err := fc.compileExpression(lit.ExprBody); err != nil {
			return err
		}
		fc.emitSimple(OpReturn, lit.Pos().Line)
	} else {
		if err := fc.hoist(lit.Body.Body); err != nil {
			return err
		}
		for _, s := range lit.Body.Body {
			if err := fc.compileStatement(s); err != nil {
				return err
			}
		}
		fc.emitSimple(OpUndefined, lit.Pos().Line)
		fc.emitSimple(OpReturn, lit.Pos().Line)
	}

	tmpl := &FunctionTemplate{
		Name:       name,
		ParamCount: len(lit.Params),
		HasRest:    hasRest,
		LocalCount: len(fc.locals),
		Chunk:      fc.chunk,
		Upvalues:   fc.upvalues,
		IsArrow:    lit.IsArrow,
	}

	fn := &value.Function{
		Name:      name,
		Arity:     len(lit.Params),
		IsClosure: len(fc.upvalues) > 0,
		Flavor:    value.FlavorBytecode,
		IsArrow:   lit.IsArrow,
		Template:  tmpl,
	}
	obj := &value.Object{Kind: value.KindFunction, Extensible: true}
	obj.Fn = fn

	idx := c.constIndex(value.FromObject(obj))
	c.emit(OpClosure, 0, idx, lit.Pos().Line)
	return nil
}
