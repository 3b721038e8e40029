package parser

import (
	"github.com/cwbudde/go-njs/internal/ast"
	"github.com/cwbudde/go-njs/internal/token"
)

// parseBindingTarget parses a binding identifier or a destructuring
// pattern, as used by `var` (including `for (var … in …)`) and catch
// clauses (spec.md §4.2); function parameters use parseParamIdent instead.
func (p *Parser) parseBindingTarget() (ast.Pattern, error) {
	switch p.cur.Kind {
	case token.LBRACK:
		return p.parseArrayPattern()
	case token.LBRACE:
		return p.parseObjectPattern()
	case token.IDENT, token.ARGUMENTS, token.EVAL:
		id := ast.IdentPattern(p.cur.Lexeme, p.cur.Pos)
		p.advance()
		return id, nil
	default:
		return nil, p.syntaxErrorf("expected binding identifier or pattern, got %q", p.cur.Lexeme)
	}
}

func (p *Parser) parseArrayPattern() (ast.Pattern, error) {
	start := p.cur.Pos
	p.advance() // '['
	pat := &ast.ArrayPattern{PatternBase: ast.PatternBase{Base: ast.At(start)}}
	for p.cur.Kind != token.RBRACK {
		if p.cur.Kind == token.COMMA {
			pat.Elements = append(pat.Elements, nil)
			p.advance()
			continue
		}
		if p.cur.Kind == token.DOTDOTDOT {
			p.advance()
			rest, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			pat.Rest = rest
			break
		}
		el, err := p.parseBindingTargetWithDefault()
		if err != nil {
			return nil, err
		}
		pat.Elements = append(pat.Elements, el)
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return pat, nil
}

func (p *Parser) parseObjectPattern() (ast.Pattern, error) {
	start := p.cur.Pos
	p.advance() // '{'
	pat := &ast.ObjectPattern{PatternBase: ast.PatternBase{Base: ast.At(start)}}
	for p.cur.Kind != token.RBRACE {
		propStart := p.cur.Pos
		if p.cur.Kind == token.DOTDOTDOT {
			p.advance()
			rest, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			pat.Rest = rest
			break
		}
		key, computed, err := p.parsePropertyKey()
		if err != nil {
			return nil, err
		}
		var value ast.Pattern
		if p.cur.Kind == token.COLON {
			p.advance()
			value, err = p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
		} else {
			id, ok := key.(*ast.IdentExpr)
			if !ok {
				return nil, p.syntaxErrorf("expected ':' after computed property key in pattern")
			}
			value = ast.IdentPattern(id.Name, id.Pos())
		}
		var def ast.Expression
		if p.cur.Kind == token.ASSIGN {
			p.advance()
			def, err = p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
		}
		pat.Props = append(pat.Props, &ast.ObjectPatternProp{
			Key: key, Computed: computed, Value: value, Default: def, Base: ast.At(propStart),
		})
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return pat, nil
}

// parseBindingTargetWithDefault parses an array-element binding that may
// carry a `= default` initializer (spec.md §4.2 destructuring defaults).
func (p *Parser) parseBindingTargetWithDefault() (ast.Pattern, error) {
	target, err := p.parseBindingTarget()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.ASSIGN {
		return target, nil
	}
	p.advance()
	def, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignPattern{Target: target, Default: def, PatternBase: ast.PatternBase{Base: ast.At(target.Pos())}}, nil
}

// exprToPattern converts an expression parsed as a potential for-in
// left-hand side into a Pattern (spec.md §4.2): only identifiers and
// array/object literal shapes are valid destructuring targets.
func exprToPattern(e ast.Expression) (ast.Pattern, error) {
	switch v := e.(type) {
	case *ast.IdentExpr:
		return ast.IdentPattern(v.Name, v.Pos()), nil
	case *ast.ArrayLiteral:
		pat := &ast.ArrayPattern{PatternBase: ast.PatternBase{Base: ast.At(v.Pos())}}
		for _, el := range v.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if spread, ok := el.(*ast.SpreadElement); ok {
				rest, err := exprToPattern(spread.Arg)
				if err != nil {
					return nil, err
				}
				pat.Rest = rest
				continue
			}
			sub, err := exprToPattern(el)
			if err != nil {
				return nil, err
			}
			pat.Elements = append(pat.Elements, sub)
		}
		return pat, nil
	case *ast.ObjectLiteral:
		pat := &ast.ObjectPattern{PatternBase: ast.PatternBase{Base: ast.At(v.Pos())}}
		for _, prop := range v.Props {
			if prop.Kind == "spread" {
				rest, err := exprToPattern(prop.Value)
				if err != nil {
					return nil, err
				}
				pat.Rest = rest
				continue
			}
			sub, err := exprToPattern(prop.Value)
			if err != nil {
				return nil, err
			}
			pat.Props = append(pat.Props, &ast.ObjectPatternProp{
				Key: prop.Key, Computed: prop.Computed, Value: sub, Base: prop.Base,
			})
		}
		return pat, nil
	default:
		return nil, &patternConversionError{e}
	}
}

type patternConversionError struct{ e ast.Expression }

func (err *patternConversionError) Error() string {
	return "SyntaxError: invalid destructuring assignment target"
}
