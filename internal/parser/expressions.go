package parser

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-njs/internal/ast"
	"github.com/cwbudde/go-njs/internal/token"
)

// parseExpression parses a full expression, including top-level comma
// sequences (spec.md §4.2 expression grammar).
func (p *Parser) parseExpression() (ast.Expression, error) {
	start := p.cur.Pos
	first, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.COMMA {
		return first, nil
	}
	exprs := []ast.Expression{first}
	for p.cur.Kind == token.COMMA {
		p.advance()
		e, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &ast.SequenceExpr{Exprs: exprs, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
}

var assignOps = map[token.Kind]string{
	token.ASSIGN: "=", token.PLUS_ASSIGN: "+=", token.MINUS_ASSIGN: "-=",
	token.STAR_ASSIGN: "*=", token.SLASH_ASSIGN: "/=", token.PERCENT_ASSIGN: "%=",
	token.STARSTAR_ASSIGN: "**=", token.SHL_ASSIGN: "<<=", token.SHR_ASSIGN: ">>=",
	token.USHR_ASSIGN: ">>>=", token.BAND_ASSIGN: "&=", token.BOR_ASSIGN: "|=",
	token.BXOR_ASSIGN: "^=", token.AND_ASSIGN: "&&=", token.OR_ASSIGN: "||=",
}

// parseAssignExpr handles `=` and compound assignment (right-associative)
// and falls through to arrow detection / the conditional operator
// (spec.md §4.2).
func (p *Parser) parseAssignExpr() (ast.Expression, error) {
	if arrow, ok, err := p.tryParseArrow(); err != nil {
		return nil, err
	} else if ok {
		return arrow, nil
	}

	start := p.cur.Pos
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if op, ok := assignOps[p.cur.Kind]; ok {
		if !isAssignTarget(left) {
			return nil, p.syntaxErrorf("invalid assignment target")
		}
		p.advance()
		right, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Op: op, Target: left, Value: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	}
	return left, nil
}

func isAssignTarget(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IdentExpr, *ast.MemberExpr, *ast.ArrayLiteral, *ast.ObjectLiteral:
		return true
	}
	return false
}

// tryParseArrow speculatively parses an arrow-function head. Both
// `ident => ...` and `(params) => ...` are ambiguous with a parenthesized
// expression until the `=>` is (or isn't) found, so a parenthesized
// candidate is parsed under a mark/reset pair (spec.md §4.2 arrow
// functions).
func (p *Parser) tryParseArrow() (ast.Expression, bool, error) {
	start := p.cur.Pos
	if p.cur.Kind == token.IDENT && p.peek.Kind == token.ARROW {
		param := ast.IdentPattern(p.cur.Lexeme, p.cur.Pos)
		p.advance() // ident
		p.advance() // =>
		body, expr, err := p.parseArrowBody()
		if err != nil {
			return nil, false, err
		}
		return &ast.FunctionLiteral{
			Params: []ast.Pattern{param}, Body: body, ExprBody: expr, IsArrow: true,
			ExprBase: ast.ExprBase{Base: ast.At(start)},
		}, true, nil
	}
	if p.cur.Kind != token.LPAREN {
		return nil, false, nil
	}

	m := p.mark()
	params, rest, err := p.parseParamList()
	if err != nil || p.cur.Kind != token.ARROW {
		p.reset(m)
		return nil, false, nil
	}
	p.advance() // =>
	body, expr, err := p.parseArrowBody()
	if err != nil {
		return nil, false, err
	}
	return &ast.FunctionLiteral{
		Params: params, RestParam: rest, Body: body, ExprBody: expr, IsArrow: true,
		ExprBase: ast.ExprBase{Base: ast.At(start)},
	}, true, nil
}

func (p *Parser) parseArrowBody() (*ast.BlockStatement, ast.Expression, error) {
	if p.cur.Kind == token.LBRACE {
		p.funcDepth++
		savedLoop, savedSwitch := p.loopDepth, p.switchDep
		p.loopDepth, p.switchDep = 0, 0
		body, err := p.parseBlock()
		p.loopDepth, p.switchDep = savedLoop, savedSwitch
		p.funcDepth--
		return body, nil, err
	}
	expr, err := p.parseAssignExpr()
	return nil, expr, err
}

func (p *Parser) parseConditional() (ast.Expression, error) {
	start := p.cur.Pos
	test, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.QUESTION {
		return test, nil
	}
	p.advance()
	cons, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	alt, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpr{Test: test, Cons: cons, Alt: alt, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.OR {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Op: "||", Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.AND {
		p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Op: "&&", Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
	return left, nil
}

func (p *Parser) parseBitOr() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.BOR {
		p.advance()
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "|", Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
	return left, nil
}

func (p *Parser) parseBitXor() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.BXOR {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "^", Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.BAND {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "&", Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
	return left, nil
}

var equalityOps = map[token.Kind]string{
	token.EQ: "==", token.NEQ: "!=", token.SEQ: "===", token.SNEQ: "!==",
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := equalityOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
}

var relationalOps = map[token.Kind]string{
	token.LT: "<", token.GT: ">", token.LE: "<=", token.GE: ">=",
	token.INSTANCEOF: "instanceof", token.IN: "in",
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := relationalOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
}

var shiftOps = map[token.Kind]string{
	token.SHL: "<<", token.SHR: ">>", token.USHR: ">>>",
}

func (p *Parser) parseShift() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := shiftOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		op := "+"
		if p.cur.Kind == token.MINUS {
			op = "-"
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
	return left, nil
}

var multiplicativeOps = map[token.Kind]string{
	token.STAR: "*", token.SLASH: "/", token.PERCENT: "%",
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}
	}
}

// parseExponent is right-associative: `2 ** 3 ** 2` is `2 ** (3 ** 2)`.
func (p *Parser) parseExponent() (ast.Expression, error) {
	start := p.cur.Pos
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.STARSTAR {
		return left, nil
	}
	p.advance()
	right, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Op: "**", Left: left, Right: right, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
}

var unaryOps = map[token.Kind]string{
	token.NOT: "!", token.BNOT: "~", token.PLUS: "+", token.MINUS: "-",
	token.TYPEOF: "typeof", token.VOID: "void", token.DELETE: "delete",
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	start := p.cur.Pos
	if op, ok := unaryOps[p.cur.Kind]; ok {
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "delete" {
			if _, ok := arg.(*ast.IdentExpr); ok {
				return nil, p.syntaxErrorf("delete of an unqualified identifier is not allowed")
			}
		}
		return &ast.UnaryExpr{Op: op, Arg: arg, Prefix: true, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	}
	if p.cur.Kind == token.PLUSPLUS || p.cur.Kind == token.MINUSMINUS {
		op := "++"
		if p.cur.Kind == token.MINUSMINUS {
			op = "--"
		}
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !isAssignTarget(arg) {
			return nil, p.syntaxErrorf("invalid increment/decrement operand")
		}
		return &ast.UpdateExpr{Op: op, Arg: arg, Prefix: true, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	start := p.cur.Pos
	arg, err := p.parseCallOrMember()
	if err != nil {
		return nil, err
	}
	if !p.cur.NewLine && (p.cur.Kind == token.PLUSPLUS || p.cur.Kind == token.MINUSMINUS) {
		op := "++"
		if p.cur.Kind == token.MINUSMINUS {
			op = "--"
		}
		if !isAssignTarget(arg) {
			return nil, p.syntaxErrorf("invalid increment/decrement operand")
		}
		p.advance()
		return &ast.UpdateExpr{Op: op, Arg: arg, Prefix: false, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	}
	return arg, nil
}

// parseCallOrMember parses `new`, member access (`.`/`[]`), and call
// chains left to right (spec.md §4.2).
func (p *Parser) parseCallOrMember() (ast.Expression, error) {
	start := p.cur.Pos
	var e ast.Expression
	var err error
	if p.cur.Kind == token.NEW {
		e, err = p.parseNew()
	} else {
		e, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.DOT:
			p.advance()
			if p.cur.Kind != token.IDENT && !p.cur.Kind.IsKeyword() {
				return nil, p.syntaxErrorf("expected property name after '.'")
			}
			name := p.cur.Lexeme
			namePos := p.cur.Pos
			p.advance()
			e = &ast.MemberExpr{
				Object: e, Property: &ast.IdentExpr{Name: name, ExprBase: ast.ExprBase{Base: ast.At(namePos)}},
				ExprBase: ast.ExprBase{Base: ast.At(start)},
			}
		case token.LBRACK:
			p.advance()
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			e = &ast.MemberExpr{Object: e, Property: prop, Computed: true, ExprBase: ast.ExprBase{Base: ast.At(start)}}
		case token.LPAREN:
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			e = &ast.CallExpr{Callee: e, Args: args, ExprBase: ast.ExprBase{Base: ast.At(start)}}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseNew() (ast.Expression, error) {
	start := p.cur.Pos
	p.advance() // 'new'
	var callee ast.Expression
	var err error
	if p.cur.Kind == token.NEW {
		callee, err = p.parseNew()
	} else {
		callee, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.DOT:
			p.advance()
			name := p.cur.Lexeme
			namePos := p.cur.Pos
			p.advance()
			callee = &ast.MemberExpr{
				Object: callee, Property: &ast.IdentExpr{Name: name, ExprBase: ast.ExprBase{Base: ast.At(namePos)}},
				ExprBase: ast.ExprBase{Base: ast.At(start)},
			}
		case token.LBRACK:
			p.advance()
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			callee = &ast.MemberExpr{Object: callee, Property: prop, Computed: true, ExprBase: ast.ExprBase{Base: ast.At(start)}}
		default:
			var args []ast.Expression
			if p.cur.Kind == token.LPAREN {
				args, err = p.parseArguments()
				if err != nil {
					return nil, err
				}
			}
			return &ast.NewExpr{Callee: callee, Args: args, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
		}
	}
}

func (p *Parser) parseArguments() ([]ast.Expression, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.cur.Kind != token.RPAREN {
		if p.cur.Kind == token.DOTDOTDOT {
			spreadStart := p.cur.Pos
			p.advance()
			arg, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, &ast.SpreadElement{Arg: arg, ExprBase: ast.ExprBase{Base: ast.At(spreadStart)}})
		} else {
			arg, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.NUMBER:
		n, err := parseNumberLexeme(p.cur.Lexeme)
		if err != nil {
			return nil, p.syntaxErrorf("%s", err)
		}
		p.advance()
		return &ast.NumberLiteral{Value: n, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.STRING:
		v := p.cur.Value
		p.advance()
		return &ast.StringLiteral{Value: v, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.TRUE, token.FALSE:
		b := p.cur.Kind == token.TRUE
		p.advance()
		return &ast.BoolLiteral{Value: b, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.THIS:
		p.advance()
		return &ast.ThisExpr{ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.IDENT, token.ARGUMENTS, token.EVAL:
		name := p.cur.Lexeme
		p.advance()
		return &ast.IdentExpr{Name: name, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.REGEXP:
		pat, flags := splitRegexp(p.cur.Lexeme)
		p.advance()
		return &ast.RegexpLiteral{Pattern: pat, Flags: flags, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.TEMPLATE_FULL:
		v := p.cur.Value
		p.advance()
		return &ast.TemplateLiteral{Quasis: []string{v}, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
	case token.TEMPLATE_HEAD:
		return p.parseTemplateLiteral(start)
	case token.FUNCTION:
		fn, err := p.parseFunctionLiteral(false)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case token.LBRACK:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.syntaxErrorf("unexpected token %q", p.cur.Lexeme)
	}
}

func (p *Parser) parseTemplateLiteral(start token.Position) (ast.Expression, error) {
	tmpl := &ast.TemplateLiteral{ExprBase: ast.ExprBase{Base: ast.At(start)}}
	tmpl.Quasis = append(tmpl.Quasis, p.cur.Value)
	p.advance() // TEMPLATE_HEAD
	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		tmpl.Exprs = append(tmpl.Exprs, e)
		switch p.cur.Kind {
		case token.TEMPLATE_MIDDLE:
			tmpl.Quasis = append(tmpl.Quasis, p.cur.Value)
			p.advance()
			continue
		case token.TEMPLATE_TAIL:
			tmpl.Quasis = append(tmpl.Quasis, p.cur.Value)
			p.advance()
			return tmpl, nil
		default:
			return nil, p.syntaxErrorf("unterminated template literal substitution")
		}
	}
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	start := p.cur.Pos
	p.advance() // '['
	var elems []ast.Expression
	for p.cur.Kind != token.RBRACK {
		if p.cur.Kind == token.COMMA {
			elems = append(elems, nil) // elision
			p.advance()
			continue
		}
		if p.cur.Kind == token.DOTDOTDOT {
			spreadStart := p.cur.Pos
			p.advance()
			arg, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, &ast.SpreadElement{Arg: arg, ExprBase: ast.ExprBase{Base: ast.At(spreadStart)}})
		} else {
			e, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elements: elems, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseObjectLiteral() (ast.Expression, error) {
	start := p.cur.Pos
	p.advance() // '{'
	obj := &ast.ObjectLiteral{ExprBase: ast.ExprBase{Base: ast.At(start)}}
	for p.cur.Kind != token.RBRACE {
		propStart := p.cur.Pos
		if p.cur.Kind == token.DOTDOTDOT {
			p.advance()
			arg, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			obj.Props = append(obj.Props, &ast.ObjectProp{Value: arg, Kind: "spread", Base: ast.At(propStart)})
			if p.cur.Kind == token.COMMA {
				p.advance()
				continue
			}
			break
		}

		kind := "init"
		if (p.cur.Kind == token.IDENT) && (p.cur.Lexeme == "get" || p.cur.Lexeme == "set") &&
			p.peek.Kind != token.COMMA && p.peek.Kind != token.COLON && p.peek.Kind != token.RBRACE && p.peek.Kind != token.LPAREN {
			kind = p.cur.Lexeme
			p.advance()
		}

		key, computed, err := p.parsePropertyKey()
		if err != nil {
			return nil, err
		}

		var value ast.Expression
		switch {
		case kind == "get" || kind == "set":
			fn, err := p.parseMethodBody()
			if err != nil {
				return nil, err
			}
			value = fn
		case p.cur.Kind == token.LPAREN:
			fn, err := p.parseMethodBody()
			if err != nil {
				return nil, err
			}
			value = fn
		case p.cur.Kind == token.COLON:
			p.advance()
			value, err = p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
		default:
			// shorthand `{ x }`
			id, ok := key.(*ast.IdentExpr)
			if !ok {
				return nil, p.syntaxErrorf("expected ':' after property key")
			}
			value = &ast.IdentExpr{Name: id.Name, ExprBase: id.ExprBase}
		}

		obj.Props = append(obj.Props, &ast.ObjectProp{Key: key, Computed: computed, Value: value, Kind: kind, Base: ast.At(propStart)})
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return obj, nil
}

// parsePropertyKey parses an identifier, string, number, or computed
// (`[expr]`) object/class property key.
func (p *Parser) parsePropertyKey() (ast.Expression, bool, error) {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.LBRACK:
		p.advance()
		e, err := p.parseAssignExpr()
		if err != nil {
			return nil, false, err
		}
		if _, err := p.expect(token.RBRACK); err != nil {
			return nil, false, err
		}
		return e, true, nil
	case token.STRING:
		v := p.cur.Value
		p.advance()
		return &ast.StringLiteral{Value: v, ExprBase: ast.ExprBase{Base: ast.At(start)}}, false, nil
	case token.NUMBER:
		n, err := parseNumberLexeme(p.cur.Lexeme)
		if err != nil {
			return nil, false, p.syntaxErrorf("%s", err)
		}
		p.advance()
		return &ast.NumberLiteral{Value: n, ExprBase: ast.ExprBase{Base: ast.At(start)}}, false, nil
	default:
		name := p.cur.Lexeme
		p.advance()
		return &ast.IdentExpr{Name: name, ExprBase: ast.ExprBase{Base: ast.At(start)}}, false, nil
	}
}

// parseMethodBody parses `(params) { body }` as used by object-literal
// methods and get/set accessors, producing an unnamed FunctionLiteral.
func (p *Parser) parseMethodBody() (*ast.FunctionLiteral, error) {
	start := p.cur.Pos
	params, rest, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	p.funcDepth++
	if p.funcDepth > maxFunctionNesting {
		return nil, p.syntaxErrorf("The maximum function nesting level is \"%d\"", maxFunctionNesting)
	}
	savedLoop, savedSwitch := p.loopDepth, p.switchDep
	p.loopDepth, p.switchDep = 0, 0
	body, err := p.parseBlock()
	p.loopDepth, p.switchDep = savedLoop, savedSwitch
	p.funcDepth--
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLiteral{Params: params, RestParam: rest, Body: body, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
}

func splitRegexp(lexeme string) (pattern, flags string) {
	last := strings.LastIndexByte(lexeme, '/')
	return lexeme[1:last], lexeme[last+1:]
}

// parseNumberLexeme converts the raw lexeme numbers.go captured (decimal,
// hex, binary, or octal) into a float64. Radix-aware parsing is deferred
// from the lexer to here, the first consumer that actually needs a value
// rather than raw text.
func parseNumberLexeme(lexeme string) (float64, error) {
	if len(lexeme) > 2 && lexeme[0] == '0' {
		switch lexeme[1] {
		case 'x', 'X':
			n, err := strconv.ParseUint(lexeme[2:], 16, 64)
			return float64(n), err
		case 'b', 'B':
			n, err := strconv.ParseUint(lexeme[2:], 2, 64)
			return float64(n), err
		case 'o', 'O':
			n, err := strconv.ParseUint(lexeme[2:], 8, 64)
			return float64(n), err
		}
	}
	return strconv.ParseFloat(lexeme, 64)
}
