package parser

import (
	"github.com/cwbudde/go-njs/internal/ast"
	"github.com/cwbudde/go-njs/internal/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR:
		return p.parseVarStatement()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor("")
	case token.WHILE:
		return p.parseWhile("")
	case token.DO:
		return p.parseDoWhile("")
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch("")
	case token.FUNCTION:
		return p.parseFunctionDecl()
	case token.SEMICOLON:
		p.advance()
		return &ast.EmptyStatement{}, p.err
	default:
		if p.cur.Kind == token.IDENT && p.peek.Kind == token.COLON {
			return p.parseLabeled()
		}
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consumeSemicolon(); err != nil {
			return nil, err
		}
		return &ast.ExprStatement{X: x, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
	}
}

func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	start := p.cur.Pos
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var body []ast.Statement
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Body: body, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseVarStatement() (*ast.VarDecl, error) {
	start := p.cur.Pos
	p.advance() // 'var'
	decl := &ast.VarDecl{StmtBase: ast.StmtBase{Base: ast.At(start)}}
	for {
		target, err := p.parseBindingTarget()
		if err != nil {
			return nil, err
		}
		var init ast.Expression
		if p.cur.Kind == token.ASSIGN {
			p.advance()
			init, err = p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
		}
		decl.Decls = append(decl.Decls, &ast.VarDeclarator{Target: target, Init: init})
		if p.cur.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	if err := p.consumeSemicolon(); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var els ast.Statement
	if p.cur.Kind == token.ELSE {
		p.advance()
		els, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{Cond: cond, Then: then, Else: els, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseFor(label string) (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	p.loopDepth++
	defer func() { p.loopDepth-- }()

	var initDecl *ast.VarDecl
	var initExpr ast.Expression

	if p.cur.Kind == token.VAR {
		varStart := p.cur.Pos
		p.advance()
		target, err := p.parseBindingTarget()
		if err != nil {
			return nil, err
		}
		if p.cur.Kind == token.IN {
			p.advance()
			right, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return &ast.ForInStatement{Decl: true, Left: target, Right: right, Body: body, Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
		}
		decl := &ast.VarDecl{StmtBase: ast.StmtBase{Base: ast.At(varStart)}}
		var initVal ast.Expression
		if p.cur.Kind == token.ASSIGN {
			p.advance()
			initVal, err = p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
		}
		decl.Decls = append(decl.Decls, &ast.VarDeclarator{Target: target, Init: initVal})
		for p.cur.Kind == token.COMMA {
			p.advance()
			t2, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			var i2 ast.Expression
			if p.cur.Kind == token.ASSIGN {
				p.advance()
				i2, err = p.parseAssignExpr()
				if err != nil {
					return nil, err
				}
			}
			decl.Decls = append(decl.Decls, &ast.VarDeclarator{Target: t2, Init: i2})
		}
		initDecl = decl
	} else if p.cur.Kind != token.SEMICOLON {
		var err error
		initExpr, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.cur.Kind == token.IN {
			p.advance()
			right, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			target, err := exprToPattern(initExpr)
			if err != nil {
				return nil, err
			}
			return &ast.ForInStatement{Left: target, Right: right, Body: body, Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
		}
	}

	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	var cond ast.Expression
	if p.cur.Kind != token.SEMICOLON {
		var err error
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	var update ast.Expression
	if p.cur.Kind != token.RPAREN {
		var err error
		update, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var initNode ast.Node
	if initDecl != nil {
		initNode = initDecl
	} else if initExpr != nil {
		initNode = initExpr
	}
	return &ast.ForStatement{Init: initNode, Cond: cond, Update: update, Body: body, Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseWhile(label string) (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.parseStatement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Cond: cond, Body: body, Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseDoWhile(label string) (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	p.loopDepth++
	body, err := p.parseStatement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	_ = p.consumeSemicolon()
	return &ast.DoWhileStatement{Body: body, Cond: cond, Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseBreak() (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	label := ""
	if p.cur.Kind == token.IDENT && !p.cur.NewLine {
		label = p.cur.Lexeme
		p.advance()
	} else if p.loopDepth == 0 && p.switchDep == 0 {
		return nil, p.syntaxErrorf("illegal break statement")
	}
	_ = p.consumeSemicolon()
	return &ast.BreakStatement{Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseContinue() (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	label := ""
	if p.cur.Kind == token.IDENT && !p.cur.NewLine {
		label = p.cur.Lexeme
		p.advance()
	}
	if p.loopDepth == 0 {
		return nil, p.syntaxErrorf("illegal continue statement")
	}
	_ = p.consumeSemicolon()
	return &ast.ContinueStatement{Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	start := p.cur.Pos
	if p.funcDepth == 0 {
		return nil, p.syntaxErrorf("illegal return statement")
	}
	p.advance()
	var arg ast.Expression
	if p.cur.Kind != token.SEMICOLON && p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF && !p.cur.NewLine {
		var err error
		arg, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	_ = p.consumeSemicolon()
	return &ast.ReturnStatement{Arg: arg, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseThrow() (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	if p.cur.NewLine {
		return nil, p.syntaxErrorf("illegal newline after throw")
	}
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	_ = p.consumeSemicolon()
	return &ast.ThrowStatement{Arg: arg, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseTry() (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	ts := &ast.TryStatement{Block: block, StmtBase: ast.StmtBase{Base: ast.At(start)}}
	if p.cur.Kind == token.CATCH {
		p.advance()
		if p.cur.Kind == token.LPAREN {
			p.advance()
			param, err := p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			ts.CatchParam = param
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		cb, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		ts.CatchBlock = cb
	}
	if p.cur.Kind == token.FINALLY {
		p.advance()
		fb, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		ts.FinallyBlock = fb
	}
	if ts.CatchBlock == nil && ts.FinallyBlock == nil {
		return nil, p.syntaxErrorf("missing catch or finally after try")
	}
	return ts, nil
}

func (p *Parser) parseSwitch(label string) (ast.Statement, error) {
	start := p.cur.Pos
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	disc, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.switchDep++
	defer func() { p.switchDep-- }()

	sw := &ast.SwitchStatement{Disc: disc, Label: label, StmtBase: ast.StmtBase{Base: ast.At(start)}}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		caseStart := p.cur.Pos
		var test ast.Expression
		if p.cur.Kind == token.CASE {
			p.advance()
			test, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		} else if p.cur.Kind == token.DEFAULT {
			p.advance()
		} else {
			return nil, p.syntaxErrorf("expected 'case' or 'default'")
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		sc := &ast.SwitchCase{Test: test, Base: ast.At(caseStart)}
		for p.cur.Kind != token.CASE && p.cur.Kind != token.DEFAULT && p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
			s, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			sc.Body = append(sc.Body, s)
		}
		sw.Cases = append(sw.Cases, sc)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return sw, nil
}

func (p *Parser) parseLabeled() (ast.Statement, error) {
	start := p.cur.Pos
	label := p.cur.Lexeme
	if p.labels[label] {
		return nil, p.syntaxErrorf("label %q has already been declared", label)
	}
	p.advance() // ident
	p.advance() // ':'
	p.labels[label] = true
	defer delete(p.labels, label)

	var body ast.Statement
	var err error
	switch p.cur.Kind {
	case token.FOR:
		body, err = p.parseFor(label)
	case token.WHILE:
		body, err = p.parseWhile(label)
	case token.DO:
		body, err = p.parseDoWhile(label)
	case token.SWITCH:
		body, err = p.parseSwitch(label)
	default:
		body, err = p.parseStatement()
	}
	if err != nil {
		return nil, err
	}
	return &ast.LabeledStatement{Label: label, Body: body, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseFunctionDecl() (ast.Statement, error) {
	start := p.cur.Pos
	fn, err := p.parseFunctionLiteral(true)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Fn: fn, StmtBase: ast.StmtBase{Base: ast.At(start)}}, nil
}

func (p *Parser) parseFunctionLiteral(declaration bool) (*ast.FunctionLiteral, error) {
	start := p.cur.Pos
	p.advance() // 'function'
	name := ""
	if p.cur.Kind == token.IDENT {
		name = p.cur.Lexeme
		p.advance()
	} else if declaration {
		return nil, p.syntaxErrorf("function statement requires a name")
	}
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
	return &ast.FunctionLiteral{Name: name, Params: params, RestParam: rest, Body: body, ExprBase: ast.ExprBase{Base: ast.At(start)}}, nil
}

// parseParamList parses `(a, b, ...rest)`. Destructured parameter patterns
// are not supported; only a plain identifier, or a final rest identifier,
// is a valid formal (spec.md §4.2). Duplicate formal names are a syntax
// error.
func (p *Parser) parseParamList() ([]ast.Pattern, ast.Pattern, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, nil, err
	}
	var params []ast.Pattern
	var rest ast.Pattern
	seen := map[string]bool{}
	for p.cur.Kind != token.RPAREN {
		if p.cur.Kind == token.DOTDOTDOT {
			p.advance()
			r, err := p.parseParamIdent()
			if err != nil {
				return nil, nil, err
			}
			rest = r
			break // rest parameter must be the last formal
		}
		t, err := p.parseParamIdent()
		if err != nil {
			return nil, nil, err
		}
		if seen[t.Name] {
			return nil, nil, p.syntaxErrorf("duplicate formal parameter %q", t.Name)
		}
		seen[t.Name] = true
		params = append(params, t)
		if p.cur.Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, nil, err
	}
	return params, rest, nil
}

// parseParamIdent parses a single formal parameter name. Array/object
// destructuring patterns are rejected here even though parseBindingTarget
// (used for `var`, catch clauses, and for-in targets) accepts them.
func (p *Parser) parseParamIdent() (*ast.Identifier, error) {
	switch p.cur.Kind {
	case token.IDENT, token.ARGUMENTS, token.EVAL:
		id := ast.IdentPattern(p.cur.Lexeme, p.cur.Pos)
		p.advance()
		return id, nil
	case token.LBRACK, token.LBRACE:
		return nil, p.syntaxErrorf("destructured parameter patterns are not supported")
	default:
		return nil, p.syntaxErrorf("expected parameter name, got %q", p.cur.Lexeme)
	}
}
