// Package parser implements a recursive-descent ECMAScript parser that
// produces an ast.Program (spec.md §4.2). Scope and closure resolution is
// done by internal/bytecode's compiler, not here.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-njs/internal/ast"
	"github.com/cwbudde/go-njs/internal/lexer"
	"github.com/cwbudde/go-njs/internal/token"
)

// maxFunctionNesting bounds function-in-function depth; exceeding it is a
// syntax error with the exact message spec.md §4.2 specifies.
const maxFunctionNesting = 512

// Parser turns a token stream into an ast.Program.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
	err  error
	src  string
	file string

	funcDepth int
	labels    map[string]bool
	loopDepth int
	switchDep int
}

// New creates a Parser over src.
func New(src []byte, file string, opts lexer.Options) *Parser {
	p := &Parser{lex: lexer.New(src, opts), src: string(src), file: file, labels: map[string]bool{}}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	p.cur = p.peek
	t, err := p.lex.Next()
	if err != nil {
		p.err = err
		return
	}
	p.peek = t
}

func (p *Parser) syntaxErrorf(format string, args ...any) error {
	return fmt.Errorf("SyntaxError: %s (line %d)", fmt.Sprintf(format, args...), p.cur.Pos.Line)
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		return token.Token{}, p.syntaxErrorf("expected %s, got %q", k, p.cur.Lexeme)
	}
	t := p.cur
	p.advance()
	return t, p.err
}

// consumeSemicolon implements automatic semicolon insertion: an explicit
// `;`, a `}` or EOF, or a line terminator before the next token all
// terminate a statement (spec.md §4.1 ASI rules).
func (p *Parser) consumeSemicolon() error {
	if p.cur.Kind == token.SEMICOLON {
		p.advance()
		return p.err
	}
	if p.cur.Kind == token.RBRACE || p.cur.Kind == token.EOF || p.cur.NewLine {
		return nil
	}
	return p.syntaxErrorf("expected ';', got %q", p.cur.Lexeme)
}

// ParseProgram parses a full compilation unit.
func ParseProgram(src []byte, file string, opts lexer.Options) (*ast.Program, error) {
	p := New(src, file, opts)
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		if p.err != nil {
			return nil, p.err
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, s)
	}
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

func pos(t token.Token) token.Position { return t.Pos }

// mark/reset support the bounded backtracking arrow-function detection
// needs: `(` may start either a parenthesized expression or an arrow
// parameter list, and the two aren't distinguishable until `=>` is seen
// past the matching `)`.
type mark struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
	err  error
}

func (p *Parser) mark() mark {
	return mark{lex: p.lex.Clone(), cur: p.cur, peek: p.peek, err: p.err}
}

func (p *Parser) reset(m mark) {
	p.lex = m.lex
	p.cur = m.cur
	p.peek = m.peek
	p.err = m.err
}
