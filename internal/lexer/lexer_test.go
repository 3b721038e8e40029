package lexer

import (
	"testing"

	"github.com/cwbudde/go-njs/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New([]byte(src), Options{})
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := lexAll(t, "var x = function foo() { return x; }")
	want := []token.Kind{
		token.VAR, token.IDENT, token.ASSIGN, token.FUNCTION, token.IDENT,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RETURN, token.IDENT,
		token.SEMICOLON, token.RBRACE, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexNumbers(t *testing.T) {
	cases := []string{"0", "123", "0x1F", "0b101", "0o17", "1.5e10", "3.14"}
	for _, c := range cases {
		toks := lexAll(t, c)
		if toks[0].Kind != token.NUMBER || toks[0].Lexeme != c {
			t.Errorf("lexing %q: got %+v", c, toks[0])
		}
	}
}

func TestLexLegacyOctalRejected(t *testing.T) {
	l := New([]byte("017"), Options{})
	if _, err := l.Next(); err == nil {
		t.Fatal("expected syntax error for legacy octal literal")
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\tc"`)
	if toks[0].Value != "a\nb\tc" {
		t.Errorf("got %q", toks[0].Value)
	}
}

func TestLexTemplateLiteral(t *testing.T) {
	toks := lexAll(t, "`hi ${x} there`")
	if toks[0].Kind != token.TEMPLATE_HEAD {
		t.Fatalf("expected TEMPLATE_HEAD, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.IDENT {
		t.Fatalf("expected IDENT for x, got %v", toks[1].Kind)
	}
	if toks[2].Kind != token.TEMPLATE_TAIL {
		t.Fatalf("expected TEMPLATE_TAIL, got %v", toks[2].Kind)
	}
}

func TestLexRegexpContextual(t *testing.T) {
	toks := lexAll(t, "x = /abc/g")
	if toks[2].Kind != token.REGEXP {
		t.Fatalf("expected REGEXP, got %v (%q)", toks[2].Kind, toks[2].Lexeme)
	}

	toks2 := lexAll(t, "a / b")
	if toks2[1].Kind != token.SLASH {
		t.Fatalf("expected SLASH after identifier, got %v", toks2[1].Kind)
	}
}

func TestLexAutomaticSemicolonNewlineFlag(t *testing.T) {
	toks := lexAll(t, "a\nb")
	if toks[0].NewLine {
		t.Errorf("token 'a' should not have NewLine set")
	}
	if toks[1].Lexeme != "b" || !toks[1].NewLine {
		t.Errorf("expected 'b' token with NewLine=true, got %+v", toks[1])
	}
}
