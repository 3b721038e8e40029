package lexer

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-njs/internal/token"
)

// scanString implements spec.md §4.1's string-literal escapes, line
// continuations, and the "unterminated literal is a syntax error" rule.
func (l *Lexer) scanString(quote rune, start token.Position, newline bool) (token.Token, error) {
	l.advanceRune() // opening quote
	var raw, cooked strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, synErr(start, "unterminated string literal")
		}
		r, _ := l.decodeRune()
		if r == quote {
			l.advanceRune()
			break
		}
		if isLineTerminator(r) {
			return token.Token{}, synErr(start, "unterminated string literal (raw newline)")
		}
		if r == '\\' {
			l.advanceRune()
			raw.WriteByte('\\')
			if err := l.scanEscape(&raw, &cooked); err != nil {
				return token.Token{}, err
			}
			continue
		}
		raw.WriteRune(r)
		cooked.WriteRune(r)
		l.advanceRune()
	}
	t := l.emit(token.STRING, raw.String(), start, newline)
	t.Value = cooked.String()
	return t, nil
}

// scanEscape consumes one backslash escape sequence (the leading backslash
// has already been consumed) and writes the cooked rune(s) to cooked and the
// original text to raw. Implements spec.md §4.1's escape table, including
// line-continuation forms; a `\u` escape naming a surrogate is accepted
// (see scanUnicodeEscape).
func (l *Lexer) scanEscape(raw, cooked *strings.Builder) error {
	if l.atEnd() {
		return synErr(l.pos(), "unterminated escape sequence")
	}
	r, _ := l.decodeRune()
	switch r {
	case 'n':
		raw.WriteByte('n')
		cooked.WriteByte('\n')
		l.advanceRune()
	case 'r':
		raw.WriteByte('r')
		cooked.WriteByte('\r')
		l.advanceRune()
	case 't':
		raw.WriteByte('t')
		cooked.WriteByte('\t')
		l.advanceRune()
	case 'b':
		raw.WriteByte('b')
		cooked.WriteByte('\b')
		l.advanceRune()
	case 'f':
		raw.WriteByte('f')
		cooked.WriteByte('\f')
		l.advanceRune()
	case 'v':
		raw.WriteByte('v')
		cooked.WriteByte('\v')
		l.advanceRune()
	case '0':
		raw.WriteByte('0')
		cooked.WriteByte(0)
		l.advanceRune()
	case '\'', '"', '\\':
		raw.WriteRune(r)
		cooked.WriteRune(r)
		l.advanceRune()
	case '\n':
		raw.WriteByte('\n')
		l.advanceRune() // line continuation: produces no character
	case '\r':
		raw.WriteByte('\r')
		l.advanceRune()
		if l.peekByte(0) == '\n' {
			raw.WriteByte('\n')
			l.advanceRune()
		}
	case ' ', ' ':
		raw.WriteRune(r)
		l.advanceRune()
	case 'x':
		raw.WriteByte('x')
		l.advanceRune()
		digits := l.offset
		v, err := l.readHex(2)
		if err != nil {
			return err
		}
		raw.Write(l.src[digits:l.offset])
		cooked.WriteRune(rune(v))
	case 'u':
		raw.WriteByte('u')
		l.advanceRune()
		return l.scanUnicodeEscape(raw, cooked)
	default:
		raw.WriteRune(r)
		cooked.WriteRune(r)
		l.advanceRune()
	}
	return nil
}

func (l *Lexer) scanUnicodeEscape(raw, cooked *strings.Builder) error {
	if l.peekByte(0) == '{' {
		raw.WriteByte('{')
		l.advanceRune()
		var digits strings.Builder
		for isHexDigit(l.peekByte(0)) {
			digits.WriteByte(l.peekByte(0))
			l.advanceRune()
		}
		if l.peekByte(0) != '}' {
			return synErr(l.pos(), "invalid Unicode escape sequence")
		}
		raw.WriteString(digits.String())
		raw.WriteByte('}')
		l.advanceRune()
		v, err := strconv.ParseInt(digits.String(), 16, 64)
		if err != nil || v > 0x10FFFF {
			return synErr(l.pos(), "invalid Unicode escape sequence")
		}
		cooked.WriteRune(rune(v))
		return nil
	}
	digits := l.offset
	v, err := l.readHex(4)
	if err != nil {
		return err
	}
	raw.Write(l.src[digits:l.offset])
	// A surrogate code unit (a lone one, or either half of an escaped
	// pair) is accepted rather than rejected, but WriteRune writes U+FFFD
	// in its place: the cooked value loses the code unit, and only the raw
	// lexeme keeps the escape text.
	cooked.WriteRune(rune(v))
	return nil
}

func (l *Lexer) readHex(n int) (int, error) {
	v := 0
	for i := 0; i < n; i++ {
		b := l.peekByte(0)
		if !isHexDigit(b) {
			return 0, synErr(l.pos(), "invalid hex escape sequence")
		}
		v = v*16 + hexVal(b)
		l.advanceRune()
	}
	return v, nil
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}
