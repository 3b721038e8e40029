package lexer

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-njs/internal/token"
)

// scanNumber implements spec.md §4.1's numeric-literal grammar: decimal,
// 0x/0X hex, 0b/0B binary, 0o/0O octal, scientific notation, and rejection
// of legacy 0-prefixed octal. The raw lexeme is converted to a number by
// internal/parser's parseNumberLexeme, which does not flush subnormals.
func (l *Lexer) scanNumber(start token.Position, newline bool) (token.Token, error) {
	var sb strings.Builder

	if l.peekByte(0) == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		sb.WriteByte(l.peekByte(0))
		sb.WriteByte(l.peekByte(1))
		l.advanceN(2)
		for isHexDigit(l.peekByte(0)) {
			sb.WriteByte(l.peekByte(0))
			l.advanceRune()
		}
		return l.finishNumber(sb.String(), start, newline), nil
	}
	if l.peekByte(0) == '0' && (l.peekByte(1) == 'b' || l.peekByte(1) == 'B') {
		sb.WriteByte(l.peekByte(0))
		sb.WriteByte(l.peekByte(1))
		l.advanceN(2)
		for l.peekByte(0) == '0' || l.peekByte(0) == '1' {
			sb.WriteByte(l.peekByte(0))
			l.advanceRune()
		}
		return l.finishNumber(sb.String(), start, newline), nil
	}
	if l.peekByte(0) == '0' && (l.peekByte(1) == 'o' || l.peekByte(1) == 'O') {
		sb.WriteByte(l.peekByte(0))
		sb.WriteByte(l.peekByte(1))
		l.advanceN(2)
		for l.peekByte(0) >= '0' && l.peekByte(0) <= '7' {
			sb.WriteByte(l.peekByte(0))
			l.advanceRune()
		}
		return l.finishNumber(sb.String(), start, newline), nil
	}
	// Legacy octal (spec.md §9): a leading 0 followed directly by more
	// digits, with no 'x'/'b'/'o'/'.'/'e' marker, is a syntax error even
	// though some engines accept it in non-strict mode. Preserve rejection.
	if l.peekByte(0) == '0' && isDigitByte(l.peekByte(1)) {
		for isDigitByte(l.peekByte(0)) {
			l.advanceRune()
		}
		return token.Token{}, synErr(start, "Octal literals are not allowed; use the '0o' prefix")
	}

	for isDigitByte(l.peekByte(0)) {
		sb.WriteByte(l.peekByte(0))
		l.advanceRune()
	}
	if l.peekByte(0) == '.' {
		sb.WriteByte('.')
		l.advanceRune()
		for isDigitByte(l.peekByte(0)) {
			sb.WriteByte(l.peekByte(0))
			l.advanceRune()
		}
	}
	if l.peekByte(0) == 'e' || l.peekByte(0) == 'E' {
		sb.WriteByte(l.peekByte(0))
		l.advanceRune()
		if l.peekByte(0) == '+' || l.peekByte(0) == '-' {
			sb.WriteByte(l.peekByte(0))
			l.advanceRune()
		}
		for isDigitByte(l.peekByte(0)) {
			sb.WriteByte(l.peekByte(0))
			l.advanceRune()
		}
	}
	return l.finishNumber(sb.String(), start, newline), nil
}

func (l *Lexer) finishNumber(lexeme string, start token.Position, newline bool) token.Token {
	t := l.emit(token.NUMBER, lexeme, start, newline)
	t.Value = lexeme
	return t
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigitByte(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func synErr(pos token.Position, format string, args ...any) error {
	return fmt.Errorf("SyntaxError: %s (line %d)", fmt.Sprintf(format, args...), pos.Line)
}
