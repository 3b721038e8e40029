package lexer

import (
	"strings"

	"github.com/cwbudde/go-njs/internal/token"
)

// scanTemplateHead scans from an opening backtick up to either the closing
// backtick (a complete, non-interpolated template: token.TEMPLATE_FULL) or
// the start of a `${` substitution (token.TEMPLATE_HEAD). Implements
// spec.md §4.1's template-literal handling, including `\${` suppression of
// interpolation.
func (l *Lexer) scanTemplateHead(start token.Position, newline bool) (token.Token, error) {
	l.advanceRune() // backtick
	return l.scanTemplateSpan(start, newline, token.TEMPLATE_HEAD, token.TEMPLATE_FULL)
}

// scanTemplateContinuation resumes scanning a template literal after a `${
// ... }` substitution closed; emits either TEMPLATE_MIDDLE (another
// substitution follows) or TEMPLATE_TAIL (the literal is complete).
func (l *Lexer) scanTemplateContinuation(start token.Position, newline bool) (token.Token, error) {
	return l.scanTemplateSpan(start, newline, token.TEMPLATE_MIDDLE, token.TEMPLATE_TAIL)
}

func (l *Lexer) scanTemplateSpan(start token.Position, newline bool, headKind, fullKind token.Kind) (token.Token, error) {
	var raw, cooked strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, synErr(start, "unterminated template literal")
		}
		r, _ := l.decodeRune()
		if r == '`' {
			l.advanceRune()
			t := l.emit(fullKind, raw.String(), start, newline)
			t.Value = cooked.String()
			return t, nil
		}
		if r == '$' && l.peekByte(1) == '{' {
			l.templateStack = append(l.templateStack, l.braceDepth)
			l.advanceN(2)
			l.braceDepth++ // the `{` of `${` counts as an open brace too
			t := l.emit(headKind, raw.String(), start, newline)
			t.Value = cooked.String()
			return t, nil
		}
		if r == '\\' {
			if l.peekByte(1) == '$' {
				// `\${` suppresses interpolation (spec.md §4.1).
				raw.WriteString("\\$")
				cooked.WriteByte('$')
				l.advanceN(2)
				continue
			}
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
}

// scanRegexp scans a `/pattern/flags` literal, tracking bracketed character
// classes so that a `/` inside `[...]` does not terminate the literal
// (spec.md §4.1).
func (l *Lexer) scanRegexp(start token.Position, newline bool) (token.Token, error) {
	var sb strings.Builder
	sb.WriteByte('/')
	l.advanceRune()
	inClass := false
	for {
		if l.atEnd() {
			return token.Token{}, synErr(start, "unterminated regular expression literal")
		}
		r, _ := l.decodeRune()
		if isLineTerminator(r) {
			return token.Token{}, synErr(start, "unterminated regular expression literal")
		}
		if r == '\\' {
			sb.WriteRune(r)
			l.advanceRune()
			if l.atEnd() {
				return token.Token{}, synErr(start, "unterminated regular expression literal")
			}
			r2, _ := l.decodeRune()
			sb.WriteRune(r2)
			l.advanceRune()
			continue
		}
		if r == '[' {
			inClass = true
		} else if r == ']' {
			inClass = false
		} else if r == '/' && !inClass {
			sb.WriteByte('/')
			l.advanceRune()
			break
		}
		sb.WriteRune(r)
		l.advanceRune()
	}
	for !l.atEnd() {
		r, size := l.decodeRune()
		if size == 0 || !isIDPart(r) {
			break
		}
		sb.WriteRune(r)
		l.advanceRune()
	}
	return l.emit(token.REGEXP, sb.String(), start, newline), nil
}
