package lexer

import "golang.org/x/text/unicode/norm"

// IsNFC reports whether s is already in Unicode Normalization Form C. It
// is a check only, never a transform: spec.md §1's Non-goals exclude
// full-fidelity Unicode normalisation, so the lexer itself never rewrites
// an identifier's bytes. IsNFC exists for a host or `cmd/njs lex`
// diagnostic that wants to flag a source file mixing precomposed and
// decomposed identifier spellings, a common source of "same-looking but
// not ===" bug reports.
func IsNFC(s string) bool {
	return norm.NFC.IsNormalString(s)
}
