package lexer

import "testing"

func TestIsNFCPlainASCII(t *testing.T) {
	if !IsNFC("fooBar") {
		t.Fatal("expected plain ASCII identifier to be NFC")
	}
}

func TestIsNFCDecomposedForm(t *testing.T) {
	// "e" (U+0065) followed by a combining acute accent (U+0301) is NFD,
	// not NFC; its precomposed equivalent is U+00E9.
	decomposed := "é"
	if IsNFC(decomposed) {
		t.Fatal("expected decomposed form to be reported as non-NFC")
	}
	precomposed := "é"
	if !IsNFC(precomposed) {
		t.Fatal("expected precomposed form to be reported as NFC")
	}
}
