package value

import (
	"strings"
	"testing"
)

func TestChainBufferWriteString(t *testing.T) {
	cb := NewChainBuffer(4)
	parts := []string{"ab", "cde", "", "fghij", "k"}
	var want strings.Builder
	for _, p := range parts {
		cb.WriteString(p)
		want.WriteString(p)
	}
	if got := cb.String(); got != want.String() {
		t.Fatalf("String() = %q, want %q", got, want.String())
	}
	if cb.Len() != want.Len() {
		t.Fatalf("Len() = %d, want %d", cb.Len(), want.Len())
	}
}

func TestChainBufferSpansMultipleChunks(t *testing.T) {
	cb := NewChainBuffer(3)
	cb.WriteString("0123456789")
	if got, want := cb.String(), "0123456789"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if len(cb.chunks) < 3 {
		t.Fatalf("expected the write to span several chunks, got %d", len(cb.chunks))
	}
}

func TestChainBufferEmpty(t *testing.T) {
	cb := NewChainBuffer(0)
	if got := cb.String(); got != "" {
		t.Fatalf("String() = %q, want empty", got)
	}
	if cb.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", cb.Len())
	}
}

func TestChainBufferDefaultChunkSize(t *testing.T) {
	cb := NewChainBuffer(-1)
	if cb.chunkSize != defaultChainChunkSize {
		t.Fatalf("chunkSize = %d, want default %d", cb.chunkSize, defaultChainChunkSize)
	}
}

func TestChainBufferReset(t *testing.T) {
	cb := NewChainBuffer(4)
	cb.WriteString("hello world")
	cb.Reset()
	if cb.Len() != 0 || cb.String() != "" {
		t.Fatalf("Reset did not clear buffer: len=%d str=%q", cb.Len(), cb.String())
	}
	cb.WriteString("again")
	if got := cb.String(); got != "again" {
		t.Fatalf("String() after reset+write = %q, want %q", got, "again")
	}
}
