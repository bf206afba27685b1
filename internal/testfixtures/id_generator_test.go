package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("session")

	first := gen.Next()
	second := gen.Next()

	if first != "session-1" || second != "session-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestIDGeneratorCanReset(t *testing.T) {
	gen := NewIDGenerator("event")
	_ = gen.Next()
	gen.SetCounter(0)
	gen.SetPrefix("evt")

	if next := gen.Next(); next != "evt-1" {
		t.Fatalf("expected evt-1 after reset, got %q", next)
	}
}
