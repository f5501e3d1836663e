package resilience

import (
	"errors"
	"testing"
)

func TestCallReturnsValueOnSuccess(t *testing.T) {
	got := Call("test", "fallback", func() (string, error) {
		return "value", nil
	})
	if got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestCallReturnsFallbackOnError(t *testing.T) {
	got := Call("test", 42, func() (int, error) {
		return 0, errors.New("boom")
	})
	if got != 42 {
		t.Fatalf("expected fallback 42, got %d", got)
	}
}

func TestDoReportsOutcome(t *testing.T) {
	if !Do("test", func() error { return nil }) {
		t.Fatalf("expected success")
	}
	if Do("test", func() error { return errors.New("boom") }) {
		t.Fatalf("expected failure to be absorbed and reported false")
	}
}
