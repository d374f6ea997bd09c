package errors

import (
	"errors"
	"testing"
)

var errWrapped = errors.New("wrapped error")

func TestWrap(t *testing.T) {
	err := Wrap(errWrapped, "Hello, Wrapped!")
	if err.Error() != "Hello, Wrapped!, err: wrapped error" {
		t.Fatalf("error mismatch: %+v", err)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignored"); err != nil {
		t.Fatalf("expected nil, got %+v", err)
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(errWrapped, "owner %s, qty %d", "alice", 3)
	if err.Error() != "owner alice, qty 3, err: wrapped error" {
		t.Fatalf("error mismatch: %+v", err)
	}
}

func TestIsSeesThroughWrap(t *testing.T) {
	err := Wrapf(Wrap(errWrapped, "inner"), "outer")
	if !Is(err, errWrapped) {
		t.Fatalf("expected Is to match the wrapped sentinel: %+v", err)
	}
}
