package recloser

import (
	"testing"
	"time"
)

func TestCallSuccessReturnsValue(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(4))

	v, err := Call(b, func() (int, error) { return 42, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	if b.State() != "Closed" {
		t.Fatalf("expected Closed, got %s", b.State())
	}
}

func TestCallFailureWrapsInnerError(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(100))

	_, err := Call(b, func() (int, error) { return 0, errSentinel })
	if err == nil {
		t.Fatal("expected error")
	}
	inner, ok := err.(*InnerError)
	if !ok {
		t.Fatalf("expected *InnerError, got %T", err)
	}
	if inner.Unwrap() != errSentinel {
		t.Fatalf("expected wrapped errSentinel, got %v", inner.Unwrap())
	}
}

func TestCallRejectedWhenOpen(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(2), WithOpenWait(time.Second))

	fail := func() (int, error) { return 0, errSentinel }
	Call(b, fail)
	Call(b, fail)
	Call(b, fail) // trips open

	_, err := Call(b, func() (int, error) { return 1, nil })
	if err != ErrRejected {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestCallWithPredicateSkipsNonMatchingErrors(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(2), WithOpenWait(time.Second))

	isTimeout := func(err error) bool { return err == ErrTimeout }

	for i := 0; i < 10; i++ {
		if _, err := CallWith(b, isTimeout, func() (int, error) { return 0, errSentinel }); err == nil {
			t.Fatal("expected inner error to propagate")
		}
	}
	if b.State() != "Closed" {
		t.Fatalf("expected Closed (predicate never matched), got %s", b.State())
	}
}
