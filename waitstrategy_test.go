package recloser

import (
	"testing"
	"time"
)

func TestExponentialWaitClamps(t *testing.T) {
	s := ExponentialWait(5 * time.Second)
	base := time.Second

	cases := []struct {
		flap uint32
		want time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 5 * time.Second},
		{10, 5 * time.Second},
	}
	for _, c := range cases {
		if got := s.wait(c.flap, base); got != c.want {
			t.Fatalf("flap=%d: want %s, got %s", c.flap, c.want, got)
		}
	}
}

func TestExponentialWaitDoesNotOverflowOnLargeFlap(t *testing.T) {
	s := ExponentialWait(30 * time.Second)
	base := 30 * time.Second // the builder's default open_wait

	for _, flap := range []uint32{29, 30, 63, 64, 1000} {
		if got := s.wait(flap, base); got != 30*time.Second {
			t.Fatalf("flap=%d: expected clamp to MaxWait, got %s", flap, got)
		}
	}
}

func TestNilStrategyReturnsBase(t *testing.T) {
	var s *OpenWaitStrategy
	if got := s.wait(3, 2*time.Second); got != 2*time.Second {
		t.Fatalf("expected base returned unchanged, got %s", got)
	}
}

func TestConstantWait(t *testing.T) {
	s := ConstantWait(10 * time.Second)
	if got := s.wait(5, 3*time.Second); got != 3*time.Second {
		t.Fatalf("expected constant base, got %s", got)
	}
}
