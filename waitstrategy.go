package recloser

import (
	"math/bits"
	"time"
)

// OpenWaitStrategy computes how long the breaker should stay Open after a
// HalfOpen probe fails, as a function of the current flap count. The
// effective wait is always min(Next(flap, base), MaxWait). Next must be
// side-effect-free and safe to call concurrently; it is invoked with no
// locks held.
//
// Ported from the Rust OpenWaitStrategy (a boxed Fn(u32, Duration) ->
// Duration plus a max_wait clamp) as a plain function value, Go's native
// equivalent of a boxed closure.
type OpenWaitStrategy struct {
	MaxWait time.Duration
	Next    func(flap uint32, base time.Duration) time.Duration
}

// wait returns the clamped next wait. A nil strategy always returns base
// unchanged.
func (s *OpenWaitStrategy) wait(flap uint32, base time.Duration) time.Duration {
	if s == nil || s.Next == nil {
		return base
	}
	w := s.Next(flap, base)
	if w > s.MaxWait {
		return s.MaxWait
	}
	return w
}

// ConstantWait is the implicit default behaviour (next_wait == base for
// every flap), provided explicitly for hosts that want to pass it alongside
// a MaxWait clamp without writing their own closure.
func ConstantWait(maxWait time.Duration) *OpenWaitStrategy {
	return &OpenWaitStrategy{
		MaxWait: maxWait,
		Next:    func(_ uint32, base time.Duration) time.Duration { return base },
	}
}

// ExponentialWait doubles the wait on every flap: next = 2^flap * base,
// clamped to maxWait. The multiply is guarded against overflowing
// time.Duration (an int64): once 2^flap would already exceed maxWait/base,
// Next returns maxWait directly instead of computing the product.
func ExponentialWait(maxWait time.Duration) *OpenWaitStrategy {
	return &OpenWaitStrategy{
		MaxWait: maxWait,
		Next: func(flap uint32, base time.Duration) time.Duration {
			if base <= 0 || maxWait <= 0 {
				return maxWait
			}
			maxMult := uint64(maxWait / base)
			if maxMult == 0 || flap >= uint32(bits.Len64(maxMult)) {
				return maxWait
			}
			return base * time.Duration(uint64(1)<<flap)
		},
	}
}
