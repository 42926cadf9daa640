package recloser

import (
	"runtime"
	"sync/atomic"
)

// noRate is the sentinel returned by ringCounter.record while the window is
// still filling for the first time.
const noRate float32 = -1.0

// ringCounter is a fixed-capacity ring of boolean outcomes (true == failure)
// with a maintained cardinality (count of trues) and a "filling" counter
// that saturates once the ring has been populated once. It is the lock-free
// failure counter backing Closed and HalfOpen: updates are serialized by a
// spinlock, but the critical section itself is O(1) and allocation-free.
//
// Ported from the ring buffer at the heart of the original Rust
// implementation (src/ring_buffer.rs): a spin_lock AtomicBool guarding
// len/card/filling/ring/index, with SeqCst loads/stores inside the
// critical section. Go's happens-before rules make the inner ordering
// safe at Relaxed once the lock itself uses acquire/release, so that's
// what this port uses instead of blanket sequential consistency.
type ringCounter struct {
	locked atomic.Bool

	length int
	cells  []bool

	cardinality int
	filling     int
	cursor      int
}

// newRingCounter builds a ring of the given length. Panics on length <= 0.
func newRingCounter(length int) *ringCounter {
	if length <= 0 {
		panic("recloser: ring counter length must be positive")
	}
	return &ringCounter{
		length: length,
		cells:  make([]bool, length),
	}
}

// record overwrites the cell under the cursor with outcome, advances the
// cursor, and returns the current failure rate in [0,1] once the ring has
// been filled at least once; otherwise it returns noRate.
func (r *ringCounter) record(outcome bool) float32 {
	r.lock()

	i := r.cursor
	j := i + 1
	if j == r.length {
		j = 0
	}

	old := r.cells[i]
	newCard := r.cardinality
	if old {
		newCard--
	}
	if outcome {
		newCard++
	}

	var rate float32
	if r.filling == r.length {
		rate = float32(newCard) / float32(r.length)
	} else {
		r.filling++
		rate = noRate
	}

	r.cells[i] = outcome
	r.cursor = j
	r.cardinality = newCard

	r.unlock()
	return rate
}

// lock/unlock implement a bounded-spin-then-yield spinlock: acquire with a
// CompareAndSwap loop (acquire semantics), back off by yielding the
// processor after a handful of failed attempts, release with a plain store
// (release semantics). This mirrors crossbeam's Backoff::snooze used by the
// ring buffer's set_current in original_source/src/ring_buffer.rs.
func (r *ringCounter) lock() {
	for spins := 0; !r.locked.CompareAndSwap(false, true); spins++ {
		if spins > 16 {
			runtime.Gosched()
			spins = 0
		}
	}
}

func (r *ringCounter) unlock() {
	r.locked.Store(false)
}

// rate reports the current failure rate without mutating the ring, used
// only for snapshot/telemetry purposes (e.g. a Prometheus gauge callback).
// Like record, it returns noRate while still filling.
func (r *ringCounter) rate() float32 {
	r.lock()
	var rate float32
	if r.filling == r.length {
		rate = float32(r.cardinality) / float32(r.length)
	} else {
		rate = noRate
	}
	r.unlock()
	return rate
}
