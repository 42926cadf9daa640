package recloser

import (
	"sync"
	"sync/atomic"
)

// maxPinSlots bounds the number of concurrently pinned readers this scheme
// tracks explicitly. Readers beyond this bound still execute correctly
// (Go's garbage collector keeps their loaded *state alive regardless, since
// it's a live local variable for the duration of the call) — the slot
// array's only job is to let retire decide *when* it is provably safe to
// drop the reclaimer's own reference to a retired state, so an untracked
// reader never causes unsafety: it simply cannot hold back an epoch
// advance, and a limbo bucket may be dropped while it still uses the state.
const maxPinSlots = 256

// epochReclaimer implements epoch-based reclamation for the state pointer a
// Breaker publishes: readers pin the current epoch for the duration of a
// hook call, and a replaced state is only released from the reclaimer's own
// bookkeeping once no pin could still observe it. Modeled on the
// epoch-and-CAS-header idea in tef-crow's roundabout, simplified to a flat
// slot array since recloser only ever needs to pin "am I inside a hook call
// right now", not roundabout's richer per-lane conflict tracking.
//
// Three limbo buckets (indexed by epoch mod 3) are the standard
// crossbeam-epoch shape: a bucket is only cleared once the global epoch has
// advanced twice past the epoch it was retired under, which guarantees any
// reader that could have observed the retired value has since unpinned.
type epochReclaimer struct {
	global atomic.Uint64
	next   atomic.Uint64

	// slots[i] is 0 when free, or (pinned epoch + 1) when held.
	slots [maxPinSlots]atomic.Uint64

	mu    sync.Mutex
	limbo [3][]*state
}

// pin reserves a slot recording the current epoch and returns its index (or
// -1 if every slot is currently held, in which case the caller simply isn't
// tracked — see maxPinSlots). unpin must be called exactly once to release
// whatever pin returned.
func (e *epochReclaimer) pin() int {
	epoch := e.global.Load()
	start := int(e.next.Add(1) % maxPinSlots)
	for i := 0; i < maxPinSlots; i++ {
		idx := (start + i) % maxPinSlots
		if e.slots[idx].CompareAndSwap(0, epoch+1) {
			return idx
		}
	}
	return -1
}

func (e *epochReclaimer) unpin(slot int) {
	if slot >= 0 {
		e.slots[slot].Store(0)
	}
}

// retire defers destruction of st: it is stashed in the limbo bucket for
// the current epoch, and an advance is opportunistically attempted so
// older buckets get dropped as soon as it's safe.
func (e *epochReclaimer) retire(st *state) {
	cur := e.global.Load()

	e.mu.Lock()
	e.limbo[cur%3] = append(e.limbo[cur%3], st)
	e.mu.Unlock()

	e.tryAdvance(cur)
}

// tryAdvance bumps the global epoch from cur to cur+1 if no pinned reader
// is still lagging behind cur, then drops the limbo bucket that is now two
// epochs stale (safe: any reader that could have seen that bucket's
// contents must have pinned at an epoch this check just proved is gone).
func (e *epochReclaimer) tryAdvance(cur uint64) {
	for i := range e.slots {
		v := e.slots[i].Load()
		if v != 0 && v-1 < cur {
			return
		}
	}

	if !e.global.CompareAndSwap(cur, cur+1) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	stale := (cur + 2) % 3 // == (cur-1) mod 3, the bucket retired two epochs ago
	e.limbo[stale] = nil
}
