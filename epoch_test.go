package recloser

import "testing"

func TestEpochReclaimerAdvancesWhenNoReaderLagsBehind(t *testing.T) {
	var e epochReclaimer

	slot := e.pin() // pins at the current epoch, not behind it
	st := newClosedState(1)
	e.retire(st)
	if e.global.Load() != 1 {
		t.Fatalf("expected advance to epoch 1, got %d", e.global.Load())
	}
	e.unpin(slot)
}

func TestEpochReclaimerBlocksOnLaggingReader(t *testing.T) {
	var e epochReclaimer

	slot := e.pin() // pins at epoch 0
	e.retire(newClosedState(1))
	if e.global.Load() != 1 {
		t.Fatalf("expected first retire to advance to epoch 1, got %d", e.global.Load())
	}

	// the reader pinned above is now lagging behind the new epoch 1.
	e.retire(newClosedState(1))
	if e.global.Load() != 1 {
		t.Fatalf("expected no further advance while a lagging reader is still pinned, got epoch %d", e.global.Load())
	}

	e.unpin(slot)

	// now nothing is pinned; a fresh retire should be able to advance again.
	e.retire(newClosedState(1))
	if e.global.Load() != 2 {
		t.Fatalf("expected advance once the lagging reader unpinned, got epoch %d", e.global.Load())
	}
}

func TestEpochReclaimerManyPinsReleaseSlots(t *testing.T) {
	var e epochReclaimer
	for i := 0; i < maxPinSlots*2; i++ {
		slot := e.pin()
		e.unpin(slot)
	}
	// every slot should be free again
	for i := range e.slots {
		if e.slots[i].Load() != 0 {
			t.Fatalf("slot %d still marked pinned after unpin", i)
		}
	}
}
