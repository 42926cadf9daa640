package recloser

import "time"

// stateKind tags the three shapes a state can take. Go has no sum types, so
// the tagged variant (Closed(RingCounter) / Open(deadline, flap) /
// HalfOpen(RingCounter, flap)) is rendered as a single struct with a kind
// discriminant rather than an interface hierarchy, pattern-matched via a
// switch on kind at each hook.
type stateKind uint8

const (
	stateClosed stateKind = iota
	stateOpen
	stateHalfOpen
)

func (k stateKind) String() string {
	switch k {
	case stateClosed:
		return "Closed"
	case stateOpen:
		return "Open"
	case stateHalfOpen:
		return "HalfOpen"
	default:
		return "Unknown"
	}
}

// state is one immutable snapshot of the breaker's state machine. Once
// published via the atomic cell in Breaker, a state value is never mutated
// again; transitions always build a fresh value and swap it in.
type state struct {
	kind stateKind

	// ring backs Closed and HalfOpen; nil for Open.
	ring *ringCounter

	// deadline backs Open: calls are rejected until this instant passes.
	deadline time.Time

	// flap backs Open and HalfOpen. 1 on the first Closed->Open transition,
	// preserved across Open->HalfOpen, incremented on each subsequent
	// HalfOpen->Open, and implicitly forgotten once the machine reaches
	// Closed again (a fresh Closed state leaves flap at zero).
	flap uint32

	// enteredAt is the wall-clock time this state was built, used only by
	// the optional tracing feature (started_ts and duration_sec fields).
	enteredAt time.Time
}

func newClosedState(closedLen int) *state {
	return &state{kind: stateClosed, ring: newRingCounter(closedLen), enteredAt: wallClockNow()}
}

func newHalfOpenState(halfOpenLen int, flap uint32) *state {
	return &state{kind: stateHalfOpen, ring: newRingCounter(halfOpenLen), flap: flap, enteredAt: wallClockNow()}
}

func newOpenState(deadline time.Time, flap uint32) *state {
	return &state{kind: stateOpen, deadline: deadline, flap: flap, enteredAt: wallClockNow()}
}

// wallClockNow backs the telemetry timestamps. Separate from the injectable
// monotonic clock/test seam: telemetry timestamps are documentation, not
// decision inputs, so they always reflect real wall-clock time even under a
// test's fake clock.
var wallClockNow = time.Now
