package recloser

import (
	"log/slog"
	"sync/atomic"
)

// Breaker is a concurrent circuit breaker. It is safe for use by many
// goroutines simultaneously: the live state is published through an atomic
// pointer, transitions race via compare-and-swap, and the ring counter
// backing Closed/HalfOpen serializes its own updates internally. A Breaker
// must be constructed with New or MustNew.
type Breaker struct {
	cfg config
	log *slog.Logger

	instanceID string

	st      atomic.Pointer[state]
	reclaim epochReclaimer
}

// New builds a Breaker from the given options, validating configuration
// eagerly and rejecting invalid configuration at construction rather than
// on the hot path.
func New(opts ...Option) (*Breaker, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	b := &Breaker{cfg: cfg}
	if cfg.log != nil {
		b.log = cfg.log
	} else {
		b.log = defaultLogger.Load()
	}
	if cfg.idGenerator != nil {
		b.instanceID = cfg.idGenerator()
	}

	initial := newClosedState(cfg.closedLen)
	b.st.Store(initial)
	b.emitEntry(initial)

	return b, nil
}

// MustNew is New, panicking on error. Intended for package-level breaker
// variables initialized with static, known-good configuration.
func MustNew(opts ...Option) *Breaker {
	b, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Allow reports whether a call should be permitted to proceed right now.
// In Closed or HalfOpen it is always true. In Open it is false until the
// deadline has passed, at which point the first caller to observe this
// (and every caller racing with it) publishes a fresh HalfOpen state and
// returns true — the state is "at least half-open" regardless of who won
// the compare-and-swap.
func (b *Breaker) Allow() bool {
	slot := b.reclaim.pin()
	defer b.reclaim.unpin(slot)

	cur := b.st.Load()
	switch cur.kind {
	case stateClosed, stateHalfOpen:
		return true
	case stateOpen:
		if !clock().After(cur.deadline) {
			return false
		}
		next := newHalfOpenState(b.cfg.halfOpenLen, cur.flap)
		if b.st.CompareAndSwap(cur, next) {
			b.reclaim.retire(cur)
			b.emitTransition(cur, next)
		}
		return true
	default:
		return true
	}
}

// RecordSuccess reports that a permitted call completed successfully.
func (b *Breaker) RecordSuccess() {
	slot := b.reclaim.pin()
	defer b.reclaim.unpin(slot)

	cur := b.st.Load()
	switch cur.kind {
	case stateClosed:
		cur.ring.record(false)

	case stateHalfOpen:
		rate := cur.ring.record(false)
		if rate > noRate && rate <= b.cfg.thresholdHalfOpen {
			next := newClosedState(b.cfg.closedLen)
			if b.st.CompareAndSwap(cur, next) {
				b.reclaim.retire(cur)
				b.emitTransition(cur, next)
			}
		}

	case stateOpen:
		// no-op
	}
}

// RecordFailure reports that a permitted call completed with a failure
// (per whatever predicate the caller applied).
func (b *Breaker) RecordFailure() {
	slot := b.reclaim.pin()
	defer b.reclaim.unpin(slot)

	cur := b.st.Load()
	switch cur.kind {
	case stateClosed:
		rate := cur.ring.record(true)
		if rate >= b.cfg.thresholdClosed {
			next := newOpenState(clock().Add(b.cfg.openWait), 1)
			if b.st.CompareAndSwap(cur, next) {
				b.reclaim.retire(cur)
				b.emitTransition(cur, next)
			}
		}

	case stateHalfOpen:
		rate := cur.ring.record(true)
		if rate >= b.cfg.thresholdHalfOpen {
			wait := b.cfg.openWaitStrategy.wait(cur.flap, b.cfg.openWait)
			next := newOpenState(clock().Add(wait), cur.flap+1)
			if b.st.CompareAndSwap(cur, next) {
				b.reclaim.retire(cur)
				b.emitTransition(cur, next)
			}
		}

	case stateOpen:
		// no-op
	}
}

// State reports the current coarse state (Closed/Open/HalfOpen), mainly
// useful for tests, dashboards, and the Prometheus collector. It does not
// itself drive the Open->HalfOpen lazy transition; call Allow for that.
func (b *Breaker) State() string {
	return b.st.Load().kind.String()
}

// FlapCount reports the current flap count (0 while Closed).
func (b *Breaker) FlapCount() uint32 {
	cur := b.st.Load()
	if cur.kind == stateClosed {
		return 0
	}
	return cur.flap
}

// Name returns the breaker's configured name (empty if none was set via
// WithName).
func (b *Breaker) Name() string { return b.cfg.name }

// InstanceID returns the breaker's generated instance id. The id is only
// available through this method; telemetry events do not carry it.
func (b *Breaker) InstanceID() string { return b.instanceID }

// failureRate exposes the live ring's current failure rate for snapshotting
// (e.g. the Prometheus collector); returns noRate while Open or filling.
func (b *Breaker) failureRate() float32 {
	cur := b.st.Load()
	if cur.ring == nil {
		return noRate
	}
	return cur.ring.rate()
}

// stateGauge maps the current state to the small integer the Prometheus
// collector exposes as a gauge value (0=Closed, 1=HalfOpen, 2=Open),
// matching the ordering oriys-nova's own circuitBreakerState gauge uses.
func (b *Breaker) stateGauge() float64 {
	switch b.st.Load().kind {
	case stateClosed:
		return 0
	case stateHalfOpen:
		return 1
	case stateOpen:
		return 2
	default:
		return -1
	}
}
