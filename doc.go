// Package recloser implements a concurrent circuit breaker.
//
// A [Breaker] wraps fallible operations, observes their outcomes over a
// sliding window of recent calls, and eagerly rejects new calls once the
// observed failure rate crosses a configured threshold. After a cooling-off
// interval it tentatively re-admits a limited probe window; if the probes
// look healthy the breaker closes and traffic resumes, otherwise it
// re-opens, optionally with a longer wait.
//
// # State machine
//
//	             failure rate ≥ threshold_closed
//	Closed ─────────────────────────────────────► Open(deadline, flap=1)
//	                                                    │
//	                                  now > deadline     │ (checked lazily, on next Allow)
//	                                                    ▼
//	                                           HalfOpen(_, flap)
//	                   failure rate ≤ threshold_half_open     failure rate ≥ threshold_half_open
//	HalfOpen ─────────────────── closes ────────► Closed        reopens ──────► Open(_, flap+1)
//
// All state is process-local and held in a single [Breaker] value; there is
// no persistence across restarts and no distributed coordination.
package recloser
