package recloser

import "time"

// clock is the seam used by tests to substitute a fake monotonic clock, the
// same indirection catrate uses (timeNow/timeNewTicker) to make its rate
// limiter deterministic under test.
var clock = time.Now

// clockOverride installs a fake clock for the duration of a test and returns
// a restore function. Kept unexported: hosts embed recloser, they don't get
// to fiddle with its notion of time.
func clockOverride(fn func() time.Time) (restore func()) {
	prev := clock
	clock = fn
	return func() { clock = prev }
}
