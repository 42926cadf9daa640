package recloser

import (
	"errors"
	"fmt"
)

// ErrRejected is returned by Call/CallAsync when the breaker is Open and the
// wrapped function was never invoked.
var ErrRejected = errors.New("recloser: call rejected, breaker is open")

// ErrTimeout is returned by the async timeout adapter when the deadline
// elapses before the wrapped computation resolves. It is recorded as a
// failure exactly once.
var ErrTimeout = errors.New("recloser: call timed out")

// InnerError wraps the error produced by a wrapped computation that ran (as
// opposed to being rejected). Unwrap exposes the original error so that
// errors.Is/errors.As keep working against the caller's own sentinels.
type InnerError struct {
	Err error
}

func (e *InnerError) Error() string {
	return fmt.Sprintf("recloser: inner call failed: %s", e.Err)
}

func (e *InnerError) Unwrap() error {
	return e.Err
}

// Inner wraps err as an InnerError. Exported so adapters outside this
// package (custom async executors, for instance) can produce the same
// shape this package returns from Call/CallWith.
func Inner(err error) error {
	if err == nil {
		return nil
	}
	return &InnerError{Err: err}
}

// FailurePredicate decides whether an error returned by a wrapped call
// should count against the breaker. The zero value is never used directly;
// see AnyError for the built-in "every error counts" predicate.
type FailurePredicate func(err error) bool

// AnyError is the default predicate: any non-nil error counts as a failure.
func AnyError(err error) bool {
	return err != nil
}
