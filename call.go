package recloser

// Call wraps f, permitting it only while the breaker allows calls. Any
// non-nil error f returns counts as a failure (the AnyError predicate).
//
// Returns the wrapped result unchanged on success. On rejection returns the
// zero value of T and ErrRejected. On an inner failure returns the zero
// value of T and an *InnerError wrapping f's error.
func Call[T any](b *Breaker, f func() (T, error)) (T, error) {
	return CallWith(b, AnyError, f)
}

// CallWith is Call with a caller-supplied predicate deciding which errors
// count as failures. Errors for which predicate returns false still
// propagate to the caller (wrapped in InnerError) but are recorded as
// successes.
func CallWith[T any](b *Breaker, predicate FailurePredicate, f func() (T, error)) (T, error) {
	var zero T

	if !b.Allow() {
		return zero, ErrRejected
	}

	v, err := f()
	if err == nil {
		b.RecordSuccess()
		return v, nil
	}

	if predicate != nil && predicate(err) {
		b.RecordFailure()
	} else {
		b.RecordSuccess()
	}
	return zero, Inner(err)
}
