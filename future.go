package recloser

import (
	"context"
	"time"
)

// Result carries the outcome of an asynchronous wrapped call.
type Result[T any] struct {
	Value T
	Err   error
}

// CallAsync is the asynchronous counterpart to Call. Go has no built-in
// poll-based future type, so a goroutine reporting through a buffered
// channel is the idiomatic rendering: the permit check happens once,
// before f is ever invoked, and the record call happens once f resolves.
//
// If ctx is cancelled before f returns, no Record* call is made at all —
// a cancelled wrapped computation leaves breaker state untouched. The
// caller is expected to pass a ctx that f itself honours; CallAsync does
// not forcibly abandon a running f.
func CallAsync[T any](ctx context.Context, b *Breaker, f func(context.Context) (T, error)) <-chan Result[T] {
	return CallAsyncWith(ctx, b, AnyError, f)
}

// CallAsyncWith is CallAsync with a custom failure predicate.
func CallAsyncWith[T any](ctx context.Context, b *Breaker, predicate FailurePredicate, f func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)

	go func() {
		defer close(out)

		if !b.Allow() {
			out <- Result[T]{Err: ErrRejected}
			return
		}

		v, err := f(ctx)

		if ctx.Err() != nil {
			// Cancelled: never produces a Record* call, so breaker state
			// is left untouched.
			out <- Result[T]{Value: v, Err: ctx.Err()}
			return
		}

		if err == nil {
			b.RecordSuccess()
			out <- Result[T]{Value: v}
			return
		}

		if predicate != nil && predicate(err) {
			b.RecordFailure()
		} else {
			b.RecordSuccess()
		}
		out <- Result[T]{Err: Inner(err)}
	}()

	return out
}

// CallAsyncTimeout is CallAsync with an additional deadline: if f has not
// resolved within timeout, the elapsed time is translated exactly once
// into a RecordFailure call and ErrTimeout is returned, per the optional
// async+timeout feature.
func CallAsyncTimeout[T any](ctx context.Context, b *Breaker, timeout time.Duration, f func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)

	go func() {
		defer close(out)

		if !b.Allow() {
			out <- Result[T]{Err: ErrRejected}
			return
		}

		tctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		v, err := f(tctx)

		if tctx.Err() == context.DeadlineExceeded {
			b.RecordFailure()
			out <- Result[T]{Value: v, Err: ErrTimeout}
			return
		}

		if ctx.Err() != nil {
			out <- Result[T]{Value: v, Err: ctx.Err()}
			return
		}

		if err == nil {
			b.RecordSuccess()
			out <- Result[T]{Value: v}
			return
		}

		b.RecordFailure()
		out <- Result[T]{Err: Inner(err)}
	}()

	return out
}
