package recloser

import (
	"context"
	"testing"
	"time"
)

func TestCallAsyncSuccess(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(4))

	out := CallAsync(context.Background(), b, func(ctx context.Context) (int, error) {
		return 7, nil
	})
	res := <-out
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Value != 7 {
		t.Fatalf("expected 7, got %d", res.Value)
	}
}

func TestCallAsyncRejectedWhenOpen(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(2), WithOpenWait(time.Second))

	fail := func(ctx context.Context) (int, error) { return 0, errSentinel }
	<-CallAsync(context.Background(), b, fail)
	<-CallAsync(context.Background(), b, fail)
	<-CallAsync(context.Background(), b, fail) // trips open

	res := <-CallAsync(context.Background(), b, func(ctx context.Context) (int, error) { return 1, nil })
	if res.Err != ErrRejected {
		t.Fatalf("expected ErrRejected, got %v", res.Err)
	}
}

func TestCallAsyncCancellationLeavesStateUntouched(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(2), WithOpenWait(time.Second))

	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	out := CallAsyncWith(ctx, b, AnyError, func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	<-started
	cancel()
	res := <-out
	if res.Err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", res.Err)
	}
	// Neither RecordSuccess nor RecordFailure ran: the ring is still
	// filling, so the breaker is exactly as fresh as when it was built.
	if b.State() != "Closed" {
		t.Fatalf("expected Closed, got %s", b.State())
	}
	if b.failureRate() != noRate {
		t.Fatalf("expected untouched ring (sentinel rate), got %v", b.failureRate())
	}
}

func TestCallAsyncTimeoutRecordsFailureOnce(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(100))

	out := CallAsyncTimeout(context.Background(), b, 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	res := <-out
	if res.Err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", res.Err)
	}

	// exactly one failure recorded: with closed_len=100 the ring is still
	// filling, so a single failure should not have tripped anything and the
	// rate is still the sentinel; the ring itself holds exactly one failed
	// record.
	if b.State() != "Closed" {
		t.Fatalf("expected Closed, got %s", b.State())
	}
	if ring := b.st.Load().ring; ring.filling != 1 || ring.cardinality != 1 {
		t.Fatalf("expected exactly one failed record, got filling=%d cardinality=%d", ring.filling, ring.cardinality)
	}
}

func TestCallAsyncTimeoutSucceedsWithinDeadline(t *testing.T) {
	withFakeClock(t)
	b := MustNew(WithErrorRate(0.5), WithClosedLen(4))

	out := CallAsyncTimeout(context.Background(), b, time.Second, func(ctx context.Context) (int, error) {
		return 9, nil
	})
	res := <-out
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Value != 9 {
		t.Fatalf("expected 9, got %d", res.Value)
	}
}
