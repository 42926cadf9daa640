package recloser

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// recloserEvent is the event target every transition is logged under.
const recloserEvent = "recloser_event"

// defaultLogger is held behind an atomic pointer and swapped wholesale on
// SetLogger, exactly the shape oriys-nova's internal/logging package uses
// for its own operational logger (opLogger atomic.Pointer[slog.Logger]).
var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// SetLogger installs the process-wide default logger used by breakers built
// afterwards without WithLogger. A breaker keeps the logger it was built
// with, so SetLogger has no effect on breakers that already exist.
func SetLogger(l *slog.Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// emitTransition logs the two INFO events described by the telemetry
// feature: one closing out the ending state, one opening the new one, both
// under the recloser_event target. Does nothing when tracing is disabled for
// the breaker (it is enabled by default; see WithTracing).
func (b *Breaker) emitTransition(from, to *state) {
	if !b.cfg.tracingEnabled {
		return
	}

	endedTS := wallClockNow()
	duration := endedTS.Sub(from.enteredAt)

	b.log.Info(recloserEvent,
		"state", from.kind.String(),
		"ended_ts", endedTS.Unix(),
		"duration_sec", int64(duration.Seconds()),
		"name", b.cfg.name,
	)
	b.log.Info(recloserEvent,
		"state", to.kind.String(),
		"started_ts", to.enteredAt.Unix(),
		"name", b.cfg.name,
	)

	if b.cfg.tracer != nil {
		_, span := b.cfg.tracer.Start(context.Background(), "recloser.transition",
			trace.WithAttributes(
				attribute.String("recloser.name", b.cfg.name),
				attribute.String("recloser.from", from.kind.String()),
				attribute.String("recloser.to", to.kind.String()),
				attribute.Int64("recloser.flap_count", int64(to.flap)),
			),
		)
		span.SetStatus(codes.Ok, "")
		span.End()
	}
}

// emitEntry logs the single "entered state" event emitted once at
// construction time, when there is no prior state to close out.
func (b *Breaker) emitEntry(to *state) {
	if !b.cfg.tracingEnabled {
		return
	}
	b.log.Info(recloserEvent,
		"state", to.kind.String(),
		"started_ts", to.enteredAt.Unix(),
		"name", b.cfg.name,
	)
}
