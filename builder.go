package recloser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// config holds everything a Breaker needs after New returns; Option values
// mutate it during construction. Named options rather than a plain struct
// literal because each knob needs to be independently defaulted and
// independently settable — the functional options idiom is the Go
// rendering of a chained builder's setter methods (error_rate, closed_len,
// open_wait, ...).
type config struct {
	thresholdClosed   float32
	thresholdHalfOpen float32
	closedLen         int
	halfOpenLen       int
	openWait          time.Duration
	openWaitStrategy  *OpenWaitStrategy

	name           string
	idGenerator    func() string
	log            *slog.Logger
	tracingEnabled bool
	tracer         trace.Tracer
}

func defaultConfig() config {
	return config{
		thresholdClosed:   0.5,
		thresholdHalfOpen: 0.5,
		closedLen:         100,
		halfOpenLen:       10,
		openWait:          30 * time.Second,
		idGenerator:       uuid.NewString,
		tracingEnabled:    true,
	}
}

// Option configures a Breaker built by New/MustNew.
type Option func(*config) error

// WithErrorRate sets both the Closed and HalfOpen trip thresholds.
func WithErrorRate(rate float32) Option {
	return func(c *config) error {
		if err := validateRate(rate); err != nil {
			return err
		}
		c.thresholdClosed = rate
		c.thresholdHalfOpen = rate
		return nil
	}
}

// WithErrorRateClosed sets only the Closed-state trip threshold.
func WithErrorRateClosed(rate float32) Option {
	return func(c *config) error {
		if err := validateRate(rate); err != nil {
			return err
		}
		c.thresholdClosed = rate
		return nil
	}
}

// WithErrorRateHalfOpen sets only the HalfOpen re-trip/close threshold.
func WithErrorRateHalfOpen(rate float32) Option {
	return func(c *config) error {
		if err := validateRate(rate); err != nil {
			return err
		}
		c.thresholdHalfOpen = rate
		return nil
	}
}

// WithClosedLen sets the Closed-state window size.
func WithClosedLen(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("recloser: closed_len must be positive, got %d", n)
		}
		c.closedLen = n
		return nil
	}
}

// WithHalfOpenLen sets the HalfOpen-state window size.
func WithHalfOpenLen(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("recloser: half_open_len must be positive, got %d", n)
		}
		c.halfOpenLen = n
		return nil
	}
}

// WithOpenWait sets the base Open duration.
func WithOpenWait(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("recloser: open_wait must be positive, got %s", d)
		}
		c.openWait = d
		return nil
	}
}

// WithOpenWaitStrategy installs a per-flap backoff strategy.
func WithOpenWaitStrategy(s *OpenWaitStrategy) Option {
	return func(c *config) error {
		if s == nil || s.Next == nil {
			return fmt.Errorf("recloser: open wait strategy must have a non-nil Next function")
		}
		c.openWaitStrategy = s
		return nil
	}
}

// WithName attaches a name to the breaker, surfaced in telemetry fields and
// through Name. The Prometheus collector's label is the name passed to
// NewPrometheusCollector, not this one.
func WithName(name string) Option {
	return func(c *config) error {
		c.name = name
		return nil
	}
}

// WithIDGenerator overrides how the breaker's instance id (see InstanceID)
// is generated. Defaults to uuid.NewString. The id is not included in the
// recloser_event log records or the transition spans.
func WithIDGenerator(gen func() string) Option {
	return func(c *config) error {
		if gen == nil {
			return fmt.Errorf("recloser: id generator must not be nil")
		}
		c.idGenerator = gen
		return nil
	}
}

// WithLogger overrides the slog.Logger this breaker emits recloser_event
// records to. Defaults to the process-wide logger set by SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("recloser: logger must not be nil")
		}
		c.log = l
		return nil
	}
}

// WithTracing enables or disables the slog/OTel telemetry feature
// (enabled by default).
func WithTracing(enabled bool) Option {
	return func(c *config) error {
		c.tracingEnabled = enabled
		return nil
	}
}

// WithTracer additionally emits an OpenTelemetry span for every state
// transition, alongside the slog event. Implies WithTracing(true).
func WithTracer(t trace.Tracer) Option {
	return func(c *config) error {
		if t == nil {
			return fmt.Errorf("recloser: tracer must not be nil")
		}
		c.tracer = t
		c.tracingEnabled = true
		return nil
	}
}

func validateRate(rate float32) error {
	if !(rate > 0 && rate < 1) {
		return fmt.Errorf("recloser: error rate must be in (0,1), got %v", rate)
	}
	return nil
}
