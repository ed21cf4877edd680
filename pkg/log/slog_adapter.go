package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes observation events to an slog.Logger.
// Useful for development when you want to see stabilization activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("observation", event.ObservationID),
		slog.String("category", event.Category.String()),
	}

	if event.Seq != 0 {
		attrs = append(attrs, slog.Uint64("seq", event.Seq))
	}

	// Add type-specific attributes
	switch {
	case event.Input != nil:
		attrs = append(attrs,
			slog.String("value", event.Input.Value),
			slog.Bool("ignored", event.Input.Ignored),
		)
	case event.Timer != nil:
		attrs = append(attrs,
			slog.String("timer", event.Timer.Kind.String()),
			slog.Duration("quiet_period", event.Timer.QuietPeriod),
		)
	case event.Attempt != nil:
		attrs = append(attrs,
			slog.String("state", event.Attempt.State.String()),
			slog.String("input", event.Attempt.Input),
		)
		if event.Attempt.Latency != nil {
			attrs = append(attrs, slog.Duration("latency", *event.Attempt.Latency))
		}
		if event.Attempt.Error != "" {
			attrs = append(attrs, slog.String("error", event.Attempt.Error))
		}
	case event.Output != nil:
		attrs = append(attrs, slog.String("value", event.Output.Value))
		if event.Output.PrevSeq != 0 {
			attrs = append(attrs, slog.Uint64("prev_seq", event.Output.PrevSeq))
		}
	case event.Failure != nil:
		attrs = append(attrs,
			slog.String("input", event.Failure.Input),
			slog.String("error", event.Failure.Message),
		)
	case event.Observation != nil:
		attrs = append(attrs,
			slog.String("lifecycle", event.Observation.Kind.String()),
			slog.Duration("quiet_period", event.Observation.QuietPeriod),
		)
		if event.Observation.Policy != "" {
			attrs = append(attrs, slog.String("policy", event.Observation.Policy))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "settle", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
