// Package log provides structured event capture for settle observations.
//
// This package defines the Logger interface and Event types for recording
// everything a stabilizer does: input changes, quiet-period timer
// transitions, resolution attempt lifecycle, output applications, and
// surfaced failures. It is separate from operational logging (slog) -
// event capture provides a complete machine-readable trace for debugging
// and analysis of stabilization behavior.
//
// # Basic Usage
//
// Components accept a Logger implementation through their config:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("search.stlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events carry one payload matching their category:
//   - Input: an observed input value (InputEvent)
//   - Timer: quiet-period timer transitions (TimerEvent)
//   - Attempt: resolution attempt state changes (AttemptEvent)
//   - Output: an applied stabilized output (OutputEvent)
//   - Failure: a surfaced resolution failure (FailureEvent)
//   - Observation: observation lifecycle (ObservationEvent)
//
// # File Format
//
// Log files use CBOR encoding with .stlog extension. The settle-log CLI
// tool provides viewing, filtering, statistics, and export capabilities.
package log
