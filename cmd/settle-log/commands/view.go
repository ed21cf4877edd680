// Package commands implements the settle-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/settle-reactive/settle-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Category          *log.Category
	ObservationPrefix string
	MinSeq            *uint64
	Since             *time.Time
}

// matches returns true if the event passes the view filter.
func (f ViewFilter) matches(event log.Event) bool {
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.ObservationPrefix != "" && !strings.HasPrefix(event.ObservationID, f.ObservationPrefix) {
		return false
	}
	if f.MinSeq != nil && event.Seq < *f.MinSeq {
		return false
	}
	if f.Since != nil && event.Timestamp.Before(*f.Since) {
		return false
	}
	return true
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [obs:id] CATEGORY Label
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	obsID := shortenObservationID(event.ObservationID)

	var label string
	switch {
	case event.Input != nil:
		label = "Input"
		if event.Input.Ignored {
			label = "Input(ignored)"
		}
	case event.Timer != nil:
		label = event.Timer.Kind.String()
	case event.Attempt != nil:
		label = event.Attempt.State.String()
	case event.Output != nil:
		label = "Applied"
	case event.Failure != nil:
		label = "Failure"
	case event.Observation != nil:
		label = event.Observation.Kind.String()
	default:
		label = "Unknown"
	}

	if event.Seq > 0 {
		fmt.Fprintf(w, "%s [obs:%s] %-11s #%d %s\n", ts, obsID, event.Category.String(), event.Seq, label)
	} else {
		fmt.Fprintf(w, "%s [obs:%s] %-11s %s\n", ts, obsID, event.Category.String(), label)
	}

	switch {
	case event.Input != nil:
		formatInputDetails(w, event.Input)
	case event.Timer != nil:
		formatTimerDetails(w, event.Timer)
	case event.Attempt != nil:
		formatAttemptDetails(w, event.Attempt)
	case event.Output != nil:
		formatOutputDetails(w, event.Output)
	case event.Failure != nil:
		formatFailureDetails(w, event.Failure)
	case event.Observation != nil:
		formatObservationDetails(w, event.Observation)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenObservationID returns the first 8 characters of the observation ID.
func shortenObservationID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatInputDetails writes input-specific details.
func formatInputDetails(w io.Writer, in *log.InputEvent) {
	fmt.Fprintf(w, "  Value: %q\n", in.Value)
}

// formatTimerDetails writes timer-specific details.
func formatTimerDetails(w io.Writer, tm *log.TimerEvent) {
	fmt.Fprintf(w, "  QuietPeriod: %s\n", formatDuration(tm.QuietPeriod))
}

// formatAttemptDetails writes attempt-specific details.
func formatAttemptDetails(w io.Writer, att *log.AttemptEvent) {
	fmt.Fprintf(w, "  Input: %q\n", att.Input)
	if att.Latency != nil {
		fmt.Fprintf(w, "  Latency: %s\n", formatDuration(*att.Latency))
	}
	if att.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", att.Error)
	}
}

// formatOutputDetails writes output-specific details.
func formatOutputDetails(w io.Writer, out *log.OutputEvent) {
	fmt.Fprintf(w, "  Value: %q\n", out.Value)
	if out.PrevSeq > 0 {
		fmt.Fprintf(w, "  Replaces: #%d\n", out.PrevSeq)
	}
}

// formatFailureDetails writes failure details.
func formatFailureDetails(w io.Writer, f *log.FailureEvent) {
	fmt.Fprintf(w, "  Input: %q\n", f.Input)
	fmt.Fprintf(w, "  Message: %s\n", f.Message)
}

// formatObservationDetails writes observation lifecycle details.
func formatObservationDetails(w io.Writer, obs *log.ObservationEvent) {
	fmt.Fprintf(w, "  QuietPeriod: %s\n", formatDuration(obs.QuietPeriod))
	if obs.Policy != "" {
		fmt.Fprintf(w, "  Policy: %s\n", obs.Policy)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "input":
		return log.CategoryInput, nil
	case "timer":
		return log.CategoryTimer, nil
	case "attempt":
		return log.CategoryAttempt, nil
	case "output":
		return log.CategoryOutput, nil
	case "failure":
		return log.CategoryFailure, nil
	case "observation":
		return log.CategoryObservation, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be input, timer, attempt, output, failure, or observation)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open event file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if !filter.matches(event) {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
