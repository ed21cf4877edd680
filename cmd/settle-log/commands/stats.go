package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/settle-reactive/settle-go/pkg/log"
)

// Stats holds aggregate statistics about an event file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	AttemptsByState  map[log.AttemptState]int
	Observations     map[string]*ObservationStats
	Failures         int
	IgnoredInputs    int

	// Resolve latency across applied attempts.
	LatencyMin   time.Duration
	LatencyMax   time.Duration
	LatencySum   time.Duration
	LatencyCount int

	TimeRange struct {
		Start time.Time
		End   time.Time
	}
}

// ObservationStats holds statistics for a single observation.
type ObservationStats struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	Attempts    int
	Applied     int
	Superseded  int
	QuietPeriod time.Duration
	Policy      string
}

// SupersedeRatio returns the fraction of terminal attempts that were
// superseded, or zero when no attempt reached a terminal state.
func (s *Stats) SupersedeRatio() float64 {
	terminal := s.AttemptsByState[log.AttemptResolved] +
		s.AttemptsByState[log.AttemptSuperseded] +
		s.AttemptsByState[log.AttemptFailed]
	if terminal == 0 {
		return 0
	}
	return float64(s.AttemptsByState[log.AttemptSuperseded]) / float64(terminal)
}

// RunStats analyzes the event file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open event file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		AttemptsByState:  make(map[log.AttemptState]int),
		Observations:     make(map[string]*ObservationStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track observation stats
		obs, ok := stats.Observations[event.ObservationID]
		if !ok {
			obs = &ObservationStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Observations[event.ObservationID] = obs
		}
		obs.Events++
		if event.Timestamp.After(obs.LastSeen) {
			obs.LastSeen = event.Timestamp
		}

		if event.Observation != nil {
			obs.QuietPeriod = event.Observation.QuietPeriod
			if event.Observation.Policy != "" {
				obs.Policy = event.Observation.Policy
			}
		}

		if event.Input != nil && event.Input.Ignored {
			stats.IgnoredInputs++
		}

		if event.Attempt != nil {
			stats.AttemptsByState[event.Attempt.State]++
			switch event.Attempt.State {
			case log.AttemptPending:
				obs.Attempts++
			case log.AttemptResolved:
				obs.Applied++
				if event.Attempt.Latency != nil {
					latency := *event.Attempt.Latency
					if stats.LatencyCount == 0 || latency < stats.LatencyMin {
						stats.LatencyMin = latency
					}
					if latency > stats.LatencyMax {
						stats.LatencyMax = latency
					}
					stats.LatencySum += latency
					stats.LatencyCount++
				}
			case log.AttemptSuperseded:
				obs.Superseded++
			}
		}

		if event.Failure != nil {
			stats.Failures++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Stabilizer Event Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryInput, log.CategoryTimer, log.CategoryAttempt, log.CategoryOutput, log.CategoryFailure, log.CategoryObservation} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	if stats.IgnoredInputs > 0 {
		fmt.Fprintf(w, "  (%d inputs ignored as unchanged)\n", stats.IgnoredInputs)
	}
	fmt.Fprintln(w)

	// Attempts by final state
	fmt.Fprintln(w, "Attempts by State:")
	for _, state := range []log.AttemptState{log.AttemptPending, log.AttemptResolved, log.AttemptSuperseded, log.AttemptFailed} {
		if count := stats.AttemptsByState[state]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", state.String()+":", count)
		}
	}
	if ratio := stats.SupersedeRatio(); ratio > 0 {
		fmt.Fprintf(w, "  Supersede Ratio: %.1f%%\n", ratio*100)
	}
	fmt.Fprintln(w)

	// Resolve latency
	if stats.LatencyCount > 0 {
		avg := stats.LatencySum / time.Duration(stats.LatencyCount)
		fmt.Fprintln(w, "Applied Resolve Latency:")
		fmt.Fprintf(w, "  Min: %s\n", formatDuration(stats.LatencyMin))
		fmt.Fprintf(w, "  Avg: %s\n", formatDuration(avg))
		fmt.Fprintf(w, "  Max: %s\n", formatDuration(stats.LatencyMax))
		fmt.Fprintln(w)
	}

	// Failures
	if stats.Failures > 0 {
		fmt.Fprintf(w, "Surfaced Failures: %d\n", stats.Failures)
		fmt.Fprintln(w)
	}

	// Observations
	fmt.Fprintf(w, "Observations: %d\n", len(stats.Observations))
	if len(stats.Observations) > 0 {
		// Sort by first seen time
		type obsInfo struct {
			id    string
			stats *ObservationStats
		}
		infos := make([]obsInfo, 0, len(stats.Observations))
		for id, os := range stats.Observations {
			infos = append(infos, obsInfo{id, os})
		}
		sort.Slice(infos, func(i, j int) bool {
			return infos[i].stats.FirstSeen.Before(infos[j].stats.FirstSeen)
		})

		for _, info := range infos {
			fmt.Fprintf(w, "  %s  events=%d attempts=%d applied=%d superseded=%d",
				shortenObservationID(info.id),
				info.stats.Events,
				info.stats.Attempts,
				info.stats.Applied,
				info.stats.Superseded)
			if info.stats.QuietPeriod > 0 {
				fmt.Fprintf(w, " quiet=%s", info.stats.QuietPeriod)
			}
			if info.stats.Policy != "" {
				fmt.Fprintf(w, " policy=%s", info.stats.Policy)
			}
			fmt.Fprintln(w)
		}
	}
}
