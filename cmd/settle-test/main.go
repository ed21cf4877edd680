// Command settle-test runs timing scenarios against real stabilizers.
//
// Scenarios are YAML files describing timed inputs, scripted resolver
// behavior, and expected stabilizer state. The runner executes them on
// a real clock and reports pass/fail results.
//
// Usage:
//
//	settle-test [flags] [scenario-pattern]
//
// Flags:
//
//	-scenarios string   Path to scenario directory (default "./testdata/scenarios")
//	-settle duration    Default settle window after the last step (default 1s)
//	-verbose            Enable verbose output
//	-json               Output results as JSON
//	-junit              Output results as JUnit XML
//	-stop-on-failure    Stop the suite after the first failed scenario
//	-event-log string   File path for stabilizer event logging (CBOR format)
//
// Examples:
//
//	# Run all scenarios in the default directory
//	settle-test
//
//	# Run scenarios matching a glob pattern, with event capture
//	settle-test -event-log run.sevt "SC-QUIET-*"
//
//	# JSON output for CI
//	settle-test -json -scenarios ./testdata/scenarios
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/settle-reactive/settle-go/internal/testharness/loader"
	"github.com/settle-reactive/settle-go/internal/testharness/reporter"
	"github.com/settle-reactive/settle-go/internal/testharness/runner"
	settlelog "github.com/settle-reactive/settle-go/pkg/log"
	"github.com/settle-reactive/settle-go/pkg/version"
)

var (
	scenarioDir   = flag.String("scenarios", "./testdata/scenarios", "Path to scenario directory")
	settleWindow  = flag.Duration("settle", time.Second, "Default settle window after the last step")
	verbose       = flag.Bool("verbose", false, "Enable verbose output")
	jsonOut       = flag.Bool("json", false, "Output results as JSON")
	junitOut      = flag.Bool("junit", false, "Output results as JUnit XML")
	stopOnFailure = flag.Bool("stop-on-failure", false, "Stop the suite after the first failed scenario")
	eventLog      = flag.String("event-log", "", "File path for stabilizer event logging (CBOR format)")
	showVersion   = flag.Bool("version", false, "Print harness version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("settle-test harness %s\n", version.Current)
		return
	}

	// Get optional scenario pattern
	pattern := ""
	if flag.NArg() > 0 {
		pattern = flag.Arg(0)
	}

	scenarios, err := loader.LoadDirectory(*scenarioDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if pattern != "" {
		scenarios, err = filterScenarios(scenarios, pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid pattern %q: %v\n", pattern, err)
			os.Exit(1)
		}
	}

	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scenarios matched")
		os.Exit(1)
	}

	// Set up event logging if requested
	var eventLogger *settlelog.FileLogger
	if *eventLog != "" {
		eventLogger, err = settlelog.NewFileLogger(*eventLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create event logger: %v\n", err)
			os.Exit(1)
		}
		defer eventLogger.Close()
	}

	config := &runner.Config{
		DefaultSettle:      *settleWindow,
		StopOnFirstFailure: *stopOnFailure,
	}
	// Only set logger when non-nil to avoid typed-nil interface issue.
	if eventLogger != nil {
		config.Logger = eventLogger
	}

	var rep reporter.Reporter
	switch {
	case *jsonOut:
		rep = reporter.NewJSONReporter(os.Stdout, true)
	case *junitOut:
		rep = reporter.NewJUnitReporter(os.Stdout)
	default:
		rep = reporter.NewTextReporter(os.Stdout, *verbose)
		fmt.Printf("settle-test harness %s\n", version.Current)
		fmt.Printf("Scenarios: %s (%d loaded)\n", *scenarioDir, len(scenarios))
		if pattern != "" {
			fmt.Printf("Pattern: %s\n", pattern)
		}
		if *eventLog != "" {
			fmt.Printf("Event log: %s\n", *eventLog)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	r := runner.NewWithConfig(config)
	result := r.RunSuite(ctx, scenarios)

	rep.ReportSuite(result)

	if result.FailCount > 0 {
		if eventLogger != nil {
			eventLogger.Close()
		}
		os.Exit(1)
	}
}

// filterScenarios keeps scenarios whose ID matches the glob pattern.
// A pattern without glob metacharacters matches as a prefix.
func filterScenarios(scenarios []*loader.Scenario, pattern string) ([]*loader.Scenario, error) {
	// Validate the pattern once up front.
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, err
	}

	hasMeta := false
	for _, c := range pattern {
		if c == '*' || c == '?' || c == '[' {
			hasMeta = true
			break
		}
	}

	var matched []*loader.Scenario
	for _, sc := range scenarios {
		if hasMeta {
			ok, _ := filepath.Match(pattern, sc.ID)
			if ok {
				matched = append(matched, sc)
			}
		} else if len(sc.ID) >= len(pattern) && sc.ID[:len(pattern)] == pattern {
			matched = append(matched, sc)
		}
	}
	return matched, nil
}
