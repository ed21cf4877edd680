// Command settle-lab is an interactive stabilizer playground.
//
// It wires a scriptable echo resolver into a Stabilizer and exposes the
// observation through a command prompt: feed inputs, tune resolver latency
// and failures, and watch which attempts get applied, superseded, or
// surfaced as failures.
//
// Usage:
//
//	settle-lab [flags]
//
// Flags:
//
//	-quiet duration   Quiet period (default 300ms)
//	-policy string    Overlap policy: concurrent, single-flight (default "concurrent")
//	-delay duration   Initial resolver latency (default 0)
//	-log string       Write CBOR events to this file (viewable with settle-log)
//	-history int      Attempt history capacity (default 32)
//
// Examples:
//
//	# Defaults: 300ms quiet period, instant resolver
//	settle-lab
//
//	# Slow resolver with a short quiet period, capturing events
//	settle-lab -quiet 100ms -delay 500ms -log lab.sevt
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/settle-reactive/settle-go/cmd/settle-lab/interactive"
	"github.com/settle-reactive/settle-go/pkg/examples"
	"github.com/settle-reactive/settle-go/pkg/log"
	"github.com/settle-reactive/settle-go/pkg/settle"
	"github.com/settle-reactive/settle-go/pkg/version"
)

func main() {
	quiet := flag.Duration("quiet", settle.DefaultQuietPeriod, "Quiet period")
	policyName := flag.String("policy", "concurrent", "Overlap policy: concurrent, single-flight")
	delay := flag.Duration("delay", 0, "Initial resolver latency")
	logPath := flag.String("log", "", "Write CBOR events to this file")
	history := flag.Int("history", settle.DefaultMaxHistory, "Attempt history capacity")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("settle-lab %s\n", version.Current)
		return
	}

	policy, err := settle.ParsePolicy(*policyName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	script := examples.NewScripted()
	script.SetDefaultLatency(*delay)

	cfg := settle.Config{
		QuietPeriod: *quiet,
		Policy:      policy,
		MaxHistory:  *history,
	}

	var fileLogger *log.FileLogger
	if *logPath != "" {
		fileLogger, err = log.NewFileLogger(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open event log: %v\n", err)
			os.Exit(1)
		}
		defer fileLogger.Close()
		cfg.Logger = fileLogger
	}

	st, err := settle.NewStabilizerWithConfig[string, string](script.Resolve, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	lab, err := interactive.New(st, script, *delay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("settle-lab %s  quiet=%s policy=%s observation=%s\n",
		version.Current, *quiet, policy, shortID(st.ObservationID()))
	if *logPath != "" {
		fmt.Printf("capturing events to %s\n", *logPath)
	}
	if *delay > 0 {
		fmt.Printf("resolver latency: %s\n", *delay)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lab.Run(ctx, cancel)

	// Let in-flight completions land in the event log before closing.
	if fileLogger != nil {
		time.Sleep(50 * time.Millisecond)
	}
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
