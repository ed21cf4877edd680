// Command settle-search is a terminal demo of debounced fuzzy search.
//
// Keystrokes feed a Stabilizer; after the quiet period elapses the
// dictionary resolver ranks the word list against the query, and only the
// newest attempt's matches reach the screen. Crank up -latency and type
// fast to watch attempts get superseded.
//
// Usage:
//
//	settle-search [flags]
//
// Flags:
//
//	-quiet duration    Quiet period (default 300ms)
//	-latency duration  Simulated resolver latency (default 150ms)
//	-single-flight     Cancel the previous attempt when a new one starts
//	-log string        Write CBOR events to this file (viewable with settle-log)
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/settle-reactive/settle-go/pkg/log"
	"github.com/settle-reactive/settle-go/pkg/settle"
	"github.com/settle-reactive/settle-go/pkg/version"
)

func main() {
	quiet := flag.Duration("quiet", settle.DefaultQuietPeriod, "Quiet period")
	latency := flag.Duration("latency", 150*time.Millisecond, "Simulated resolver latency")
	singleFlight := flag.Bool("single-flight", false, "Cancel the previous attempt when a new one starts")
	logPath := flag.String("log", "", "Write CBOR events to this file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("settle-search %s\n", version.Current)
		return
	}

	cfg := settle.Config{QuietPeriod: *quiet}
	if *singleFlight {
		cfg.Policy = settle.PolicySingleFlight
	}

	var fileLogger *log.FileLogger
	if *logPath != "" {
		var err error
		fileLogger, err = log.NewFileLogger(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open event log: %v\n", err)
			os.Exit(1)
		}
		defer fileLogger.Close()
		cfg.Logger = fileLogger
	}

	m, err := newModel(cfg, *latency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer m.close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
