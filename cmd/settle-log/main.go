// Command settle-log is a tool for viewing and analyzing stabilizer event
// log files.
//
// Event files are created by passing a log.FileLogger to a Stabilizer (the
// settle-lab and settle-search commands do this with the -log flag).
//
// Usage:
//
//	settle-log <command> [flags] <file.sevt>
//
// Commands:
//
//	view     View event file in human-readable format
//	export   Export event file to JSON or CSV format
//	filter   Filter event file and write to new file
//	stats    Show statistics about the event file
//
// Examples:
//
//	# View all events
//	settle-log view search.sevt
//
//	# View only attempt lifecycle events
//	settle-log view -category attempt search.sevt
//
//	# Export to JSONL
//	settle-log export -format jsonl search.sevt
//
//	# Filter by observation and save to new file
//	settle-log filter -observation 8f14e45f -o filtered.sevt search.sevt
//
//	# Show statistics
//	settle-log stats search.sevt
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/settle-reactive/settle-go/cmd/settle-log/commands"
)

const usage = `settle-log - Stabilizer Event Log Analyzer

Usage:
  settle-log <command> [flags] <file.sevt>

Commands:
  view     View event file in human-readable format
  export   Export event file to JSON or CSV format
  filter   Filter event file and write to new file
  stats    Show statistics about the event file

Use "settle-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `settle-log view - View event file in human-readable format

Usage:
  settle-log view [flags] <file.sevt>

Flags:
`)
		fs.PrintDefaults()
	}

	category := fs.String("category", "", "Filter by category (input, timer, attempt, output, failure, observation)")
	observation := fs.String("observation", "", "Filter by observation ID (prefix match)")
	minSeq := fs.Uint64("min-seq", 0, "Filter attempt-scoped events at or above this sequence number")
	since := fs.String("since", "", "Show only events at or after this time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: event file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	var filter commands.ViewFilter
	filter.ObservationPrefix = *observation

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Category = &c
	}

	if *minSeq > 0 {
		filter.MinSeq = minSeq
	}

	if *since != "" {
		t, err := time.Parse(time.RFC3339, *since)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid since time: %v\n", err)
			os.Exit(1)
		}
		filter.Since = &t
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `settle-log export - Export event file to JSON or CSV format

Usage:
  settle-log export [flags] <file.sevt>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: event file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `settle-log filter - Filter event file and write to new file

Usage:
  settle-log filter [flags] <file.sevt>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	observation := fs.String("observation", "", "Filter by observation ID (exact match)")
	category := fs.String("category", "", "Filter by category (input, timer, attempt, output, failure, observation)")
	minSeq := fs.Uint64("min-seq", 0, "Filter attempt-scoped events at or above this sequence number")
	maxSeq := fs.Uint64("max-seq", 0, "Filter attempt-scoped events at or below this sequence number")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: event file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:        *output,
		ObservationID: *observation,
		Category:      *category,
		MinSeq:        *minSeq,
		MaxSeq:        *maxSeq,
		TimeStart:     *timeStart,
		TimeEnd:       *timeEnd,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `settle-log stats - Show statistics about the event file

Usage:
  settle-log stats <file.sevt>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: event file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
