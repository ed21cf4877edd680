package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/settle-reactive/settle-go/pkg/log"
)

// RunExport exports the event file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open event file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Write header
	header := []string{"timestamp", "observation_id", "category", "seq", "type", "value", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		eventType := "unknown"
		value := ""
		errMsg := ""
		switch {
		case event.Input != nil:
			eventType = "input"
			if event.Input.Ignored {
				eventType = "input-ignored"
			}
			value = event.Input.Value
		case event.Timer != nil:
			eventType = event.Timer.Kind.String()
		case event.Attempt != nil:
			eventType = event.Attempt.State.String()
			value = event.Attempt.Input
			errMsg = event.Attempt.Error
		case event.Output != nil:
			eventType = "applied"
			value = event.Output.Value
		case event.Failure != nil:
			eventType = "failure"
			value = event.Failure.Input
			errMsg = event.Failure.Message
		case event.Observation != nil:
			eventType = event.Observation.Kind.String()
		}

		seq := ""
		if event.Seq > 0 {
			seq = fmt.Sprintf("%d", event.Seq)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.ObservationID,
			event.Category.String(),
			seq,
			eventType,
			value,
			errMsg,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
