package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/settle-reactive/settle-go/pkg/log"
)

// createTestEventFile writes events to a temp CBOR event file and returns
// its path.
func createTestEventFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.sevt")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 15, 32, 123456000, time.UTC)
	events := []log.Event{
		{
			Timestamp:     ts,
			ObservationID: "obs-1",
			Category:      log.CategoryInput,
			Input:         &log.InputEvent{Value: "hel"},
		},
		{
			Timestamp:     ts.Add(time.Second),
			ObservationID: "obs-1",
			Category:      log.CategoryOutput,
			Seq:           1,
			Output:        &log.OutputEvent{Value: "HELLO"},
		},
	}

	path := createTestEventFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}

	// Each line must be valid JSON
	for i, line := range lines {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:     ts,
			ObservationID: "obs-1",
			Category:      log.CategoryAttempt,
			Seq:           2,
			Attempt:       &log.AttemptEvent{State: log.AttemptSuperseded, Input: "old"},
		},
	}

	path := createTestEventFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	output := string(data)

	if !strings.Contains(output, "timestamp,observation_id,category,seq,type,value,error") {
		t.Errorf("expected CSV header, got: %s", output)
	}
	if !strings.Contains(output, "SUPERSEDED") {
		t.Errorf("expected superseded attempt row, got: %s", output)
	}
	if !strings.Contains(output, "old") {
		t.Errorf("expected attempt input in row, got: %s", output)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestEventFile(t, []log.Event{
		{Timestamp: time.Now(), ObservationID: "obs-1", Category: log.CategoryInput, Input: &log.InputEvent{Value: "x"}},
	})

	err := RunExport(path, "xml", "")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got: %v", err)
	}
}
