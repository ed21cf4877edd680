package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/settle-reactive/settle-go/pkg/settle"
	"github.com/settle-reactive/settle-go/pkg/version"
)

// ParseScenario parses a scenario from YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if err := validateScenario(&sc); err != nil {
		return nil, err
	}

	return &sc, nil
}

func validateScenario(sc *Scenario) error {
	if sc.ID == "" {
		return &LoadError{Message: "scenario ID is required"}
	}

	if sc.Requires != "" {
		required, err := version.Parse(sc.Requires)
		if err != nil {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s: invalid requires version", sc.ID),
				Cause:   err,
			}
		}
		current, _ := version.Parse(version.Current)
		if !current.Compatible(required) {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s requires harness version %s, this harness is %s",
					sc.ID, sc.Requires, version.Current),
			}
		}
	}

	if sc.QuietPeriodMS < 0 {
		return &LoadError{
			Message: fmt.Sprintf("scenario %s: quiet_period_ms must not be negative", sc.ID),
		}
	}

	if sc.Policy != "" {
		if _, err := settle.ParsePolicy(sc.Policy); err != nil {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s: invalid policy", sc.ID),
				Cause:   err,
			}
		}
	}

	if sc.Resolver.DefaultLatencyMS < 0 {
		return &LoadError{
			Message: fmt.Sprintf("scenario %s: default_latency_ms must not be negative", sc.ID),
		}
	}
	for input, ms := range sc.Resolver.LatenciesMS {
		if ms < 0 {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s: latency for input %q must not be negative", sc.ID, input),
			}
		}
	}

	if len(sc.Steps) == 0 {
		return &LoadError{
			Message: fmt.Sprintf("scenario %s must have at least one step", sc.ID),
		}
	}

	prevAt := 0
	for i := range sc.Steps {
		step := &sc.Steps[i]
		if step.AtMS < 0 {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s step %d: at_ms must not be negative", sc.ID, i),
			}
		}
		if step.AtMS < prevAt {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s step %d: at_ms %d is before previous step at %d",
					sc.ID, i, step.AtMS, prevAt),
			}
		}
		prevAt = step.AtMS

		if step.Set == nil && !step.Close && step.Expect == nil {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s step %d: needs a set, close, or expect", sc.ID, i),
			}
		}
		if step.Expect != nil && step.Expect.Empty() {
			return &LoadError{
				Message: fmt.Sprintf("scenario %s step %d: expect block is empty", sc.ID, i),
			}
		}
	}

	if sc.SettleMS < 0 {
		return &LoadError{
			Message: fmt.Sprintf("scenario %s: settle_ms must not be negative", sc.ID),
		}
	}
	if sc.Final != nil && sc.Final.Empty() {
		return &LoadError{
			Message: fmt.Sprintf("scenario %s: final block is empty", sc.ID),
		}
	}

	return nil
}

// LoadScenario loads a scenario from a file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	sc, err := ParseScenario(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return sc, nil
}

// LoadDirectory loads all scenarios from a directory.
// Only files with .yaml or .yml extensions are loaded.
func LoadDirectory(dir string) ([]*Scenario, error) {
	var scenarios []*Scenario

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{
			File:    dir,
			Message: "failed to read directory",
			Cause:   err,
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}

		scenarios = append(scenarios, sc)
	}

	return scenarios, nil
}
