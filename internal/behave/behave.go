package behave

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agent-samples/harness/api"
	"github.com/pelletier/go-toml/v2"
)

// SpecExpect describes the expected verdict for one scenario.
type SpecExpect struct {
	Success       bool   `toml:"success"`
	ErrorContains string `toml:"error_contains"`
}

// specScenario maps to [[scenarios]] entries in the behaviour file.
type specScenario struct {
	Description string     `toml:"description"`
	Sample      string     `toml:"sample"`
	Expect      SpecExpect `toml:"expect"`
}

type specRoot struct {
	Scenarios []specScenario `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML. Sample is resolved
// relative to the behaviour file's directory.
type Case struct {
	Name   string
	Sample string
	Expect SpecExpect
}

// Parse reads a behaviour TOML file and converts it to runnable cases.
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	baseDir := filepath.Dir(path)
	cases := make([]Case, 0, len(root.Scenarios))
	for i, sc := range root.Scenarios {
		if sc.Sample == "" {
			return nil, fmt.Errorf("scenario %d is missing a sample path", i)
		}
		sample := sc.Sample
		if !filepath.IsAbs(sample) {
			sample = filepath.Join(baseDir, sample)
		}
		name := sc.Description
		if name == "" {
			name = sc.Sample
		}
		cases = append(cases, Case{
			Name:   name,
			Sample: sample,
			Expect: sc.Expect,
		})
	}
	return cases, nil
}

// Check compares a harness result against the scenario's expectation.
func (c Case) Check(res api.TestResult) error {
	if res.Success != c.Expect.Success {
		return fmt.Errorf("scenario %q: expected success=%v, got success=%v (error: %v)",
			c.Name, c.Expect.Success, res.Success, errString(res.Error))
	}
	if c.Expect.ErrorContains != "" {
		if res.Error == nil || !strings.Contains(*res.Error, c.Expect.ErrorContains) {
			return fmt.Errorf("scenario %q: expected error containing %q, got %q",
				c.Name, c.Expect.ErrorContains, errString(res.Error))
		}
	}
	return nil
}

func errString(e *string) string {
	if e == nil {
		return ""
	}
	return *e
}
