package agentyaml

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTestInput is used when agent.yaml declares no usable example.
const DefaultTestInput = "Hello, please introduce yourself briefly."

type exampleEntry struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

type agentConfig struct {
	Metadata struct {
		Example []exampleEntry `yaml:"example"`
	} `yaml:"metadata"`
}

// Extract returns the first user-role example content from an agent.yaml
// document, and whether one was found.
func Extract(data []byte) (string, bool) {
	var cfg agentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", false
	}

	for _, ex := range cfg.Metadata.Example {
		if ex.Role == "user" && ex.Content != "" {
			return ex.Content, true
		}
	}
	return "", false
}

// TestInput reads agent.yaml and extracts the declared example input.
// Extraction failures are logged as warnings and fall back to the
// default; they never abort a run.
func TestInput(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("could not read agent.yaml for test input", "error", err)
		return DefaultTestInput
	}

	var cfg agentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("could not parse agent.yaml for test input", "error", err)
		return DefaultTestInput
	}

	for _, ex := range cfg.Metadata.Example {
		if ex.Role == "user" && ex.Content != "" {
			return ex.Content
		}
	}
	return DefaultTestInput
}
