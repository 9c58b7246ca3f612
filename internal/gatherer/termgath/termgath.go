package termgath

import (
	"fmt"
	"strings"
	"time"

	"github.com/agent-samples/harness/api"
	"github.com/fatih/color"
)

// TerminalGatherer prints human-readable progress lines to stdout while
// a sample is being validated.
type TerminalGatherer struct {
	name      string
	startedAt time.Time
}

func New() *TerminalGatherer { return &TerminalGatherer{startedAt: time.Now()} }

func (t *TerminalGatherer) StartRun(sample api.SampleDescriptor) {
	t.name = sample.Name
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Testing sample: %s\n", sample.Name)
	fmt.Printf("Path: %s\n", sample.Path)
	fmt.Println(strings.Repeat("=", 60))
}

func (t *TerminalGatherer) ResolveProfile(variant string, language string) {
	fmt.Printf("Detected %s sample (%s)\n", language, variant)
}

func (t *TerminalGatherer) StartInstall() {
	fmt.Println("Installing dependencies from requirements.txt...")
}

func (t *TerminalGatherer) StartBuild() {
	fmt.Println("Building project (release configuration)...")
}

func (t *TerminalGatherer) FinishBuild(output string, wall time.Duration) {
	fmt.Printf("Build finished in %s\n", wall.Round(time.Millisecond))
}

func (t *TerminalGatherer) StartServer(name string, startupTimeout time.Duration) {
	fmt.Printf("Starting server for %s...\n", name)
	fmt.Printf("Waiting for server to start (timeout: %ds)...\n", int(startupTimeout.Seconds()))
}

func (t *TerminalGatherer) ServerReady(elapsed time.Duration) {
	fmt.Println("Server is ready. Sending test request...")
}

func (t *TerminalGatherer) StartRequest(testInput string) {}

func (t *TerminalGatherer) FinishRun(result api.TestResult) {
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	if result.Success {
		status := 0
		if result.Details.ResponseStatus != nil {
			status = *result.Details.ResponseStatus
		}
		color.Green("✅ Test passed! Status: %d (%s)", status, dur)
		return
	}

	msg := ""
	if result.Error != nil {
		msg = *result.Error
	}
	color.Red("❌ Test failed! %s (%s)", msg, dur)
}
