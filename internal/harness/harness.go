package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agent-samples/harness/api"
	"github.com/agent-samples/harness/internal/agentyaml"
	"github.com/agent-samples/harness/internal/buildstage"
	"github.com/agent-samples/harness/internal/environment"
	"github.com/agent-samples/harness/internal/exercise"
	"github.com/agent-samples/harness/internal/gatherer"
	"github.com/agent-samples/harness/internal/probe"
	"github.com/agent-samples/harness/internal/profile"
	"github.com/agent-samples/harness/internal/supervisor"
)

const (
	testInputMaxLen  = 100
	stderrTailMaxLen = 500
)

// ResolveFunc classifies a sample directory into a runtime profile.
type ResolveFunc func(sampleDir string) profile.RuntimeProfile

// Harness brings one hosted agent sample to a running state, exercises
// it with a single synthetic request and tears it down.
type Harness struct {
	cfg     environment.Config
	gath    gatherer.RunGatherer
	logsDir string
	resolve ResolveFunc
}

// New creates a harness. logsDir is optional; when set, the child's
// captured output is written there as a compressed artifact.
func New(cfg environment.Config, gath gatherer.RunGatherer, logsDir string) *Harness {
	return NewWithResolver(cfg, gath, logsDir, profile.Resolve)
}

// NewWithResolver creates a harness with a custom profile resolver.
func NewWithResolver(cfg environment.Config, gath gatherer.RunGatherer, logsDir string, resolve ResolveFunc) *Harness {
	return &Harness{cfg: cfg, gath: gath, logsDir: logsDir, resolve: resolve}
}

// Run validates one sample directory and returns the single TestResult
// of the invocation. Errors from every stage are captured into the
// result; Run itself never fails. The child process, if one is ever
// spawned, is confirmed terminated before Run returns.
func (h *Harness) Run(samplePath string) api.TestResult {
	res := api.TestResult{
		Sample: samplePath,
		Name:   filepath.Base(samplePath),
	}
	defer func() {
		h.gath.FinishRun(res)
	}()

	h.gath.StartRun(api.SampleDescriptor{Path: samplePath, Name: res.Name})

	agentYamlPath := filepath.Join(samplePath, "agent.yaml")
	if !fileExists(agentYamlPath) {
		res.SetError("agent.yaml not found")
		return res
	}

	prof := h.resolve(samplePath)
	if prof.Variant == profile.Unsupported {
		res.SetError("unsupported sample layout: no main.py or *.csproj found")
		return res
	}
	res.Details.Language = prof.Language
	h.gath.ResolveProfile(string(prof.Variant), prof.Language)

	if !prof.HasEntryPoint(samplePath) {
		res.SetError("Program.cs not found")
		return res
	}

	testInput := agentyaml.TestInput(agentYamlPath)
	res.Details.TestInput = truncateInput(testInput)

	if len(prof.InstallCmd) > 0 {
		h.gath.StartInstall()
		out, err := buildstage.Run(prof.InstallCmd, samplePath, prof.BuildTimeout)
		if err != nil {
			if errors.Is(err, buildstage.ErrTimedOut) {
				res.SetError(fmt.Sprintf("Dependency install timed out after %s", prof.BuildTimeout))
			} else {
				res.SetError(fmt.Sprintf("Failed to install dependencies: %s", out))
			}
			return res
		}
	}

	if len(prof.BuildCmd) > 0 {
		h.gath.StartBuild()
		buildStart := time.Now()
		out, err := buildstage.Run(prof.BuildCmd, samplePath, prof.BuildTimeout)
		if err != nil {
			if errors.Is(err, buildstage.ErrTimedOut) {
				res.SetError(fmt.Sprintf("Build timed out after %s", prof.BuildTimeout))
			} else {
				res.SetError(fmt.Sprintf("Build failed: %s", out))
			}
			trimmed := gatherer.TrimStrToRect(out, gatherer.MaxOutputHeight, gatherer.MaxOutputWidth)
			res.Details.Build = &trimmed
			return res
		}
		h.gath.FinishBuild(out, time.Since(buildStart))
		ok := "ok"
		res.Details.Build = &ok
	}

	h.gath.StartServer(res.Name, prof.StartupTimeout)
	handle, err := supervisor.Spawn(prof.RunCmd, samplePath)
	if err != nil {
		res.SetError(fmt.Sprintf("Failed to start server process: %v", err))
		return res
	}
	// shutdown runs first, then the log artifact sees the full capture
	defer h.writeLogArtifact(handle, res.Name)
	defer handle.Shutdown(h.cfg.ShutdownGrace)

	prober := probe.New(h.cfg.BaseURL(), h.cfg.ProbeAttemptTimeout, h.cfg.ProbeInterval)
	probeOut := prober.WaitReady(prof.StartupTimeout)
	if !probeOut.Ready {
		// a crash during startup reads differently from a server that is
		// alive but never opened the port
		if !handle.Alive() {
			_, _, stderr := handle.ExitInfo()
			res.SetError(fmt.Sprintf("Server process exited unexpectedly. stderr: %s",
				truncate(stderr, stderrTailMaxLen)))
		} else {
			res.SetError(fmt.Sprintf("Server did not start within %d seconds",
				int(prof.StartupTimeout.Seconds())))
		}
		return res
	}
	res.Details.ServerStarted = true
	h.gath.ServerReady(probeOut.Elapsed)

	h.gath.StartRequest(testInput)
	ex := exercise.New(h.cfg.BaseURL(), h.cfg.RequestTimeout)
	reqOut, err := ex.Send(testInput)
	if reqOut.StatusCode != 0 {
		status := reqOut.StatusCode
		res.Details.ResponseStatus = &status
	}
	if err != nil {
		res.SetError(err.Error())
		return res
	}

	res.Success = true
	if reqOut.Preview != "" {
		preview := reqOut.Preview
		res.Details.ResponsePreview = &preview
	}
	return res
}

func truncateInput(s string) string {
	if len(s) > testInputMaxLen {
		return s[:testInputMaxLen] + "..."
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
