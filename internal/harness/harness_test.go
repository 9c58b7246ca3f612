package harness_test

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/agent-samples/harness/api"
	"github.com/agent-samples/harness/internal/environment"
	"github.com/agent-samples/harness/internal/harness"
	"github.com/agent-samples/harness/internal/profile"
	"github.com/stretchr/testify/require"
)

// recorder counts stage events so tests can assert which stages ran.
type recorder struct {
	events  []string
	results []api.TestResult
}

func (r *recorder) StartRun(api.SampleDescriptor)            { r.events = append(r.events, "start_run") }
func (r *recorder) ResolveProfile(string, string)            { r.events = append(r.events, "resolve") }
func (r *recorder) StartInstall()                            { r.events = append(r.events, "install") }
func (r *recorder) StartBuild()                              { r.events = append(r.events, "build") }
func (r *recorder) FinishBuild(string, time.Duration)        { r.events = append(r.events, "build_done") }
func (r *recorder) StartServer(string, time.Duration)        { r.events = append(r.events, "server") }
func (r *recorder) ServerReady(time.Duration)                { r.events = append(r.events, "ready") }
func (r *recorder) StartRequest(string)                      { r.events = append(r.events, "request") }
func (r *recorder) FinishRun(res api.TestResult) {
	r.events = append(r.events, "finish_run")
	r.results = append(r.results, res)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func testConfig(t *testing.T) environment.Config {
	t.Helper()
	cfg := environment.Default()
	cfg.Port = freePort(t)
	cfg.ProbeAttemptTimeout = 200 * time.Millisecond
	cfg.ProbeInterval = 50 * time.Millisecond
	cfg.RequestTimeout = 5 * time.Second
	cfg.ShutdownGrace = 2 * time.Second
	return cfg
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestRunMissingAgentYaml(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	res := harness.New(testConfig(t), rec, "").Run(dir)

	require.False(t, res.Success)
	require.NotNil(t, res.Error)
	require.Equal(t, "agent.yaml not found", *res.Error)
	require.Equal(t, filepath.Base(dir), res.Name)
	// no process is ever spawned for a missing descriptor
	require.Zero(t, rec.count("server"))
	require.Equal(t, 1, rec.count("finish_run"))
}

func TestRunUnsupportedLayout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", "name: a\n")
	rec := &recorder{}

	res := harness.New(testConfig(t), rec, "").Run(dir)

	require.False(t, res.Success)
	require.Contains(t, *res.Error, "unsupported sample layout")
	require.Zero(t, rec.count("server"))
}

func TestRunCompiledWithoutEntryPoint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", "name: a\n")
	writeFile(t, dir, "App.csproj", "<Project/>")
	rec := &recorder{}

	res := harness.New(testConfig(t), rec, "").Run(dir)

	require.False(t, res.Success)
	require.Equal(t, "Program.cs not found", *res.Error)
	require.Zero(t, rec.count("build"))
	require.Zero(t, rec.count("server"))
}

func stubResolver(p profile.RuntimeProfile) harness.ResolveFunc {
	return func(string) profile.RuntimeProfile { return p }
}

func TestRunInstallFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", "name: a\n")
	rec := &recorder{}

	h := harness.NewWithResolver(testConfig(t), rec, "", stubResolver(profile.RuntimeProfile{
		Variant:        profile.InterpretedScript,
		Language:       "python",
		InstallCmd:     []string{"sh", "-c", "echo 'No matching distribution found'; exit 1"},
		RunCmd:         []string{"sleep", "30"},
		BuildTimeout:   10 * time.Second,
		StartupTimeout: 2 * time.Second,
	}))
	res := h.Run(dir)

	require.False(t, res.Success)
	require.Contains(t, *res.Error, "Failed to install dependencies:")
	require.Contains(t, *res.Error, "No matching distribution found")
	require.Zero(t, rec.count("server"))
}

func TestRunBuildFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", "name: a\n")
	rec := &recorder{}

	h := harness.NewWithResolver(testConfig(t), rec, "", stubResolver(profile.RuntimeProfile{
		Variant:        profile.CompiledProject,
		Language:       "csharp",
		BuildCmd:       []string{"sh", "-c", "echo 'error CS0103: name does not exist'; exit 1"},
		RunCmd:         []string{"sleep", "30"},
		BuildTimeout:   10 * time.Second,
		StartupTimeout: 2 * time.Second,
	}))
	// compiled entry point check is bypassed by the stub resolver only if
	// Program.cs exists
	writeFile(t, dir, "Program.cs", "class P {}")
	res := h.Run(dir)

	require.False(t, res.Success)
	require.Contains(t, *res.Error, "Build failed:")
	require.Contains(t, *res.Error, "error CS0103")
	require.NotNil(t, res.Details.Build)
	// no run attempted, no readiness polling performed
	require.Zero(t, rec.count("server"))
	require.Zero(t, rec.count("ready"))
}

func TestRunBuildTimeoutIsDistinct(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", "name: a\n")
	writeFile(t, dir, "Program.cs", "class P {}")
	rec := &recorder{}

	h := harness.NewWithResolver(testConfig(t), rec, "", stubResolver(profile.RuntimeProfile{
		Variant:        profile.CompiledProject,
		Language:       "csharp",
		BuildCmd:       []string{"sleep", "30"},
		RunCmd:         []string{"sleep", "30"},
		BuildTimeout:   200 * time.Millisecond,
		StartupTimeout: 2 * time.Second,
	}))
	res := h.Run(dir)

	require.False(t, res.Success)
	require.Contains(t, *res.Error, "Build timed out after")
	require.NotContains(t, *res.Error, "Build failed:")
}

func TestRunServerCrashDuringStartup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", "name: a\n")
	rec := &recorder{}

	h := harness.NewWithResolver(testConfig(t), rec, "", stubResolver(profile.RuntimeProfile{
		Variant:        profile.InterpretedScript,
		Language:       "python",
		RunCmd:         []string{"sh", "-c", "echo 'ModuleNotFoundError: agent_sdk' >&2; exit 1"},
		StartupTimeout: 1 * time.Second,
	}))
	res := h.Run(dir)

	require.False(t, res.Success)
	require.Contains(t, *res.Error, "Server process exited unexpectedly")
	require.Contains(t, *res.Error, "ModuleNotFoundError: agent_sdk")
}

func TestRunServerNeverReachable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", "name: a\n")
	rec := &recorder{}

	h := harness.NewWithResolver(testConfig(t), rec, "", stubResolver(profile.RuntimeProfile{
		Variant:        profile.InterpretedScript,
		Language:       "python",
		RunCmd:         []string{"sleep", "30"},
		StartupTimeout: 1 * time.Second,
	}))
	res := h.Run(dir)

	require.False(t, res.Success)
	require.Contains(t, *res.Error, "Server did not start within 1 seconds")
	require.NotContains(t, *res.Error, "exited unexpectedly")
}

// The full flow with a real HTTP endpoint: a stand-in server is bound to
// the harness port while the spawned child just sleeps.
func TestRunSuccess(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", `
metadata:
  example:
    - role: user
      content: Hi
`)
	cfg := testConfig(t)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /responses", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Hi", req["input"])
		require.Equal(t, false, req["stream"])
		_ = json.NewEncoder(w).Encode(map[string]string{"output_text": "I am a test agent."})
	})
	srv := &http.Server{Addr: "127.0.0.1:" + strconv.Itoa(cfg.Port), Handler: mux}
	l, err := net.Listen("tcp", srv.Addr)
	require.NoError(t, err)
	go func() { _ = srv.Serve(l) }()
	defer srv.Close()

	rec := &recorder{}
	logsDir := filepath.Join(t.TempDir(), "logs")
	h := harness.NewWithResolver(cfg, rec, logsDir, stubResolver(profile.RuntimeProfile{
		Variant:        profile.InterpretedScript,
		Language:       "python",
		RunCmd:         []string{"sh", "-c", "echo serving; sleep 30"},
		StartupTimeout: 10 * time.Second,
	}))
	res := h.Run(dir)

	require.Nil(t, res.Error)
	require.True(t, res.Success)
	require.Equal(t, "python", res.Details.Language)
	require.Equal(t, "Hi", res.Details.TestInput)
	require.True(t, res.Details.ServerStarted)
	require.NotNil(t, res.Details.ResponseStatus)
	require.Equal(t, http.StatusOK, *res.Details.ResponseStatus)
	require.NotNil(t, res.Details.ResponsePreview)
	require.Equal(t, "I am a test agent.", *res.Details.ResponsePreview)

	require.Equal(t, []string{"start_run", "resolve", "server", "ready", "request", "finish_run"}, rec.events)

	// the log artifact is written after shutdown confirmed termination
	_, err = os.Stat(filepath.Join(logsDir, res.Name+".log.zst"))
	require.NoError(t, err)
}

func TestRunTruncatesLongTestInput(t *testing.T) {
	dir := t.TempDir()
	long := ""
	for range 30 {
		long += "weather "
	}
	writeFile(t, dir, "agent.yaml", "metadata:\n  example:\n    - role: user\n      content: "+long+"\n")
	rec := &recorder{}

	h := harness.NewWithResolver(testConfig(t), rec, "", stubResolver(profile.RuntimeProfile{
		Variant:        profile.InterpretedScript,
		Language:       "python",
		RunCmd:         []string{"sh", "-c", "exit 0"},
		StartupTimeout: 500 * time.Millisecond,
	}))
	res := h.Run(dir)

	require.Len(t, res.Details.TestInput, 103) // 100 chars + "..."
}

// End-to-end with a real interpreted sample; needs python3 with pip.
func TestRunRealPythonSample(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	if err := exec.Command("python3", "-m", "pip", "--version").Run(); err != nil {
		t.Skip("pip not available")
	}

	cfg := testConfig(t)
	dir := t.TempDir()
	writeFile(t, dir, "agent.yaml", `
metadata:
  example:
    - role: user
      content: Hi
`)
	writeFile(t, dir, "requirements.txt", "")
	writeFile(t, dir, "main.py", `
import json
from http.server import BaseHTTPRequestHandler, HTTPServer

class Handler(BaseHTTPRequestHandler):
    def do_POST(self):
        body = json.dumps({"output_text": "hello from sample"}).encode()
        self.send_response(200)
        self.send_header("Content-Type", "application/json")
        self.end_headers()
        self.wfile.write(body)

    def log_message(self, *args):
        pass

HTTPServer(("127.0.0.1", `+strconv.Itoa(cfg.Port)+`), Handler).serve_forever()
`)

	rec := &recorder{}
	res := harness.New(cfg, rec, "").Run(dir)

	require.Nil(t, res.Error)
	require.True(t, res.Success)
	require.Equal(t, "hello from sample", *res.Details.ResponsePreview)
}
