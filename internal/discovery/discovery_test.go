package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agent-samples/harness/internal/discovery"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, root string, rel string, files ...string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}
}

func TestDiscoverFindsValidSamples(t *testing.T) {
	root := t.TempDir()
	writeSample(t, root, "samples/python/hosted-agents/langgraph/travel-agent",
		"agent.yaml", "main.py", "requirements.txt")
	writeSample(t, root, "samples/python/hosted-agents/semantic-kernel/weather-agent",
		"agent.yaml", "main.py", "requirements.txt")
	// missing requirements.txt, must be skipped
	writeSample(t, root, "samples/python/hosted-agents/langgraph/broken-agent",
		"agent.yaml", "main.py")
	writeSample(t, root, "samples/csharp/hosted-agents/agent-framework/chat-agent",
		"agent.yaml", "ChatAgent.csproj", "Program.cs")

	samples, err := discovery.Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	// sorted by path
	require.Equal(t, "samples/csharp/hosted-agents/agent-framework/chat-agent", samples[0].Path)
	require.Equal(t, "samples/python/hosted-agents/langgraph/travel-agent", samples[1].Path)
	require.Equal(t, "samples/python/hosted-agents/semantic-kernel/weather-agent", samples[2].Path)

	require.Equal(t, "csharp", samples[0].Language)
	require.Equal(t, "agent-framework", samples[0].Framework)
	require.Equal(t, "chat-agent", samples[0].Name)
	require.Equal(t, "python", samples[1].Language)
	require.Equal(t, "langgraph", samples[1].Framework)
}

func TestDiscoverFrameworkFallback(t *testing.T) {
	root := t.TempDir()
	// sample directly under the base directory has no framework component
	writeSample(t, root, "samples/python/hosted-agents/flat-agent",
		"agent.yaml", "main.py", "requirements.txt")

	samples, err := discovery.Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, "unknown", samples[0].Framework)
}

func TestDiscoverLanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeSample(t, root, "samples/python/hosted-agents/fw/a",
		"agent.yaml", "main.py", "requirements.txt")
	writeSample(t, root, "samples/csharp/hosted-agents/fw/b",
		"agent.yaml", "B.csproj", "Program.cs")

	samples, err := discovery.Discover(root, mapset.NewSet("csharp"))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, "csharp", samples[0].Language)
}

func TestDiscoverRejectsUnknownLanguage(t *testing.T) {
	_, err := discovery.Discover(t.TempDir(), mapset.NewSet("ruby"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported languages")
}

func TestDiscoverEmptyTree(t *testing.T) {
	samples, err := discovery.Discover(t.TempDir(), nil)
	require.NoError(t, err)
	require.Empty(t, samples)
}
