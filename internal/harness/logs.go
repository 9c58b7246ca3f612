package harness

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agent-samples/harness/internal/supervisor"
	"github.com/klauspost/compress/zstd"
)

// writeLogArtifact saves the child's captured stdout/stderr as a
// zstd-compressed file for CI artifact upload. Called after shutdown so
// the capture is complete.
func (h *Harness) writeLogArtifact(handle *supervisor.Handle, name string) {
	if h.logsDir == "" {
		return
	}

	if err := os.MkdirAll(h.logsDir, 0755); err != nil {
		slog.Warn("failed to create logs directory", "error", err)
		return
	}

	path := filepath.Join(h.logsDir, name+".log.zst")
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("failed to create log artifact", "error", err)
		return
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		slog.Warn("failed to create zstd writer", "error", err)
		return
	}
	defer w.Close()

	_, _ = fmt.Fprintf(w, "--- stdout ---\n%s\n--- stderr ---\n%s\n",
		handle.StdoutTail(), handle.StderrTail())
}
