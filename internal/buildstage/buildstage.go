package buildstage

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimedOut marks a build tool run that exceeded its wall-clock limit,
// as opposed to one that finished with a non-zero exit.
var ErrTimedOut = errors.New("timed out")

// pipeWaitDelay bounds how long CombinedOutput keeps waiting for pipe
// EOF once the deadline has killed the direct child. Build tools leave
// helper processes behind (MSBuild node reuse) that inherit the write
// ends and outlive the build.
const pipeWaitDelay = 2 * time.Second

// Run executes a build tool command in the sample directory with a hard
// wall-clock timeout and returns its combined stdout+stderr. Build tools
// routinely print diagnostics to stdout, so both streams are one payload.
//
// On non-zero exit the combined output is still returned next to the
// error. On timeout the returned error wraps ErrTimedOut.
func Run(argv []string, dir string, timeout time.Duration) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty build command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = pipeWaitDelay

	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return string(out), fmt.Errorf("%w after %s", ErrTimedOut, timeout)
	}
	if err != nil {
		return string(out), fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return string(out), nil
}
