package supervisor

import (
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// Handle wraps one spawned sample server process. Exactly one Handle
// exists per harness invocation; it is owned by the orchestrator until
// Shutdown confirms termination.
type Handle struct {
	cmd    *exec.Cmd
	stdout *tailBuffer
	stderr *tailBuffer

	done     chan struct{}
	exitCode int
}

// pipeWaitDelay bounds how long Wait keeps the pipes open after the
// child exits. Launchers like dotnet run leave grandchildren holding the
// write ends, so pipe EOF alone can never signal exit.
const pipeWaitDelay = time.Second

// Spawn starts the sample's server as a child process with the sample
// directory as working directory, so relative resource paths resolve.
// Standard streams are captured into bounded tail buffers instead of
// being inherited. Spawn does not wait for the child.
func Spawn(argv []string, dir string) (*Handle, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty run command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = pipeWaitDelay

	h := &Handle{
		cmd:    cmd,
		stdout: newTailBuffer(),
		stderr: newTailBuffer(),
		done:   make(chan struct{}),
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	drain := errgroup.Group{}
	drain.Go(func() error { return h.stdout.readFrom(stdout) })
	drain.Go(func() error { return h.stderr.readFrom(stderr) })

	go func() {
		// Wait tracks the process itself; after WaitDelay it force-closes
		// the pipes, which unblocks the drains even when a grandchild
		// still holds the write ends.
		_ = cmd.Wait()
		_ = drain.Wait()

		h.exitCode = -1
		if cmd.ProcessState != nil {
			h.exitCode = cmd.ProcessState.ExitCode()
		}
		close(h.done)
	}()

	return h, nil
}

// Pid returns the OS process id of the child.
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Alive reports whether the child is still running.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// WaitExit blocks until the child exits or the timeout elapses and
// reports whether it exited.
func (h *Handle) WaitExit(timeout time.Duration) bool {
	select {
	case <-h.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// ExitInfo returns the exit code and captured stream tails. The exit code
// is only meaningful once the child has exited.
func (h *Handle) ExitInfo() (code int, stdoutTail string, stderrTail string) {
	return h.exitCode, h.stdout.String(), h.stderr.String()
}

// StdoutTail returns the captured tail of the child's standard output.
func (h *Handle) StdoutTail() string { return h.stdout.String() }

// StderrTail returns the captured tail of the child's standard error.
func (h *Handle) StderrTail() string { return h.stderr.String() }

// Shutdown guarantees the child is terminated: it sends SIGTERM, waits up
// to grace for a clean exit and escalates to SIGKILL if the child is
// still alive. Some launchers spawn their own children and ignore the
// first signal, so the escalation must not be skipped.
func (h *Handle) Shutdown(grace time.Duration) {
	select {
	case <-h.done:
		return
	default:
	}

	_ = h.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-h.done:
		return
	case <-time.After(grace):
	}

	_ = h.cmd.Process.Kill()
	<-h.done
}
