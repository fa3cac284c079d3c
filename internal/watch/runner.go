package watch

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// Process is a handle on a launched training command.
type Process interface {
	// Output streams the process's combined terminal output.
	Output() io.Reader
	// Stop terminates the process. Safe to call more than once.
	Stop() error
	// Wait blocks until the process exits and returns its exit code.
	Wait() int
}

// Launcher starts a command and returns a handle on it.
// Tests inject a Launcher that replays a canned transcript instead of
// spawning a real process.
type Launcher func(cmd *exec.Cmd) (Process, error)

// PTYLaunch runs the command in a pseudo-terminal. Training scripts
// commonly switch to unbuffered, line-oriented output when they see a
// TTY, which is exactly what the metric scanner needs.
func PTYLaunch(cmd *exec.Cmd) (Process, error) {
	f, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s in pty: %w", cmd.Path, err)
	}
	return &ptyProcess{cmd: cmd, f: f}, nil
}

type ptyProcess struct {
	cmd     *exec.Cmd
	f       io.ReadCloser
	stopped bool
}

func (p *ptyProcess) Output() io.Reader { return p.f }

func (p *ptyProcess) Stop() error {
	if p.stopped || p.cmd.Process == nil {
		return nil
	}
	p.stopped = true
	return p.cmd.Process.Kill()
}

func (p *ptyProcess) Wait() int {
	err := p.cmd.Wait()
	p.f.Close()
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
