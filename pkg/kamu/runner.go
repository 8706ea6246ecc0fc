package kamu

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/stevedipaola/f-kamu-cli/pkg/errors"
	"github.com/stevedipaola/f-kamu-cli/pkg/kamu/status"
)

// Command is a single invocation of the external dataset tool.
type Command struct {
	Binary string   // Binary is the tool executable, resolved through PATH
	Args   []string // Args are the subcommand and its arguments
	Dir    string   // Dir is the directory the tool runs in ("" for the current one)
	_      struct{}
}

// String renders the invocation the way a shell prompt would show it.
func (c Command) String() string {
	return strings.Join(append([]string{c.Binary}, c.Args...), " ")
}

// Runner executes tool invocations. Implementations other than the exec
// based one stand in for the tool in tests.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// stderr beyond this size is dropped from error messages, keeping the
// most recent output where the tool prints its diagnosis
const stderrTailSize = 2 << 10

// tailBuffer retains the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// RunnerOption is a functional option for the exec based runner
type RunnerOption func(*execRunner)

// Stdout redirects the tool's standard output (used by tests)
func Stdout(w io.Writer) RunnerOption {
	return func(r *execRunner) {
		if w != nil {
			r.stdout = w
		}
	}
}

// Stderr redirects the tool's standard error (used by tests)
func Stderr(w io.Writer) RunnerOption {
	return func(r *execRunner) {
		if w != nil {
			r.stderr = w
		}
	}
}

// NewRunner returns a Runner executing commands on the local host. The
// tool's output streams through as it is produced, and the tail of its
// standard error is repeated in the returned error on failure.
func NewRunner(opts ...RunnerOption) Runner {
	r := &execRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

func (x *execRunner) Run(ctx context.Context, cmd Command) error {
	tail := &tailBuffer{max: stderrTailSize}

	ecmd := exec.CommandContext(ctx, cmd.Binary, cmd.Args...)
	ecmd.Dir = cmd.Dir
	ecmd.Stdout = x.stdout
	ecmd.Stderr = io.MultiWriter(x.stderr, tail)

	err := ecmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return status.ErrNotInstalled.Wrap(fmt.Errorf("%s: %w", cmd.Binary, err))
	}
	if diagnosis := tail.String(); diagnosis != "" {
		return status.ErrToolFailed.Wrap(fmt.Errorf("%s: %w (stderr: %s)", cmd, err, diagnosis))
	}
	return status.ErrToolFailed.Wrap(fmt.Errorf("%s: %w", cmd, err))
}

// ExitCode maps an error from a Runner to the process exit code to
// propagate: the tool's own exit code when it ran and failed, 127 when the
// tool is not installed (the shell convention for command not found), 1
// for anything else and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var xerr *exec.ExitError
	if errors.As(err, &xerr) {
		return xerr.ExitCode()
	}
	if errors.Is(err, status.ErrNotInstalled) {
		return 127
	}
	return 1
}
