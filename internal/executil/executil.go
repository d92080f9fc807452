// internal/executil/executil.go
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// Runner is the subprocess surface the rest of slipway builds on.
// Production code uses Exec; tests substitute fakes.
type Runner interface {
	// Run executes a command with streamed output. Honors dry-run.
	Run(ctx context.Context, name string, args ...string) error
	// Capture executes a command and returns its trimmed stdout.
	// Captures are read-only queries, so they run even in dry-run mode.
	Capture(ctx context.Context, name string, args ...string) (string, error)
}

// Exec runs commands against the host, echoing each invocation.
type Exec struct {
	DryRun bool
	Env    map[string]string // extra variables, e.g. DOCKER_HOST for remote daemons
	Out    io.Writer         // defaults to os.Stdout
	Err    io.Writer         // defaults to os.Stderr
}

var _ Runner = (*Exec)(nil)

func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	full := name + " " + QuoteArgs(args)
	if e.DryRun {
		fmt.Fprintf(e.out(), "[dry-run] %s\n", full)
		return nil
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = e.out()
	cmd.Stderr = e.errw()
	cmd.Env = e.environ()

	fmt.Fprintf(e.out(), "Running: %s\n", full)
	if err := cmd.Run(); err != nil {
		return wrapRunErr(full, err)
	}
	return nil
}

func (e *Exec) Capture(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = e.environ()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		full := name + " " + QuoteArgs(args)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %s: %w", full, msg, err)
		}
		return "", wrapRunErr(full, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *Exec) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

func (e *Exec) errw() io.Writer {
	if e.Err != nil {
		return e.Err
	}
	return os.Stderr
}

func (e *Exec) environ() []string {
	env := os.Environ()
	for k, v := range e.Env {
		env = append(env, k+"="+v)
	}
	return env
}

func wrapRunErr(full string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return fmt.Errorf("command failed (exit=%d): %s: %w", status.ExitStatus(), full, err)
		}
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("command canceled: %s", full)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("command timed out: %s", full)
	}
	return fmt.Errorf("failed to run command: %s: %w", full, err)
}

// LookPath verifies that the named tools are installed before any work starts.
func LookPath(names ...string) error {
	for _, n := range names {
		if _, err := exec.LookPath(n); err != nil {
			return fmt.Errorf("required tool %q not found in PATH: %w", n, err)
		}
	}
	return nil
}

// QuoteArgs returns a printable, shell-safe representation of args.
func QuoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'`$\\*?[]{}()<>|&;") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
