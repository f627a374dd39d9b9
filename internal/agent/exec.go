package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// maxStderrInError bounds how much stderr is copied into error messages.
const maxStderrInError = 2048

// run executes name with args, writing the instruction to stdin, and decodes
// stdout into a trace.
func run(ctx context.Context, name string, args []string, dir string, env []string, instruction string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = strings.NewReader(instruction)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("running agent: %w", ctx.Err())
			}
			return nil, fmt.Errorf("%w: %w", ErrStartFailed, err)
		}
	}

	res := newResult(stdout.String(), stderr.String(), cmd.ProcessState.ExitCode())
	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("running agent: %w", ctx.Err())
		}
		return res, exitError(res)
	}
	return res, nil
}

func newResult(stdout, stderr string, exitCode int) *Result {
	res := &Result{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
	}
	res.Trace, res.Usage = DecodeTrace([]byte(stdout))
	return res
}

func exitError(res *Result) error {
	slog.Debug("agent exited with error", "exit_code", res.ExitCode, "stderr_bytes", len(res.Stderr))
	return fmt.Errorf("%w: exit code %d: %s", ErrExitStatus, res.ExitCode, tail(res.Stderr, maxStderrInError))
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
