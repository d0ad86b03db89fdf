package ani

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Runner invokes an external program. args[0] is the program name. A
// non-success outcome is returned as a *Failure.
type Runner interface {
	Invoke(ctx context.Context, args []string, timeout time.Duration) ([]byte, error)
}

// ExecRunner runs programs as child processes and returns their stdout.
type ExecRunner struct {
	Dir string
}

func (r ExecRunner) Invoke(ctx context.Context, args []string, timeout time.Duration) ([]byte, error) {
	if len(args) == 0 {
		return nil, newFailure(Exec, nil, "empty command")
	}
	bin, err := exec.LookPath(args[0])
	if err != nil {
		return nil, newFailure(ToolMissing, err, "%s not found", args[0])
	}
	if err := ctx.Err(); err != nil {
		return nil, newFailure(Canceled, err, "%s not started", args[0])
	}

	cctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cctx, bin, args[1:]...)
	cmd.Dir = r.Dir
	// a killed tool can leave children holding the output pipes open
	cmd.WaitDelay = 2 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, newFailure(Canceled, ctx.Err(), "%s interrupted", args[0])
		}
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return nil, newFailure(Timeout, cctx.Err(), "%s did not finish within %s", args[0], timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, newFailure(NonZeroExit, err, "%s exited with status %d: %s", args[0], exitErr.ExitCode(), lastLine(stderr.String()))
		}
		return nil, newFailure(Exec, err, "%s: %v", args[0], err)
	}
	return stdout.Bytes(), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		return "no stderr"
	}
	return s
}
