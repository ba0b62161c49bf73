// Package execrun runs the external helper binaries and normalizes their
// outcomes into exit codes, captured output, and stderr tails.
package execrun

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// Spec describes one helper-binary invocation.
type Spec struct {
	Bin            string
	Args           []string
	Dir            string
	Timeout        time.Duration
	CaptureStdout  bool
	DisplayCommand string
}

type Result struct {
	ExitCode    int
	Duration    time.Duration
	Interrupted bool
	TimedOut    bool
	Stdout      []byte
	StderrTail  string
	Err         error
}

type Runner interface {
	Run(ctx context.Context, spec Spec) Result
}

// SubprocessRunner executes helper binaries. When CaptureStdout is set the
// full stdout is collected for JSON decoding; otherwise it streams to Stdout.
type SubprocessRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewSubprocessRunner(stdout, stderr io.Writer) *SubprocessRunner {
	return &SubprocessRunner{Stdout: stdout, Stderr: stderr}
}

type tailBuffer struct {
	buf []byte
	max int
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = 64 * 1024
	}
	return &tailBuffer{
		buf: make([]byte, 0, max),
		max: max,
	}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) >= t.max {
		t.buf = append(t.buf[:0], p[len(p)-t.max:]...)
		return len(p), nil
	}
	overflow := len(t.buf) + len(p) - t.max
	if overflow > 0 {
		t.buf = append(t.buf[:0], t.buf[overflow:]...)
	}
	t.buf = append(t.buf, p...)
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}

func (r *SubprocessRunner) Run(ctx context.Context, spec Spec) Result {
	start := time.Now()
	if spec.Bin == "" {
		return Result{ExitCode: 1, Duration: time.Since(start), Err: errors.New("missing binary")}
	}

	runCtx := ctx
	cancel := func() {}
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, spec.Bin, spec.Args...)
	cmd.Dir = spec.Dir

	var stdout bytes.Buffer
	if spec.CaptureStdout {
		cmd.Stdout = &stdout
	} else if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	}

	stderrTail := newTailBuffer(64 * 1024)
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, stderrTail)
	} else {
		cmd.Stderr = stderrTail
	}

	err := cmd.Run()
	result := Result{
		Duration:   time.Since(start),
		Stdout:     stdout.Bytes(),
		StderrTail: stderrTail.String(),
		Err:        err,
	}
	if err == nil {
		result.ExitCode = 0
		return result
	}

	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
	}
	if runCtx.Err() == context.Canceled {
		result.Interrupted = true
		result.ExitCode = 130
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result
	}

	if errors.Is(err, exec.ErrNotFound) {
		result.ExitCode = 127
		return result
	}

	result.ExitCode = 1
	return result
}
