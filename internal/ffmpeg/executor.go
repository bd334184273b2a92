package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/mp4tomp3/internal/planner"
)

// ExecError is returned when ffmpeg could not be started or exited non-zero.
// Stderr is the captured diagnostic output.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	if d := Diagnose(e.Stderr); d != "" {
		return fmt.Sprintf("ffmpeg failed: %s (%v)", d, e.Err)
	}
	return fmt.Sprintf("ffmpeg failed: %v", e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Tail returns at most n trailing non-empty lines of Stderr.
func (e *ExecError) Tail(n int) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(e.Stderr), "\n") {
		if l = strings.TrimRight(l, "\r "); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Runner executes ffmpeg encodes. The zero value uses "ffmpeg" from PATH.
type Runner struct {
	Path string

	// Verbose tees ffmpeg's stderr to os.Stderr in real time. It is always
	// captured for error reporting.
	Verbose bool
}

// Encode runs ffmpeg for one file and blocks until it exits. Cancelling ctx
// kills the process.
func (r *Runner) Encode(ctx context.Context, input, output string, plan planner.Plan) error {
	bin := r.Path
	if bin == "" {
		bin = "ffmpeg"
	}
	args := Build(input, output, plan)

	cmd := exec.CommandContext(ctx, bin, args...)

	var stderrBuf bytes.Buffer
	if r.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return &ExecError{Args: append([]string{bin}, args...), Stderr: stderrBuf.String(), Err: err}
	}
	return nil
}
