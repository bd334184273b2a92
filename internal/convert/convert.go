// Package convert runs one audio extraction and reports its outcome. It owns
// the output-file discipline: existing outputs are never clobbered unless
// overwriting is requested, and ffmpeg always writes to a hidden temp file
// that is published only after a successful encode.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/backmassage/mp4tomp3/internal/planner"
)

// Skip reasons shared with the batch driver.
const (
	ReasonNoAudio      = "no audio stream"
	ReasonOutputExists = "output exists"
)

// Replaceable so tests can simulate filesystems without hard links.
var (
	renameFunc = os.Rename
	linkFunc   = os.Link
)

// Encoder produces output from input according to plan. *ffmpeg.Runner is
// the production implementation.
type Encoder interface {
	Encode(ctx context.Context, input, output string, plan planner.Plan) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, input, output string, plan planner.Plan) error

func (f EncoderFunc) Encode(ctx context.Context, input, output string, plan planner.Plan) error {
	return f(ctx, input, output, plan)
}

// Request describes one conversion.
type Request struct {
	InputPath  string
	OutputPath string
	Plan       planner.Plan
	Overwrite  bool
}

// Status is the terminal state of one file.
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of processing one file. Reason is set for skips;
// Err is set for failures.
type Outcome struct {
	Status Status
	Reason string
	Err    error
}

// Converted returns a successful outcome.
func Converted() Outcome { return Outcome{Status: StatusConverted} }

// Skipped returns a skip outcome with a human-readable reason.
func Skipped(reason string) Outcome { return Outcome{Status: StatusSkipped, Reason: reason} }

// Failed returns a failure outcome.
func Failed(err error) Outcome { return Outcome{Status: StatusFailed, Err: err} }

// Invoker converts single files through an Encoder.
type Invoker struct {
	Encoder Encoder
}

// Convert performs one conversion. It never panics and never returns an
// error outside the Outcome; on failure no partial output is left behind.
func (iv *Invoker) Convert(ctx context.Context, req Request) Outcome {
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}

	switch fi, err := os.Lstat(req.OutputPath); {
	case err == nil && fi.IsDir():
		return Failed(fmt.Errorf("output path %q is a directory", req.OutputPath))
	case err == nil && !req.Overwrite:
		return Skipped(ReasonOutputExists)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return Failed(fmt.Errorf("stat output: %w", err))
	}

	dir := filepath.Dir(req.OutputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Failed(fmt.Errorf("create output directory: %w", err))
	}

	tmp := TempPath(req.OutputPath)
	// Removing the temp path is a no-op once it has been published.
	defer os.Remove(tmp)

	if err := iv.Encoder.Encode(ctx, req.InputPath, tmp, req.Plan); err != nil {
		return Failed(err)
	}

	fi, err := os.Stat(tmp)
	if err != nil {
		return Failed(fmt.Errorf("encoder produced no output: %w", err))
	}
	if fi.Size() == 0 {
		return Failed(errors.New("encoder produced an empty file"))
	}

	return publish(tmp, req.OutputPath, req.Overwrite)
}

// TempPath returns the hidden sibling path used while encoding output, e.g.
// "/music/.song.3f1c....tmp.mp3". The random part keeps concurrent runs and
// leftovers from interrupted runs apart.
func TempPath(output string) string {
	dir, base := filepath.Split(output)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "."+stem+"."+uuid.NewString()+".tmp.mp3")
}

// publish moves tmp to dst. Without overwrite, a hard link gives an atomic
// "create only if absent"; filesystems without hard links fall back to a
// checked rename.
func publish(tmp, dst string, overwrite bool) Outcome {
	if overwrite {
		if err := renameFunc(tmp, dst); err != nil {
			return Failed(fmt.Errorf("publish output: %w", err))
		}
		return Converted()
	}

	err := linkFunc(tmp, dst)
	switch {
	case err == nil:
		return Converted()
	case errors.Is(err, fs.ErrExist):
		return Skipped(ReasonOutputExists)
	}

	if _, statErr := os.Lstat(dst); statErr == nil {
		return Skipped(ReasonOutputExists)
	}
	if err := renameFunc(tmp, dst); err != nil {
		return Failed(fmt.Errorf("publish output: %w", err))
	}
	return Converted()
}
