package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/backmassage/mp4tomp3/internal/config"
	"github.com/backmassage/mp4tomp3/internal/convert"
	"github.com/backmassage/mp4tomp3/internal/display"
	"github.com/backmassage/mp4tomp3/internal/ffmpeg"
	"github.com/backmassage/mp4tomp3/internal/logging"
	"github.com/backmassage/mp4tomp3/internal/naming"
	"github.com/backmassage/mp4tomp3/internal/planner"
	"github.com/backmassage/mp4tomp3/internal/probe"
)

// stderrTailLines is how many trailing ffmpeg stderr lines are logged for a
// failed encode.
const stderrTailLines = 20

// Prober describes a file's first audio stream. *probe.FFprobe implements it.
type Prober interface {
	Probe(ctx context.Context, path string) (probe.AudioStreamInfo, error)
}

// Converter runs one conversion. *convert.Invoker implements it.
type Converter interface {
	Convert(ctx context.Context, req convert.Request) convert.Outcome
}

// Driver runs the batch: probe → select → name → convert, one file at a
// time. A failure on one file never stops the batch.
type Driver struct {
	Cfg       *config.Config
	Log       *logging.Logger
	Prober    Prober
	Converter Converter

	// Resolver is optional; a fresh one is used per Run when nil.
	Resolver *naming.CollisionResolver
}

// Run processes files in order and returns the aggregate summary. It stops
// between files once ctx is cancelled and marks the summary Interrupted.
func (d *Driver) Run(ctx context.Context, files iter.Seq2[string, error]) Summary {
	start := time.Now()
	var s Summary

	resolver := d.Resolver
	if resolver == nil {
		resolver = naming.NewCollisionResolver()
	}

	d.logBatchHeader()

	n := 0
	for path, err := range files {
		if ctx.Err() != nil {
			s.Interrupted = true
			break
		}
		n++

		if err != nil {
			d.Log.Error("[%d] %s: %v", n, path, err)
			s.add(convert.StatusFailed, Record{Input: path, Plan: "-", Err: err})
			continue
		}

		status, rec := d.processFile(ctx, n, path, resolver)
		s.add(status, rec)
	}
	if ctx.Err() != nil {
		s.Interrupted = true
	}
	s.Elapsed = time.Since(start)

	if n == 0 && !s.Interrupted {
		d.Log.Warn("No input files found in %s (extensions: %v)", d.Cfg.Input, d.Cfg.Extensions)
	}
	d.logSummary(&s)
	return s
}

// processFile handles one media file: probe → select → name → convert.
func (d *Driver) processFile(ctx context.Context, n int, path string, resolver *naming.CollisionResolver) (convert.Status, Record) {
	rec := Record{Input: path, Plan: "-"}

	// --- Probe ---
	info, err := d.Prober.Probe(ctx, path)
	if err != nil {
		rec.Err = err
		d.Log.Error("[%d] %s [-] failed: %v", n, path, err)
		return convert.StatusFailed, rec
	}
	if !info.Present {
		rec.Reason = convert.ReasonNoAudio
		d.Log.Warn("[%d] %s [-] skipped: %s", n, path, rec.Reason)
		return convert.StatusSkipped, rec
	}
	d.Log.Debug("[%d] %s: %s", n, path, info)
	if info.StreamCount > 1 {
		d.Log.Warn("[%d] %s has %d audio streams; using the first", n, path, info.StreamCount)
	}

	// --- Select ---
	plan, err := planner.Select(info, d.Cfg.Mode, d.Cfg.Bitrate, d.Cfg.VBRQuality)
	if err != nil {
		rec.Err = err
		d.Log.Error("[%d] %s [-] failed: %v", n, path, err)
		return convert.StatusFailed, rec
	}
	rec.Plan = plan.String()

	// --- Name ---
	rec.Output = resolver.Resolve(path, naming.OutputPath(path, d.Cfg.OutputDir))

	// --- Convert ---
	start := time.Now()
	oc := d.Converter.Convert(ctx, convert.Request{
		InputPath:  path,
		OutputPath: rec.Output,
		Plan:       plan,
		Overwrite:  d.Cfg.Overwrite,
	})
	rec.Elapsed = time.Since(start)
	rec.Reason = oc.Reason
	rec.Err = oc.Err

	prefix := fmt.Sprintf("[%d] %s -> %s [%s]", n, path, rec.Output, rec.Plan)
	switch oc.Status {
	case convert.StatusConverted:
		rec.InputBytes = fileSize(path)
		rec.OutputBytes = fileSize(rec.Output)
		d.Log.Success("%s converted in %s (%s, %d%% of input)", prefix,
			display.FormatElapsed(rec.Elapsed),
			display.FormatBytes(rec.OutputBytes),
			display.Ratio(rec.OutputBytes, rec.InputBytes))
	case convert.StatusSkipped:
		d.Log.Warn("%s skipped: %s", prefix, rec.Reason)
	default:
		if ctx.Err() != nil {
			d.Log.Warn("%s interrupted", prefix)
		} else {
			d.Log.Error("%s failed: %v", prefix, rec.Err)
			logStderr(d.Log, rec.Err)
		}
	}
	return oc.Status, rec
}

// logStderr prints the tail of ffmpeg's stderr for encode failures.
func logStderr(log *logging.Logger, err error) {
	var ee *ffmpeg.ExecError
	if !errors.As(err, &ee) {
		return
	}
	tail := ee.Tail(stderrTailLines)
	if len(tail) == 0 {
		return
	}
	log.Error("Last ffmpeg output:")
	for _, l := range tail {
		log.Error("  %s", l)
	}
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// --- Logging helpers ---

func (d *Driver) logBatchHeader() {
	cfg := d.Cfg
	switch cfg.Mode {
	case config.ModeCBR:
		d.Log.Info("Mode: CBR %s", cfg.Bitrate)
	case config.ModeVBR:
		d.Log.Info("Mode: VBR q%d", cfg.VBRQuality)
	default:
		d.Log.Info("Mode: auto (mp3 → copy, AAC → VBR q%d, other → CBR %s)", cfg.VBRQuality, cfg.Bitrate)
	}
	if cfg.OutputDir != "" {
		d.Log.Info("Output: %s", cfg.OutputDir)
	} else {
		d.Log.Info("Output: next to each input")
	}
	if cfg.Overwrite {
		d.Log.Info("Existing MP3 files: overwrite")
	} else {
		d.Log.Info("Existing MP3 files: skip")
	}
	d.Log.Blank()
}

func (d *Driver) logSummary(s *Summary) {
	d.Log.Blank()
	if s.Interrupted {
		d.Log.Warn("Interrupted: remaining files were not processed")
	}
	d.Log.Info("Done: %d converted, %d skipped, %d failed",
		len(s.Converted), len(s.Skipped), len(s.Failed))
	d.Log.Block(s.Table())
	if ft := s.FailureTable(); ft != "" {
		d.Log.Block(ft)
	}

	if len(s.Converted) == 0 {
		return
	}
	saved := s.SpaceSaved()
	if saved >= 0 {
		d.Log.Success("Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(s.InputBytes),
			display.FormatBytes(s.OutputBytes))
	} else {
		d.Log.Warn("Total space saved: -%s (overall output is larger)",
			display.FormatBytes(-saved))
	}
}
