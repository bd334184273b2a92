package pipeline

import (
	"context"
	"fmt"
	"iter"

	"github.com/backmassage/mp4tomp3/internal/config"
	"github.com/backmassage/mp4tomp3/internal/display"
	"github.com/backmassage/mp4tomp3/internal/logging"
	"github.com/backmassage/mp4tomp3/internal/naming"
	"github.com/backmassage/mp4tomp3/internal/planner"
)

// AnalyzeResult counts what an analysis pass saw.
type AnalyzeResult struct {
	Files       int
	NoAudio     int
	Failed      int
	Interrupted bool
}

// Analyze probes every file, runs the strategy selector, and prints one
// table row per file (codec, channels, sample rate, bitrate, plan, output)
// without converting anything.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger, prober Prober, files iter.Seq2[string, error]) AnalyzeResult {
	var res AnalyzeResult
	resolver := naming.NewCollisionResolver()
	var rows [][]string

	for path, err := range files {
		if ctx.Err() != nil {
			res.Interrupted = true
			break
		}
		res.Files++

		if err != nil {
			res.Failed++
			rows = append(rows, errorRow(path, err))
			continue
		}

		info, err := prober.Probe(ctx, path)
		if err != nil {
			res.Failed++
			rows = append(rows, errorRow(path, err))
			continue
		}
		if !info.Present {
			res.NoAudio++
			rows = append(rows, []string{path, "-", "-", "-", "-", "skip: no audio stream", ""})
			continue
		}

		plan, err := planner.Select(info, cfg.Mode, cfg.Bitrate, cfg.VBRQuality)
		if err != nil {
			res.Failed++
			rows = append(rows, errorRow(path, err))
			continue
		}

		codec := info.Codec
		if info.StreamCount > 1 {
			codec = fmt.Sprintf("%s (+%d)", codec, info.StreamCount-1)
		}
		out := resolver.Resolve(path, naming.OutputPath(path, cfg.OutputDir))
		rows = append(rows, []string{
			path,
			codec,
			channelsLabel(info.Channels),
			display.FormatSampleRate(info.SampleRate),
			display.FormatBitrateLabel(info.BitRate),
			plan.String(),
			out,
		})
	}

	if res.Files == 0 {
		log.Warn("No input files found in %s (extensions: %v)", cfg.Input, cfg.Extensions)
		return res
	}

	log.Block(display.RenderTable(
		[]string{"File", "Codec", "Ch", "Rate", "Bitrate", "Plan", "Output"},
		rows,
		[]display.Align{display.AlignLeft, display.AlignLeft, display.AlignRight, display.AlignRight, display.AlignRight},
	))
	log.Info("Analyzed %d files: %d without audio, %d errors", res.Files, res.NoAudio, res.Failed)
	if res.Interrupted {
		log.Warn("Interrupted")
	}
	return res
}

func errorRow(path string, err error) []string {
	return []string{path, "-", "-", "-", "-", "error: " + err.Error(), ""}
}

func channelsLabel(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprint(n)
}
