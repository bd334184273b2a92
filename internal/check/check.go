// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, and libmp3lame.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/mp4tomp3/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrNoMP3Encoder    = errors.New("ffmpeg has no libmp3lame encoder")
)

// toolTimeout bounds each diagnostic subprocess.
const toolTimeout = 15 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
}

// Tools holds the resolved absolute paths of the external binaries.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// CheckDeps is the pre-pipeline validation: it resolves ffmpeg and ffprobe
// (configured name or path) and verifies that ffmpeg lists libmp3lame.
// Returns a wrapped sentinel error on failure.
func CheckDeps(cfg *config.Config) (Tools, error) {
	var t Tools
	var err error
	if t.FFmpeg, err = exec.LookPath(cfg.FFmpegPath); err != nil {
		return Tools{}, fmt.Errorf("%w (%s): %v", ErrFfmpegNotFound, cfg.FFmpegPath, err)
	}
	if t.FFprobe, err = exec.LookPath(cfg.FFprobePath); err != nil {
		return Tools{}, fmt.Errorf("%w (%s): %v", ErrFfprobeNotFound, cfg.FFprobePath, err)
	}

	encoders, err := output(t.FFmpeg, "-hide_banner", "-encoders")
	if err != nil {
		return Tools{}, fmt.Errorf("list ffmpeg encoders: %w", err)
	}
	if !HasMP3Encoder(encoders) {
		return Tools{}, ErrNoMP3Encoder
	}
	return t, nil
}

// HasMP3Encoder reports whether `ffmpeg -encoders` output lists libmp3lame.
func HasMP3Encoder(encoders string) bool {
	for _, line := range strings.Split(encoders, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "libmp3lame" {
			return true
		}
	}
	return false
}

// RunCheck runs the --check flow: prints the ffmpeg and ffprobe versions,
// lists MP3 encoders, and runs a one-second test encode. It returns false
// when any required piece is missing or broken.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	ffmpegPath, found := checkTool(log, "ffmpeg", cfg.FFmpegPath)
	ok = ok && found
	_, found = checkTool(log, "ffprobe", cfg.FFprobePath)
	ok = ok && found

	if ffmpegPath == "" {
		return false
	}
	if !checkMP3Encoders(log, ffmpegPath) {
		ok = false
	}
	if !checkTestEncode(log, ffmpegPath) {
		ok = false
	}
	return ok
}

// checkTool verifies a binary resolves and logs its version string.
func checkTool(log Logger, label, name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		log.Error("%s not found (%s)", label, name)
		return "", false
	}
	out, err := output(path, "-version")
	if err != nil {
		log.Warn("%s found at %s but -version failed: %v", label, path, err)
		return path, true
	}
	log.Success("%s: %s", label, FirstLine(out))
	return path, true
}

// checkMP3Encoders lists MP3-related encoders reported by ffmpeg.
func checkMP3Encoders(log Logger, ffmpegPath string) bool {
	log.Info("MP3 encoders:")
	out, err := output(ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(strings.ToLower(line), "mp3") {
			log.Info("  %s", strings.TrimSpace(line))
		}
	}
	if !HasMP3Encoder(out) {
		log.Error("libmp3lame is missing: CBR/VBR encoding will not work")
		return false
	}
	return true
}

// checkTestEncode runs a minimal libmp3lame encode to verify the encoder works.
func checkTestEncode(log Logger, ffmpegPath string) bool {
	log.Info("Testing libmp3lame...")
	if _, err := output(ffmpegPath, testEncodeArgs()...); err != nil {
		log.Error("libmp3lame test encode failed: %v", err)
		return false
	}
	log.Success("libmp3lame works")
	return true
}

// testEncodeArgs returns the ffmpeg arguments for a one-second sine → MP3
// encode discarded to the null muxer.
func testEncodeArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=1",
		"-c:a", "libmp3lame", "-q:a", "2",
		"-f", "null", "-",
	}
}

// output runs a command with a timeout and returns its stdout. On failure
// the last stderr line is folded into the error.
func output(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, lastLine(string(ee.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// FirstLine returns the first line of s, trimmed.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}
