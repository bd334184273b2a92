package check

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/mp4tomp3/internal/config"
)

// recLogger records log lines by level.
type recLogger struct{ lines []string }

func (r *recLogger) add(level, f string, a ...any) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(f, a...))
}
func (r *recLogger) Info(f string, a ...any)    { r.add("INFO", f, a...) }
func (r *recLogger) Success(f string, a ...any) { r.add("SUCCESS", f, a...) }
func (r *recLogger) Warn(f string, a ...any)    { r.add("WARN", f, a...) }
func (r *recLogger) Error(f string, a ...any)   { r.add("ERROR", f, a...) }

const encodersWithLame = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libmp3lame           libmp3lame MP3 (MPEG audio layer 3) (codec mp3)
 A....D libopus              libopus Opus (codec opus)
`

const encodersWithoutLame = `Encoders:
 ------
 A....D aac                  AAC (Advanced Audio Coding)
 A....D mp3_mf               MP3 via MediaFoundation (codec mp3)
`

func TestHasMP3Encoder(t *testing.T) {
	if !HasMP3Encoder(encodersWithLame) {
		t.Error("libmp3lame listed but not detected")
	}
	if HasMP3Encoder(encodersWithoutLame) {
		t.Error("mp3_mf must not count as libmp3lame")
	}
	if HasMP3Encoder("") {
		t.Error("empty output has no encoders")
	}
}

func TestCheckDeps_MissingFfmpeg(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = filepath.Join(t.TempDir(), "no-ffmpeg")
	_, err := CheckDeps(&cfg)
	if !errors.Is(err, ErrFfmpegNotFound) {
		t.Errorf("err = %v, want ErrFfmpegNotFound", err)
	}
}

func TestCheckDeps_MissingFfprobe(t *testing.T) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not in PATH")
	}
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = ffmpeg
	cfg.FFprobePath = filepath.Join(t.TempDir(), "no-ffprobe")
	_, err = CheckDeps(&cfg)
	if !errors.Is(err, ErrFfprobeNotFound) {
		t.Errorf("err = %v, want ErrFfprobeNotFound", err)
	}
}

func TestRunCheck_MissingTools(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = filepath.Join(dir, "no-ffmpeg")
	cfg.FFprobePath = filepath.Join(dir, "no-ffprobe")

	log := &recLogger{}
	if RunCheck(&cfg, log) {
		t.Error("RunCheck should fail without tools")
	}
	joined := strings.Join(log.lines, "\n")
	if !strings.Contains(joined, "ERROR ffmpeg not found") || !strings.Contains(joined, "ERROR ffprobe not found") {
		t.Errorf("missing error lines:\n%s", joined)
	}
}

func TestFirstLine(t *testing.T) {
	in := "ffmpeg version 6.1.1 Copyright (c) 2000-2023\nbuilt with gcc 13\n"
	if got := FirstLine(in); got != "ffmpeg version 6.1.1 Copyright (c) 2000-2023" {
		t.Errorf("FirstLine = %q", got)
	}
}
