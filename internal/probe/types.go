package probe

import (
	"fmt"
	"strings"
)

// AudioStreamInfo describes the first audio stream of a media file.
// Present is false when the file has no audio stream at all; the other
// fields are then zero.
type AudioStreamInfo struct {
	Present    bool
	Codec      string // ffprobe codec_name, lowercase (e.g. "aac", "mp3").
	Channels   int
	SampleRate int   // Hz; 0 when ffprobe did not report it.
	BitRate    int64 // bits/sec; 0 means unknown.

	// StreamCount is the number of audio streams in the file. Only the first
	// one is described above.
	StreamCount int
}

// BitRateKbps returns the bitrate in kbit/s, or 0 when unknown.
func (a AudioStreamInfo) BitRateKbps() int64 {
	return a.BitRate / 1000
}

// String returns a compact description for log lines, e.g.
// "aac 2ch 48000 Hz 128 kbps".
func (a AudioStreamInfo) String() string {
	if !a.Present {
		return "no audio"
	}
	parts := []string{a.Codec}
	if a.Codec == "" {
		parts[0] = "unknown"
	}
	if a.Channels > 0 {
		parts = append(parts, fmt.Sprintf("%dch", a.Channels))
	}
	if a.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%d Hz", a.SampleRate))
	}
	if kbps := a.BitRateKbps(); kbps > 0 {
		parts = append(parts, fmt.Sprintf("%d kbps", kbps))
	}
	return strings.Join(parts, " ")
}

// Error is returned when ffprobe cannot describe a file: the process failed
// to start, exited non-zero, timed out, or printed unparseable JSON. Stderr
// holds ffprobe's own diagnostic text when there was any.
type Error struct {
	Path   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("ffprobe %q: %v", e.Path, e.Err)
	if s := lastLine(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// lastLine returns the last non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
