package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single ffprobe call when FFprobe.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// FFprobe runs the ffprobe binary. The zero value uses "ffprobe" from PATH
// and DefaultTimeout.
type FFprobe struct {
	Path    string
	Timeout time.Duration
}

// Args returns the ffprobe arguments used for path. Exported for
// diagnostics and tests.
func Args(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index,codec_name,channels,sample_rate,bit_rate",
		"-of", "json",
		path,
	}
}

// Probe runs a single ffprobe JSON call against path and describes its first
// audio stream. A file without audio is not an error: the result has
// Present == false. Any failure is returned as *Error.
func (p *FFprobe) Probe(ctx context.Context, path string) (AudioStreamInfo, error) {
	bin := p.Path
	if bin == "" {
		bin = "ffprobe"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, Args(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", timeout, ctx.Err())
		} else if ctx.Err() != nil {
			err = ctx.Err()
		}
		return AudioStreamInfo{}, &Error{Path: path, Stderr: stderr.String(), Err: err}
	}

	info, err := ParseJSON(stdout.Bytes())
	if err != nil {
		return AudioStreamInfo{}, &Error{Path: path, Stderr: stderr.String(), Err: err}
	}
	return info, nil
}

// ParseJSON converts raw ffprobe JSON output into an AudioStreamInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (AudioStreamInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return AudioStreamInfo{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index      int       `json:"index"`
	CodecName  string    `json:"codec_name"`
	CodecType  string    `json:"codec_type"`
	Channels   int       `json:"channels"`
	SampleRate numString `json:"sample_rate"`
	BitRate    numString `json:"bit_rate"`
}

// numString accepts a JSON string or number. ffprobe quotes sample_rate and
// bit_rate, and may print "N/A" for either.
type numString string

func (n *numString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numString(s)
		return nil
	}
	if string(b) == "null" {
		*n = ""
		return nil
	}
	*n = numString(b)
	return nil
}

// --- Conversion from wire types to domain types ---

func buildInfo(raw *ffprobeOutput) AudioStreamInfo {
	// -select_streams a already filters, but a hand-fed document may carry
	// other stream types.
	var audio []*ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType == "" || s.CodecType == "audio" {
			audio = append(audio, s)
		}
	}
	if len(audio) == 0 {
		return AudioStreamInfo{}
	}

	first := audio[0]
	return AudioStreamInfo{
		Present:     true,
		Codec:       strings.ToLower(strings.TrimSpace(first.CodecName)),
		Channels:    first.Channels,
		SampleRate:  int(parseInt64(string(first.SampleRate))),
		BitRate:     parseInt64(string(first.BitRate)),
		StreamCount: len(audio),
	}
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

// parseInt64 returns 0 for empty, "N/A", or malformed values.
func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
