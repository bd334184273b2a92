// Package config holds runtime configuration: defaults, the optional TOML
// config file, CLI flag binding, interactive resolution, and validation.
// Defaults match the original mp4-to-mp3 script (192k CBR, VBR quality 2,
// .mp4/.m4v/.mov inputs).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// Mode selects how the encoding strategy is chosen.
type Mode string

const (
	ModeAuto Mode = "auto" // Decide per file from the probed codec (default).
	ModeCBR  Mode = "cbr"  // Always encode at a constant bitrate.
	ModeVBR  Mode = "vbr"  // Always encode at a VBR quality level.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Encoding limits accepted by libmp3lame.
const (
	DefaultBitrate    = "192k"
	DefaultVBRQuality = 2
	MinVBRQuality     = 0
	MaxVBRQuality     = 9
	MinBitrateKbps    = 8
	MaxBitrateKbps    = 320
)

// DefaultExtensions are the input extensions scanned when none are configured.
var DefaultExtensions = []string{".mp4", ".m4v", ".mov"}

// Config holds all runtime settings. It is populated by [DefaultConfig], then
// [LoadFile], then [ApplyFlags], and finally completed by [Resolve] before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	Input      string // Positional argument: file or directory.
	OutputDir  string // Empty means alongside each input file.
	ConfigFile string // Resolved TOML path (may not exist).

	// Encoding.
	Mode       Mode
	Bitrate    string // Normalized to "<n>k" by Validate.
	VBRQuality int    // 0 (best) .. 9 (smallest).

	// Scan and behavior.
	Recursive  bool
	Overwrite  bool
	NoPrompt   bool
	Extensions []string // Lowercase with leading dot.
	Analyze    bool     // Probe and print the plan table only.
	CheckOnly  bool     // Run --check diagnostics and exit.

	// ModeSet and RecursiveSet record whether the value came from a flag or
	// the config file. Unset values are candidates for prompting.
	ModeSet      bool
	RecursiveSet bool

	// External tools.
	FFmpegPath   string        // Default: "ffmpeg".
	FFprobePath  string        // Default: "ffprobe".
	ProbeTimeout time.Duration // Default: 30s.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode
	LogFile   string
}

// DefaultConfig returns a Config with every default applied. Used as the base
// before the config file and CLI flags are layered on top.
func DefaultConfig() Config {
	return Config{
		Mode:         ModeAuto,
		Bitrate:      DefaultBitrate,
		VBRQuality:   DefaultVBRQuality,
		Extensions:   append([]string(nil), DefaultExtensions...),
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		ProbeTimeout: 30 * time.Second,
		ColorMode:    ColorAuto,
	}
}

// Validate checks enum fields, encoding parameters, extensions, and paths.
// It normalizes Bitrate and Extensions in place. Every error returned here is
// a configuration error: nothing has been processed yet.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeAuto, ModeCBR, ModeVBR:
		// valid
	default:
		return fmt.Errorf("invalid mode %q (use 'auto', 'cbr' or 'vbr')", c.Mode)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	normalized, err := NormalizeBitrate(c.Bitrate)
	if err != nil {
		return err
	}
	c.Bitrate = normalized

	// CBR never consults the quality level; auto may resolve to VBR.
	if c.Mode != ModeCBR {
		if err := ValidateVBRQuality(c.VBRQuality); err != nil {
			return err
		}
	}

	exts, err := normalizeExtensions(c.Extensions)
	if err != nil {
		return err
	}
	c.Extensions = exts

	if c.ProbeTimeout <= 0 {
		return errors.New("probe timeout must be positive")
	}
	if strings.TrimSpace(c.FFmpegPath) == "" || strings.TrimSpace(c.FFprobePath) == "" {
		return errors.New("ffmpeg and ffprobe paths must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Input == "" {
		return errors.New("need exactly one input file or directory")
	}
	return c.validateOutputDir()
}

// ValidateVBRQuality reports an error when q is outside [0,9].
func ValidateVBRQuality(q int) error {
	if q < MinVBRQuality || q > MaxVBRQuality {
		return fmt.Errorf("VBR quality must be between %d and %d (got %d)", MinVBRQuality, MaxVBRQuality, q)
	}
	return nil
}

// NormalizeBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "192", "192k", "192K", "192kbps". Output is "<n>k".
func NormalizeBitrate(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", errors.New("bitrate must not be empty")
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid bitrate %q (use a positive Kbps value, e.g. 192k)", raw)
	}
	if n < MinBitrateKbps || n > MaxBitrateKbps {
		return "", fmt.Errorf("bitrate %q out of range (%d-%d kbps)", raw, MinBitrateKbps, MaxBitrateKbps)
	}
	return fmt.Sprintf("%dk", n), nil
}

// normalizeExtensions lowercases, adds the leading dot, and drops duplicates.
// ".mp3" is rejected because the output would replace its own input.
func normalizeExtensions(exts []string) ([]string, error) {
	if len(exts) == 0 {
		return nil, errors.New("at least one input extension is required")
	}
	seen := make(map[string]bool, len(exts))
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e == ".mp3" {
			return nil, errors.New("input extension .mp3 is not allowed (output would replace input)")
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, errors.New("at least one input extension is required")
	}
	return out, nil
}

// validateOutputDir rejects an --out path that exists but is not a directory.
// A missing directory is fine: it is created on the first conversion.
func (c *Config) validateOutputDir() error {
	if c.OutputDir == "" {
		return nil
	}
	fi, err := os.Stat(c.OutputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("output directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("output path %q exists and is not a directory", c.OutputDir)
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
