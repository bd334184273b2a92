package config

// This file binds CLI flags. Flags are captured into a separate struct and
// applied after parsing, and only when the user actually passed them, so
// values from DefaultConfig and the config file hold otherwise.

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Flags holds raw flag values until [ApplyFlags] copies the changed ones.
type Flags struct {
	ConfigPath   string
	OutputDir    string
	Mode         Mode
	Bitrate      string
	VBRQuality   int
	Recursive    bool
	Overwrite    bool
	NoPrompt     bool
	Extensions   []string
	Analyze      bool
	CheckOnly    bool
	FFmpegPath   string
	FFprobePath  string
	ProbeTimeout time.Duration
	Verbose      bool
	ColorMode    ColorMode
	NoColor      bool
	LogFile      string
}

// BindFlags registers every flag on fs. Defaults shown in help come from
// DefaultConfig.
func BindFlags(fs *pflag.FlagSet, f *Flags) {
	def := DefaultConfig()
	f.Mode = def.Mode
	f.ColorMode = def.ColorMode

	// Input / output.
	fs.StringVarP(&f.OutputDir, "out", "o", "", "Output directory (default: alongside each input file)")
	fs.StringVar(&f.ConfigPath, "config", "", "Config file (default: ~/.config/mp4tomp3/config.toml)")

	// Encoding.
	fs.Var(&modeValue{&f.Mode}, "mode", "Encoding mode: auto | cbr | vbr")
	fs.StringVarP(&f.Bitrate, "bitrate", "b", def.Bitrate, "CBR bitrate (e.g. 128k, 192k, 320k)")
	fs.IntVar(&f.VBRQuality, "vbr-quality", def.VBRQuality, "VBR quality 0..9 (0 best/largest)")
	fs.IntVar(&f.VBRQuality, "vbr-q", def.VBRQuality, "Same as --vbr-quality")
	_ = fs.MarkHidden("vbr-q")

	// Behavior.
	fs.BoolVarP(&f.Recursive, "recursive", "r", false, "Scan subdirectories recursively")
	fs.BoolVarP(&f.Overwrite, "overwrite", "f", false, "Overwrite existing MP3 files")
	fs.BoolVar(&f.NoPrompt, "no-prompt", false, "Never prompt; use flags, config file and defaults only")
	fs.StringSliceVar(&f.Extensions, "ext", def.Extensions, "Input extensions to scan")
	fs.BoolVar(&f.Analyze, "analyze", false, "Probe inputs and print the planned strategy without converting")

	// Tools.
	fs.StringVar(&f.FFmpegPath, "ffmpeg", def.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&f.FFprobePath, "ffprobe", def.FFprobePath, "ffprobe binary")
	fs.DurationVar(&f.ProbeTimeout, "probe-timeout", def.ProbeTimeout, "Timeout for a single ffprobe call")

	// Display and utility.
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Verbose output")
	fs.Var(&colorModeValue{&f.ColorMode}, "color", "Color output: auto | always | never")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&f.LogFile, "log", "l", "", "Append logs to file")
	fs.BoolVarP(&f.CheckOnly, "check", "c", false, "Run system diagnostics and exit")
}

// ApplyFlags copies flags the user set on fs into cfg and records the
// positional input. ModeSet/RecursiveSet are raised for explicit flags.
func ApplyFlags(fs *pflag.FlagSet, f *Flags, args []string, cfg *Config) error {
	changed := fs.Changed

	if changed("out") {
		cfg.OutputDir = NormalizeDirArg(f.OutputDir)
	}
	if changed("mode") {
		cfg.Mode = f.Mode
		cfg.ModeSet = true
	}
	if changed("bitrate") {
		cfg.Bitrate = f.Bitrate
	}
	if changed("vbr-quality") || changed("vbr-q") {
		cfg.VBRQuality = f.VBRQuality
	}
	if changed("recursive") {
		cfg.Recursive = f.Recursive
		cfg.RecursiveSet = true
	}
	if changed("overwrite") {
		cfg.Overwrite = f.Overwrite
	}
	if changed("no-prompt") {
		cfg.NoPrompt = f.NoPrompt
	}
	if changed("ext") {
		cfg.Extensions = append([]string(nil), f.Extensions...)
	}
	if changed("analyze") {
		cfg.Analyze = f.Analyze
	}
	if changed("check") {
		cfg.CheckOnly = f.CheckOnly
	}
	if changed("ffmpeg") {
		cfg.FFmpegPath = f.FFmpegPath
	}
	if changed("ffprobe") {
		cfg.FFprobePath = f.FFprobePath
	}
	if changed("probe-timeout") {
		cfg.ProbeTimeout = f.ProbeTimeout
	}
	if changed("verbose") {
		cfg.Verbose = f.Verbose
	}
	if changed("log") {
		cfg.LogFile = f.LogFile
	}
	if f.NoColor {
		cfg.ColorMode = ColorNever
	} else if changed("color") {
		cfg.ColorMode = f.ColorMode
	}

	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one input file or directory (got %d)", len(args))
	}
	cfg.Input = NormalizeDirArg(args[0])
	return nil
}

// pflag.Value adapters so enum types can be used with fs.Var.

type modeValue struct{ p *Mode }

func (m *modeValue) String() string { return string(*m.p) }
func (m *modeValue) Type() string   { return "mode" }
func (m *modeValue) Set(s string) error {
	v, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m.p = v
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "color" }
func (c *colorModeValue) Set(s string) error {
	v, err := ParseColorMode(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*c.p = v
	return nil
}
