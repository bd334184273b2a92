package config

// This file loads the optional TOML config file. Values from the file sit
// between DefaultConfig and CLI flags: flags always win.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors the TOML layout. Pointer fields distinguish "absent"
// from the zero value so only keys present in the file override defaults.
type fileConfig struct {
	Encoding struct {
		Mode       *string `toml:"mode"`
		Bitrate    *string `toml:"bitrate"`
		VBRQuality *int    `toml:"vbr_quality"`
	} `toml:"encoding"`
	Output struct {
		Dir       *string `toml:"dir"`
		Overwrite *bool   `toml:"overwrite"`
	} `toml:"output"`
	Scan struct {
		Recursive  *bool    `toml:"recursive"`
		Extensions []string `toml:"extensions"`
	} `toml:"scan"`
	Tools struct {
		FFmpeg       *string `toml:"ffmpeg"`
		FFprobe      *string `toml:"ffprobe"`
		ProbeTimeout *string `toml:"probe_timeout"`
	} `toml:"tools"`
	Display struct {
		Color   *string `toml:"color"`
		Verbose *bool   `toml:"verbose"`
		LogFile *string `toml:"log_file"`
	} `toml:"display"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/mp4tomp3/config.toml")
}

// LoadFile applies the TOML file at path onto cfg. An empty path means the
// default location, where a missing file is not an error. An explicit path
// must exist. It returns whether a file was read.
func LoadFile(path string, cfg *Config) (bool, error) {
	explicit := path != ""
	if !explicit {
		def, err := DefaultConfigPath()
		if err != nil {
			return false, err
		}
		path = def
	} else {
		expanded, err := ExpandPath(path)
		if err != nil {
			return false, err
		}
		path = expanded
	}
	cfg.ConfigFile = path

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return false, nil
		}
		return false, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return false, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := fc.apply(cfg); err != nil {
		return false, fmt.Errorf("config %s: %w", path, err)
	}
	return true, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if v := fc.Encoding.Mode; v != nil {
		m, err := ParseMode(*v)
		if err != nil {
			return err
		}
		cfg.Mode = m
		cfg.ModeSet = true
	}
	if v := fc.Encoding.Bitrate; v != nil {
		cfg.Bitrate = *v
	}
	if v := fc.Encoding.VBRQuality; v != nil {
		cfg.VBRQuality = *v
	}
	if v := fc.Output.Dir; v != nil && *v != "" {
		dir, err := ExpandPath(*v)
		if err != nil {
			return err
		}
		cfg.OutputDir = dir
	}
	if v := fc.Output.Overwrite; v != nil {
		cfg.Overwrite = *v
	}
	if v := fc.Scan.Recursive; v != nil {
		cfg.Recursive = *v
		cfg.RecursiveSet = true
	}
	if len(fc.Scan.Extensions) > 0 {
		cfg.Extensions = append([]string(nil), fc.Scan.Extensions...)
	}
	if v := fc.Tools.FFmpeg; v != nil && *v != "" {
		cfg.FFmpegPath = *v
	}
	if v := fc.Tools.FFprobe; v != nil && *v != "" {
		cfg.FFprobePath = *v
	}
	if v := fc.Tools.ProbeTimeout; v != nil {
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("tools.probe_timeout: %w", err)
		}
		cfg.ProbeTimeout = d
	}
	if v := fc.Display.Color; v != nil {
		cm, err := ParseColorMode(*v)
		if err != nil {
			return err
		}
		cfg.ColorMode = cm
	}
	if v := fc.Display.Verbose; v != nil {
		cfg.Verbose = *v
	}
	if v := fc.Display.LogFile; v != nil && *v != "" {
		p, err := ExpandPath(*v)
		if err != nil {
			return err
		}
		cfg.LogFile = p
	}
	return nil
}

// ParseMode converts user input into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ModeAuto, nil
	case "cbr":
		return ModeCBR, nil
	case "vbr":
		return ModeVBR, nil
	default:
		return "", fmt.Errorf("invalid mode %q (use 'auto', 'cbr' or 'vbr')", s)
	}
}

// ParseColorMode converts user input into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
}

// ExpandPath expands a leading "~" and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return abs, nil
}
