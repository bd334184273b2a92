package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Choice is one answer offered by [Prompter.Choose].
type Choice struct {
	Key   string // What the user types, e.g. "c".
	Label string // Shown next to the key, e.g. "CBR (fixed bitrate)".
}

// Prompter asks the user questions. Only [Resolve] talks to it; the selector
// and the batch driver consume the resolved Config and never prompt.
type Prompter interface {
	Choose(question string, choices []Choice, defaultKey string) (string, error)
	Confirm(question string, defaultYes bool) (bool, error)
}

// Resolve fills in values the user did not supply. When p is nil or
// NoPrompt is set, defaults are kept. inputIsDir controls whether the
// recursion question is relevant.
func Resolve(cfg *Config, inputIsDir bool, p Prompter) error {
	if p == nil || cfg.NoPrompt || cfg.CheckOnly {
		return nil
	}

	if !cfg.ModeSet {
		key, err := p.Choose("Encoding mode? (auto detects via ffprobe)", []Choice{
			{Key: "a", Label: "AUTO"},
			{Key: "c", Label: "CBR (fixed bitrate)"},
			{Key: "v", Label: "VBR (variable bitrate)"},
		}, "a")
		if err != nil {
			return err
		}
		switch key {
		case "c":
			cfg.Mode = ModeCBR
		case "v":
			cfg.Mode = ModeVBR
		default:
			cfg.Mode = ModeAuto
		}
		cfg.ModeSet = true
	}

	if inputIsDir && !cfg.RecursiveSet {
		yes, err := p.Confirm("Scan subfolders recursively?", true)
		if err != nil {
			return err
		}
		cfg.Recursive = yes
		cfg.RecursiveSet = true
	}
	return nil
}

// ErrNoAnswer is returned when the prompt input ends before a valid answer.
var ErrNoAnswer = errors.New("prompt: no answer (input closed)")

// LinePrompter reads answers line by line from In and writes questions to Out.
// Invalid answers are re-asked; an empty line selects the default.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter returns a prompter over the given streams.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Choose asks until the answer matches one of the choice keys.
func (lp *LinePrompter) Choose(question string, choices []Choice, defaultKey string) (string, error) {
	opts := make([]string, 0, len(choices))
	keys := make([]string, 0, len(choices))
	defLabel := ""
	for _, c := range choices {
		opts = append(opts, c.Key+"="+c.Label)
		keys = append(keys, c.Key)
		if c.Key == defaultKey {
			defLabel = c.Label
		}
	}
	for {
		fmt.Fprintf(lp.out, "%s (%s) [Default: %s=%s]: ", question, strings.Join(opts, "/"), defaultKey, defLabel)
		raw, err := lp.readLine()
		if err != nil {
			return "", err
		}
		if raw == "" {
			return defaultKey, nil
		}
		for _, k := range keys {
			if raw == k {
				return k, nil
			}
		}
		fmt.Fprintf(lp.out, "Please enter one of: %s (or press Enter for default).\n", strings.Join(keys, ", "))
	}
}

// Confirm asks a yes/no question. Accepts y/yes/j/ja and n/no/nein.
func (lp *LinePrompter) Confirm(question string, defaultYes bool) (bool, error) {
	d := "n"
	if defaultYes {
		d = "y"
	}
	for {
		fmt.Fprintf(lp.out, "%s (y/n) [Default: %s]: ", question, d)
		raw, err := lp.readLine()
		if err != nil {
			return false, err
		}
		switch raw {
		case "":
			return defaultYes, nil
		case "y", "yes", "j", "ja":
			return true, nil
		case "n", "no", "nein":
			return false, nil
		}
		fmt.Fprintln(lp.out, "Please enter y/n (or press Enter for default).")
	}
}

func (lp *LinePrompter) readLine() (string, error) {
	line, err := lp.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrNoAnswer
		}
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
