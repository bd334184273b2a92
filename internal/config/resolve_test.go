package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// scriptedPrompter returns canned answers and records which questions ran.
type scriptedPrompter struct {
	choice   string
	confirm  bool
	asked    []string
	failWith error
}

func (s *scriptedPrompter) Choose(q string, _ []Choice, _ string) (string, error) {
	s.asked = append(s.asked, "choose")
	return s.choice, s.failWith
}

func (s *scriptedPrompter) Confirm(q string, _ bool) (bool, error) {
	s.asked = append(s.asked, "confirm")
	return s.confirm, s.failWith
}

func TestResolve_PromptsForMissingValues(t *testing.T) {
	cfg := DefaultConfig()
	p := &scriptedPrompter{choice: "c", confirm: false}
	if err := Resolve(&cfg, true, p); err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeCBR {
		t.Errorf("mode = %q, want cbr", cfg.Mode)
	}
	if cfg.Recursive {
		t.Error("recursive should follow the prompt answer (false)")
	}
	if strings.Join(p.asked, ",") != "choose,confirm" {
		t.Errorf("asked = %v", p.asked)
	}
}

func TestResolve_SkipsWhatFlagsSupplied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModeSet = true
	cfg.RecursiveSet = true
	p := &scriptedPrompter{}
	if err := Resolve(&cfg, true, p); err != nil {
		t.Fatal(err)
	}
	if len(p.asked) != 0 {
		t.Errorf("no prompt expected, got %v", p.asked)
	}
}

func TestResolve_NoRecursionQuestionForFiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModeSet = true
	p := &scriptedPrompter{}
	if err := Resolve(&cfg, false, p); err != nil {
		t.Fatal(err)
	}
	if len(p.asked) != 0 {
		t.Errorf("no prompt expected for a single file, got %v", p.asked)
	}
}

func TestResolve_NoPromptAndNilPrompter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoPrompt = true
	p := &scriptedPrompter{}
	if err := Resolve(&cfg, true, p); err != nil {
		t.Fatal(err)
	}
	if len(p.asked) != 0 {
		t.Errorf("--no-prompt must bypass prompts, got %v", p.asked)
	}

	cfg = DefaultConfig()
	if err := Resolve(&cfg, true, nil); err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeAuto || cfg.Recursive {
		t.Errorf("defaults should hold without a prompter: mode=%q recursive=%v", cfg.Mode, cfg.Recursive)
	}
}

func TestResolve_PropagatesPromptError(t *testing.T) {
	cfg := DefaultConfig()
	p := &scriptedPrompter{failWith: ErrNoAnswer}
	if err := Resolve(&cfg, true, p); !errors.Is(err, ErrNoAnswer) {
		t.Errorf("err = %v, want ErrNoAnswer", err)
	}
}

func TestLinePrompter_Choose(t *testing.T) {
	var out bytes.Buffer
	lp := NewLinePrompter(strings.NewReader("x\nV\n"), &out)
	key, err := lp.Choose("Mode?", []Choice{{"a", "AUTO"}, {"v", "VBR"}}, "a")
	if err != nil {
		t.Fatal(err)
	}
	if key != "v" {
		t.Errorf("key = %q, want v", key)
	}
	if !strings.Contains(out.String(), "Please enter one of: a, v") {
		t.Errorf("invalid answer should be re-asked, output: %q", out.String())
	}
	if !strings.Contains(out.String(), "[Default: a=AUTO]") {
		t.Errorf("default not shown, output: %q", out.String())
	}
}

func TestLinePrompter_ChooseDefaultOnEmptyLine(t *testing.T) {
	lp := NewLinePrompter(strings.NewReader("\n"), &bytes.Buffer{})
	key, err := lp.Choose("Mode?", []Choice{{"a", "AUTO"}, {"c", "CBR"}}, "a")
	if err != nil || key != "a" {
		t.Errorf("got %q, %v; want a, nil", key, err)
	}
}

func TestLinePrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"nein\n", true, false},
		{"ja", false, true},
		{"\n", true, true},
		{"maybe\nn\n", true, false},
	}
	for _, tt := range tests {
		lp := NewLinePrompter(strings.NewReader(tt.input), &bytes.Buffer{})
		got, err := lp.Confirm("Recurse?", tt.def)
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLinePrompter_ClosedInput(t *testing.T) {
	lp := NewLinePrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, err := lp.Confirm("Recurse?", true); !errors.Is(err, ErrNoAnswer) {
		t.Errorf("err = %v, want ErrNoAnswer", err)
	}
}
