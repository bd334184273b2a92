package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/backmassage/mp4tomp3/internal/config"
)

func TestConfigure(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	Configure(config.ColorAlways)
	if !Enabled() {
		t.Error("ColorAlways should enable colors")
	}
	if got := Red.Sprint("x"); got == "x" {
		t.Error("enabled color should wrap text in escape codes")
	}

	Configure(config.ColorNever)
	if Enabled() {
		t.Error("ColorNever should disable colors")
	}
	if got := Red.Sprint("x"); got != "x" {
		t.Errorf("disabled color should print plain text, got %q", got)
	}
}

func TestConfigure_AutoHonorsNoColor(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	t.Setenv("NO_COLOR", "1")

	Configure(config.ColorAuto)
	if Enabled() {
		t.Error("NO_COLOR must disable auto colors")
	}
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file is not a terminal")
	}
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}
