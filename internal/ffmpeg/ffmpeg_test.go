package ffmpeg

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/backmassage/mp4tomp3/internal/planner"
)

// --- Helpers ---

// hasPair reports whether flag is immediately followed by value in args.
func hasPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// --- Build tests ---

func TestBuild_SharedSkeleton(t *testing.T) {
	for _, plan := range []planner.Plan{planner.Copy(), planner.CBR("192k"), planner.VBR(2)} {
		t.Run(plan.String(), func(t *testing.T) {
			args := Build("/in/clip.mp4", "/out/.clip.tmp.mp3", plan)

			checks := [][2]string{
				{"-i", "/in/clip.mp4"},
				{"-map", "0:a:0"},
				{"-map_metadata", "0"},
				{"-id3v2_version", "3"},
				{"-f", "mp3"},
				{"-loglevel", "error"},
			}
			for _, c := range checks {
				if !hasPair(args, c[0], c[1]) {
					t.Errorf("missing %s %s in %v", c[0], c[1], args)
				}
			}
			for _, flag := range []string{"-vn", "-hide_banner", "-nostdin", "-y"} {
				if !slices.Contains(args, flag) {
					t.Errorf("missing %s in %v", flag, args)
				}
			}
			if !slices.Contains(args, "/out/.clip.tmp.mp3") {
				t.Errorf("missing output path in %v", args)
			}
			in := slices.Index(args, "/in/clip.mp4")
			out := slices.Index(args, "/out/.clip.tmp.mp3")
			if in > out {
				t.Errorf("input must precede output: %v", args)
			}

			// -vn is a bare flag: the token after it is the output, and only
			// global options follow the output.
			vn := slices.Index(args, "-vn")
			if vn < 0 || vn+1 >= len(args) || args[vn+1] != "/out/.clip.tmp.mp3" {
				t.Errorf("-vn must be followed directly by the output: %v", args)
			}
			globals := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}
			if out >= 0 && !slices.Equal(args[out+1:], globals) {
				t.Errorf("after output got %v, want %v", args[out+1:], globals)
			}
			if slices.Contains(args, "<nil>") {
				t.Errorf("stray <nil> argument in %v", args)
			}
		})
	}
}

func TestBuild_CodecSection(t *testing.T) {
	tests := []struct {
		name     string
		plan     planner.Plan
		want     [][2]string
		unwanted []string
	}{
		{"copy", planner.Copy(), [][2]string{{"-c:a", "copy"}}, []string{"-b:a", "-q:a"}},
		{"cbr", planner.CBR("256k"), [][2]string{{"-c:a", "libmp3lame"}, {"-b:a", "256k"}}, []string{"-q:a"}},
		{"vbr", planner.VBR(4), [][2]string{{"-c:a", "libmp3lame"}, {"-q:a", "4"}}, []string{"-b:a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Build("in.mov", "out.mp3", tt.plan)
			for _, w := range tt.want {
				if !hasPair(args, w[0], w[1]) {
					t.Errorf("missing %s %s in %v", w[0], w[1], args)
				}
			}
			for _, u := range tt.unwanted {
				if slices.Contains(args, u) {
					t.Errorf("unexpected %s in %v", u, args)
				}
			}
		})
	}
}

func TestBuild_SpacesInPathsStayOneArgument(t *testing.T) {
	args := Build("/media/My Videos/a b.mp4", "/media/My Videos/.a b.tmp.mp3", planner.VBR(2))
	if !hasPair(args, "-i", "/media/My Videos/a b.mp4") {
		t.Errorf("input path split or missing: %v", args)
	}
}

// --- Diagnose tests ---

func TestDiagnose(t *testing.T) {
	tests := []struct {
		stderr string
		want   string
	}{
		{"Unknown encoder 'libmp3lame'", "ffmpeg was built without libmp3lame"},
		{"/v/x.mp4: Invalid data found when processing input", "input is corrupt or not a media file"},
		{"[mov,mp4,m4a] moov atom not found", "input is corrupt or not a media file"},
		{"Stream map '0:a:0' matches no streams.", "input has no audio stream"},
		{"/out/a.mp3: Permission denied", "permission denied"},
		{"av_interleaved_write_frame(): No space left on device", "no space left on device"},
		{"something unusual", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Diagnose(tt.stderr); got != tt.want {
			t.Errorf("Diagnose(%q) = %q, want %q", tt.stderr, got, tt.want)
		}
	}
}

// --- ExecError / Runner tests ---

func TestExecError_MessageAndTail(t *testing.T) {
	inner := errors.New("exit status 1")
	e := &ExecError{
		Stderr: "line one\n\nline two\nInvalid data found when processing input\n",
		Err:    inner,
	}
	if !strings.Contains(e.Error(), "input is corrupt") {
		t.Errorf("Error() = %q, want diagnosis", e.Error())
	}
	if !errors.Is(e, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
	tail := e.Tail(2)
	if len(tail) != 2 || tail[0] != "line two" {
		t.Errorf("Tail(2) = %q", tail)
	}
	if got := len(e.Tail(10)); got != 3 {
		t.Errorf("Tail(10) returned %d lines, want 3", got)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	r := &Runner{Path: filepath.Join(t.TempDir(), "no-such-ffmpeg")}
	err := r.Encode(context.Background(), "in.mp4", "out.mp3", planner.Copy())
	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExecError, got %v", err)
	}
	if ee.Args[0] != r.Path {
		t.Errorf("Args[0] = %q, want binary path", ee.Args[0])
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not in PATH")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Path: bin}
	err = r.Encode(ctx, "in.mp4", filepath.Join(t.TempDir(), "out.mp3"), planner.Copy())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunner_PassesBuiltArgs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "argv")
	bin := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out dir", ".song.tmp.mp3")
	plan := planner.CBR("192k")
	r := &Runner{Path: bin}
	if err := r.Encode(context.Background(), "/in/my song.mp4", out, plan); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if want := Build("/in/my song.mp4", out, plan); !slices.Equal(got, want) {
		t.Errorf("ffmpeg received %q, want %q", got, want)
	}

	// Every token after the input is either a flag, a flag's value, or the
	// single output path.
	var positional []string
	for i := slices.Index(got, "/in/my song.mp4") + 1; i < len(got); i++ {
		if strings.HasPrefix(got[i], "-") {
			if takesValue(got[i]) {
				i++
			}
			continue
		}
		positional = append(positional, got[i])
	}
	if !slices.Equal(positional, []string{out}) {
		t.Errorf("positional arguments after input = %q, want only the output", positional)
	}
}

// takesValue reports whether an ffmpeg option used by Build consumes the
// following argument.
func takesValue(flag string) bool {
	switch flag {
	case "-vn", "-hide_banner", "-nostdin", "-y":
		return false
	}
	return true
}
