package naming

import (
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		outDir string
		want   string
	}{
		{"alongside input", "/v/clip.mp4", "", "/v/clip.mp3"},
		{"uppercase ext", "/v/Trip.MOV", "", "/v/Trip.mp3"},
		{"m4v", "/v/show.m4v", "", "/v/show.mp3"},
		{"out dir flattens", "/v/sub/a.mp4", "/out", "/out/a.mp3"},
		{"dots in stem", "/v/2024.06.01 party.mp4", "", "/v/2024.06.01 party.mp3"},
		{"relative input", "clip.mp4", "", "clip.mp3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.input, tt.outDir); got != filepath.FromSlash(tt.want) {
				t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.outDir, got, tt.want)
			}
		})
	}
}

func TestCollisionResolver_NoCollision(t *testing.T) {
	cr := NewCollisionResolver()
	got := cr.Resolve("/in/a.mp4", "/out/a.mp3")
	if got != "/out/a.mp3" {
		t.Errorf("got %q, want /out/a.mp3", got)
	}
}

func TestCollisionResolver_SameOwnerIdempotent(t *testing.T) {
	cr := NewCollisionResolver()
	cr.Resolve("/in/a.mp4", "/out/a.mp3")
	got := cr.Resolve("/in/a.mp4", "/out/a.mp3")
	if got != "/out/a.mp3" {
		t.Errorf("same input should get same path, got %q", got)
	}
}

func TestCollisionResolver_DupSuffixes(t *testing.T) {
	cr := NewCollisionResolver()
	first := cr.Resolve("/in/a.mp4", "/out/a.mp3")
	second := cr.Resolve("/in/a.mov", "/out/a.mp3")
	third := cr.Resolve("/in/sub/a.m4v", "/out/a.mp3")

	if first != "/out/a.mp3" {
		t.Errorf("first = %q", first)
	}
	if second != "/out/a - dup1.mp3" {
		t.Errorf("second = %q, want dup1", second)
	}
	if third != "/out/a - dup2.mp3" {
		t.Errorf("third = %q, want dup2", third)
	}
}

func TestCollisionResolver_CaseAndNormalization(t *testing.T) {
	cr := NewCollisionResolver()
	cr.Resolve("/in/Clip.mp4", "/out/Clip.mp3")
	if got := cr.Resolve("/in/sub/clip.mp4", "/out/clip.mp3"); got != "/out/clip - dup1.mp3" {
		t.Errorf("case-only difference should collide, got %q", got)
	}

	// "é" precomposed vs e + combining acute.
	cr.Resolve("/in/caf\u00e9.mp4", "/out/caf\u00e9.mp3")
	if got := cr.Resolve("/in/x/cafe\u0301.mp4", "/out/cafe\u0301.mp3"); got != "/out/cafe\u0301 - dup1.mp3" {
		t.Errorf("NFC-equal names should collide, got %q", got)
	}
}
