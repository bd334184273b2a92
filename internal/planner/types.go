package planner

import "fmt"

// Kind is the encoding strategy for one file.
type Kind int

const (
	KindCopy Kind = iota // Stream-copy the existing MP3 audio.
	KindCBR              // Encode with libmp3lame at a constant bitrate.
	KindVBR              // Encode with libmp3lame at a VBR quality level.
)

func (k Kind) String() string {
	switch k {
	case KindCopy:
		return "COPY"
	case KindCBR:
		return "CBR"
	case KindVBR:
		return "VBR"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Plan is the encoding decision for a single file. It is produced by
// [Select] and consumed by the ffmpeg package to build command arguments.
// Bitrate is meaningful only for KindCBR, Quality only for KindVBR.
type Plan struct {
	Kind    Kind
	Bitrate string // e.g. "192k"
	Quality int    // 0 (best) .. 9
}

// Copy returns a stream-copy plan.
func Copy() Plan { return Plan{Kind: KindCopy} }

// CBR returns a constant-bitrate plan.
func CBR(bitrate string) Plan { return Plan{Kind: KindCBR, Bitrate: bitrate} }

// VBR returns a variable-bitrate plan.
func VBR(quality int) Plan { return Plan{Kind: KindVBR, Quality: quality} }

// String renders the plan for status lines: "COPY", "CBR 192k", "VBR q2".
func (p Plan) String() string {
	switch p.Kind {
	case KindCBR:
		return "CBR " + p.Bitrate
	case KindVBR:
		return fmt.Sprintf("VBR q%d", p.Quality)
	default:
		return p.Kind.String()
	}
}

// Reencodes reports whether the plan runs libmp3lame.
func (p Plan) Reencodes() bool { return p.Kind != KindCopy }
