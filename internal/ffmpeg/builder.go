package ffmpeg

import (
	"strconv"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/backmassage/mp4tomp3/internal/planner"
)

// Build constructs the ffmpeg argument slice (without the binary name) that
// turns the first audio stream of input into an MP3 at output.
//
// Every plan shares the same skeleton: drop video, map only 0:a:0, carry the
// container metadata into ID3v2.3 tags, force the mp3 muxer (output is a
// temp name, so the extension cannot be relied on). The plan adds the codec
// section:
//
//	Copy → -c:a copy
//	CBR  → -c:a libmp3lame -b:a <bitrate>
//	VBR  → -c:a libmp3lame -q:a <quality>
func Build(input, output string, plan planner.Plan) []string {
	kw := ffmpeggo.KwArgs{
		"vn":            "", // bare flag; a nil value renders as "<nil>"
		"map":           "0:a:0",
		"map_metadata":  "0",
		"id3v2_version": "3",
		"f":             "mp3",
	}
	for k, v := range codecArgs(plan) {
		kw[k] = v
	}

	return ffmpeggo.Input(input).
		Output(output, kw).
		GlobalArgs("-hide_banner", "-nostdin", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()
}

func codecArgs(plan planner.Plan) ffmpeggo.KwArgs {
	switch plan.Kind {
	case planner.KindCBR:
		return ffmpeggo.KwArgs{"c:a": "libmp3lame", "b:a": plan.Bitrate}
	case planner.KindVBR:
		return ffmpeggo.KwArgs{"c:a": "libmp3lame", "q:a": strconv.Itoa(plan.Quality)}
	default:
		return ffmpeggo.KwArgs{"c:a": "copy"}
	}
}
