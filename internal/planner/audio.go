package planner

import "strings"

// aacFamily lists ffprobe codec names treated as AAC in auto mode.
var aacFamily = map[string]bool{
	"aac":       true,
	"aac_latm":  true,
	"aac_fixed": true,
	"mp4a":      true,
}

func isAACFamily(codec string) bool {
	return aacFamily[strings.ToLower(strings.TrimSpace(codec))]
}

// isMP3 reports whether the audio can be stream-copied into an .mp3 file.
func isMP3(codec string) bool {
	return strings.EqualFold(strings.TrimSpace(codec), "mp3")
}
