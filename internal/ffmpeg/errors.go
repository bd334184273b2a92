package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output. Checked in
// order by [Diagnose]; the first match wins.
var diagnoses = []struct {
	re  *regexp.Regexp
	msg string
}{
	{regexp.MustCompile(`Unknown encoder '?libmp3lame'?|Encoder not found`),
		"ffmpeg was built without libmp3lame"},
	{regexp.MustCompile(`(?i)Invalid data found when processing input|moov atom not found`),
		"input is corrupt or not a media file"},
	{regexp.MustCompile(`(?i)Stream map '0:a:0' matches no streams|does not contain any stream`),
		"input has no audio stream"},
	{regexp.MustCompile(`(?i)Permission denied`),
		"permission denied"},
	{regexp.MustCompile(`(?i)No space left on device`),
		"no space left on device"},
	{regexp.MustCompile(`(?i)Invalid audio stream|Could not find tag for codec|incorrect codec parameters`),
		"audio codec cannot be copied into MP3"},
}

// Diagnose returns a one-line explanation for a known ffmpeg failure, or ""
// when stderr matches nothing recognizable.
func Diagnose(stderr string) string {
	for _, d := range diagnoses {
		if d.re.MatchString(stderr) {
			return d.msg
		}
	}
	return ""
}
