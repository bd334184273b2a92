package naming

import (
	"path/filepath"
	"strings"
)

// OutputExt is the extension of every output file.
const OutputExt = ".mp3"

// OutputPath builds the output file path for input: same stem with an .mp3
// extension, placed in outputDir, or next to the input when outputDir is
// empty.
//
//	OutputPath("/v/Trip.MOV", "")      → /v/Trip.mp3
//	OutputPath("/v/sub/a.mp4", "/out") → /out/a.mp3
func OutputPath(input, outputDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+OutputExt)
}
