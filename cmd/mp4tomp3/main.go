// Command mp4tomp3 extracts the audio of MP4, M4V and MOV files into MP3
// using ffmpeg and ffprobe.
package main

import "os"

// version is injected at build time via -ldflags.
var version = "1.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}
