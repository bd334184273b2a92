// Package ffmpeg builds and executes the ffmpeg command that extracts a
// file's first audio stream into MP3.
//
// Arguments are assembled with github.com/u2takey/ffmpeg-go ([Build]); the
// process is run by [Runner] under a context so an interrupt kills it.
// Failures carry captured stderr in [*ExecError], and [Diagnose] maps common
// stderr patterns to a one-line reason.
package ffmpeg
