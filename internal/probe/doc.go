// Package probe inspects media files with ffprobe and reports the first audio
// stream as an [AudioStreamInfo]. One JSON call is made per file and no state
// is kept between calls.
//
// Only the first audio stream is described. StreamCount lets callers note
// that further streams are ignored.
package probe
