// Package planner decides how each file's audio becomes an MP3: stream copy,
// constant bitrate, or VBR quality. [Select] is pure; the ffmpeg package turns
// the resulting [Plan] into command arguments.
package planner
