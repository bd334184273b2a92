// Package naming derives output paths and resolves in-run collisions.
//
// Every input maps to "<stem>.mp3" next to the input or in the configured
// output directory. When two inputs of the same run map to the same output
// (clip.mp4 and clip.mov, or two folders flattened into one --out), later
// inputs receive " - dup1", " - dup2", ... suffixes.
package naming
