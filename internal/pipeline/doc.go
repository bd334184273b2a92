// Package pipeline orchestrates file discovery, per-file processing, and
// batch summary reporting.
//
// [Walk] enumerates inputs lazily. [Driver.Run] takes each one through
// probe → select → output naming → convert and records exactly one outcome
// per file in a [Summary]. [Analyze] runs the same probe and selection steps
// and prints the plan without converting.
package pipeline
