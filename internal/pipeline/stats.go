package pipeline

import (
	"fmt"
	"time"

	"github.com/backmassage/mp4tomp3/internal/convert"
	"github.com/backmassage/mp4tomp3/internal/display"
)

// Record is the outcome of one enumerated input.
type Record struct {
	Input  string
	Output string // Empty when no output path was derived (probe failure, no audio).
	Plan   string // Plan label, e.g. "VBR q2"; "-" when no plan was selected.
	Reason string // Skip reason.
	Err    error  // Failure cause.

	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

// Summary aggregates the outcomes of a batch run. Every enumerated input is
// in exactly one of Converted, Skipped or Failed.
type Summary struct {
	Converted []Record
	Skipped   []Record
	Failed    []Record

	// Byte totals over converted files only.
	InputBytes  int64
	OutputBytes int64

	Elapsed     time.Duration
	Interrupted bool
}

func (s *Summary) add(status convert.Status, r Record) {
	switch status {
	case convert.StatusConverted:
		s.Converted = append(s.Converted, r)
		s.InputBytes += r.InputBytes
		s.OutputBytes += r.OutputBytes
	case convert.StatusSkipped:
		s.Skipped = append(s.Skipped, r)
	default:
		s.Failed = append(s.Failed, r)
	}
}

// Total returns the number of inputs that received an outcome.
func (s *Summary) Total() int {
	return len(s.Converted) + len(s.Skipped) + len(s.Failed)
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs
// of converted files.
func (s *Summary) SpaceSaved() int64 {
	return s.InputBytes - s.OutputBytes
}

// Table renders the counts and byte totals as a table.
func (s *Summary) Table() string {
	rows := [][]string{
		{"Converted", fmt.Sprint(len(s.Converted))},
		{"Skipped", fmt.Sprint(len(s.Skipped))},
		{"Failed", fmt.Sprint(len(s.Failed))},
		{"Input size", display.FormatBytes(s.InputBytes)},
		{"Output size", display.FormatBytes(s.OutputBytes)},
		{"Elapsed", display.FormatElapsed(s.Elapsed)},
	}
	return display.RenderTable([]string{"Result", "Value"}, rows, []display.Align{display.AlignLeft, display.AlignRight})
}

// FailureTable renders one row per failed input, or "" when nothing failed.
func (s *Summary) FailureTable() string {
	if len(s.Failed) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(s.Failed))
	for _, r := range s.Failed {
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		rows = append(rows, []string{r.Input, msg})
	}
	return display.RenderTable([]string{"Failed file", "Error"}, rows, nil)
}
