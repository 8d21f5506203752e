// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repair

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Event is one timestamped entry in a repair report.
type Event struct {
	Time time.Time `json:"time"`
	Msg  string    `json:"msg"`
}

// Report records what a repair run did, in order. It is saved as JSON next
// to the output so a failed repair can be reconstructed after the fact.
type Report struct {
	InputPath  string    `json:"input_path"`
	BackupPath string    `json:"backup_path,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Actions    []Event   `json:"actions"`
	Errors     []Event   `json:"errors"`
	FinalPath  string    `json:"final_path,omitempty"`
	FinalOK    bool      `json:"final_ok"`

	w io.Writer
}

// NewReport creates a report for one input file. Actions and errors are
// echoed to w as they are recorded.
func NewReport(inputPath string, w io.Writer) *Report {
	if w == nil {
		w = io.Discard
	}
	return &Report{
		InputPath: inputPath,
		Timestamp: time.Now().UTC(),
		Actions:   []Event{},
		Errors:    []Event{},
		w:         w,
	}
}

// Actionf records a step taken during the repair.
func (r *Report) Actionf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Actions = append(r.Actions, Event{Time: time.Now().UTC(), Msg: msg})
	fmt.Fprintf(r.w, "  %s\n", msg)
}

// Errorf records a failure encountered during the repair.
func (r *Report) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Errors = append(r.Errors, Event{Time: time.Now().UTC(), Msg: msg})
	fmt.Fprintf(r.w, "  error: %s\n", msg)
}

// Save writes the report as indented JSON to path.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
