// Package report renders batch progress and results as plain text.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"jpaudio/internal/model"
	"jpaudio/internal/progress"
	"jpaudio/internal/util/format"
)

// Text is a progress.Reporter that writes one line per notice. It is used
// when stdout is not a terminal or the TUI is disabled.
type Text struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	stages  map[string]progress.Stage // last stage seen per job
}

// NewText returns a Text reporter writing to w. With verbose set, stage
// changes and ffmpeg stderr lines are echoed too.
func NewText(w io.Writer, verbose bool) *Text {
	return &Text{w: w, verbose: verbose, stages: make(map[string]progress.Stage)}
}

func (t *Text) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *Text) Notice(n progress.Notice) {
	t.printf("%s", n.Message)
}

// Update prints stage transitions only; progress ticks are dropped.
func (t *Text) Update(u progress.Update) {
	t.mu.Lock()
	prev, seen := t.stages[u.JobID]
	t.stages[u.JobID] = u.Stage
	t.mu.Unlock()
	if seen && prev == u.Stage {
		return
	}

	switch u.Stage {
	case progress.StageExtracting:
		t.printf("Extracting audio from %s", u.File)
	case progress.StageProbing:
		if t.verbose {
			t.printf("Probing %s", u.File)
		}
	}
}

func (t *Text) Log(l progress.Log) {
	if !t.verbose || strings.TrimSpace(l.Line) == "" {
		return
	}
	t.printf("  [%s] %s", l.JobID, l.Line)
}

func (t *Text) Result(r progress.Result) {
	in := r.File.InputPath
	switch r.Status {
	case model.StatusExtracted:
		t.printf("Saved %s (%s, track %s, %s)", r.File.OutputPath, format.HumanizeBytes(r.Bytes), r.Track, format.Elapsed(r.Duration))
	case model.StatusSkipped:
		t.printf("%s: %s", r.Reason, in)
	case model.StatusPlanned:
		t.printf("Plan: %s [%s] -> %s", in, r.Track, filepath.Base(r.File.OutputPath))
	case model.StatusFailed:
		t.printf("Failed %s: %v", in, r.Err)
	}
}

// PrintSummary writes the closing counts and elapsed time.
func PrintSummary(w io.Writer, s model.Summary) {
	if s.Planned() > 0 {
		fmt.Fprintf(w, "Planned: %d, skipped: %d, failed: %d\n", s.Planned(), s.Skipped(), s.Failed())
	} else {
		fmt.Fprintf(w, "Extracted: %d, skipped: %d, failed: %d\n", s.Extracted(), s.Skipped(), s.Failed())
	}
	fmt.Fprintf(w, "Elapsed time: %s\n", format.Elapsed(s.Elapsed))
}
