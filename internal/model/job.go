package model

import (
	"time"

	"github.com/samber/lo"
)

// StreamDescriptor is one audio stream line parsed from probe output.
type StreamDescriptor struct {
	Label    string // container:stream index, e.g. "0:2"
	Language string // language tag as printed, "" when the stream has none
}

// VideoFile pairs an input video with the audio file it produces.
type VideoFile struct {
	InputPath  string
	OutputPath string
}

// Options holds user-configurable runtime options as resolved from flags,
// environment and config file.
type Options struct {
	VideoExts   []string // Lowercase, dot-prefixed, e.g. ".mkv"
	AudioExt    string   // Output extension, e.g. ".mp3"
	Quality     string   // ffmpeg -q:a value; "0" is best VBR quality
	Overwrite   bool
	TaskTimeout time.Duration // 0 disables the per-file timeout
	FFmpeg      string        // Optional explicit ffmpeg path
	FFprobe     string        // Optional explicit ffprobe path
	DryRun      bool
	Verbose     bool

	NoUI bool // Disable TUI when true
	Jobs int  // Max concurrent files
}

// Status is the outcome of processing one file.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
	StatusPlanned   Status = "planned"
)

// FileResult captures what happened to a single video file.
type FileResult struct {
	File     VideoFile
	Status   Status
	Track    string // Selected stream label; empty when none was chosen
	Reason   string // Human-readable skip reason
	Bytes    int64  // Output size for extracted files
	Duration time.Duration
	Err      error // Set for StatusFailed
}

// Summary is the aggregate outcome of a batch run.
type Summary struct {
	Dir     string
	Results []FileResult
	Elapsed time.Duration
}

func (s Summary) count(st Status) int {
	return lo.CountBy(s.Results, func(r FileResult) bool {
		return r.Status == st
	})
}

func (s Summary) Extracted() int { return s.count(StatusExtracted) }
func (s Summary) Skipped() int   { return s.count(StatusSkipped) }
func (s Summary) Failed() int    { return s.count(StatusFailed) }
func (s Summary) Planned() int   { return s.count(StatusPlanned) }
