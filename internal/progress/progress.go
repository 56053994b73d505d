package progress

import "jpaudio/internal/model"

// Stage identifies a high-level step in processing one file.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageProbing    Stage = "probing"
	StageExtracting Stage = "extracting"
	StageCompleted  Stage = "completed"
	StageSkipped    Stage = "skipped"
	StageError      Stage = "error"
)

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys progress or stage changes for a job.
// Percent is 0..100 when known; set to a negative value (e.g., -1) to mean unknown.
type Update struct {
	JobID   string
	File    string // input path
	Stage   Stage
	Percent float64

	Speed   *string // optional, e.g. "41.3x"
	Bytes   *int64  // optional output bytes written so far
	Message string  // short human-friendly status line
}

// Log is a raw subprocess line associated with a job.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it completes, is skipped or fails.
type Result struct {
	JobID string
	model.FileResult
}

// Notice is a batch-level status line such as the scan and completion
// messages.
type Notice struct {
	Message string
}

// Reporter is implemented by UI or any observer interested in progress events.
// Implementations must be safe for concurrent use: jobs report from their own
// goroutines.
type Reporter interface {
	Notice(n Notice)
	Update(u Update)
	Log(l Log)
	Result(r Result)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notice(Notice) {}
func (Nop) Update(Update) {}
func (Nop) Log(Log) {}
func (Nop) Result(Result) {}
