package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"

	"jpaudio/internal/model"
	"jpaudio/internal/progress"
)

type jobState struct {
	id     string
	file   model.VideoFile
	stage  progress.Stage
	status string
	done   bool

	result  model.FileResult
	percent float64 // -1 means unknown
	speed   string

	bar bubblesprogress.Model

	// Recent ffmpeg stderr lines, kept small.
	logsRing []string
}

func newJobState(id string, f model.VideoFile) *jobState {
	return &jobState{
		id:      id,
		file:    f,
		stage:   progress.StageQueued,
		status:  "Queued",
		percent: -1,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
	}
}

const maxLogLines = 50

func (js *jobState) appendLog(line string) {
	if len(js.logsRing) >= maxLogLines {
		js.logsRing = js.logsRing[1:]
	}
	js.logsRing = append(js.logsRing, line)
}

func (js *jobState) lastLog() string {
	if len(js.logsRing) == 0 {
		return ""
	}
	return js.logsRing[len(js.logsRing)-1]
}
