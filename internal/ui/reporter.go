package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"jpaudio/internal/progress"
)

// teaReporter forwards pipeline events into the program's event channel.
// Progress ticks and log lines are dropped when the channel is full; stage
// changes and results are not.
type teaReporter struct {
	ctx context.Context
	ch  chan<- tea.Msg
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r teaReporter) trySend(msg tea.Msg) {
	select {
	case r.ch <- msg:
	default:
	}
}

func (r teaReporter) Notice(n progress.Notice) {
	r.send(noticeMsg{N: n})
}

func (r teaReporter) Update(u progress.Update) {
	if u.Stage == progress.StageExtracting && u.Percent >= 0 {
		r.trySend(jobUpdateMsg{U: u})
		return
	}
	r.send(jobUpdateMsg{U: u})
}

func (r teaReporter) Log(l progress.Log) {
	r.trySend(jobLogMsg{L: l})
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}
