package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"jpaudio/internal/model"
	"jpaudio/internal/pipeline"
	"jpaudio/internal/progress"
	"jpaudio/internal/scan"
	"jpaudio/internal/util/format"
)

// RunFunc processes the scanned files, sending events to rep, and returns
// one result per file.
type RunFunc func(ctx context.Context, rep progress.Reporter) []model.FileResult

// batchState is shared by every copy of the Model so that Run can wait for
// the batch after the program has exited.
type batchState struct {
	mu        sync.Mutex
	started   bool
	abandoned bool
	done      chan struct{}
	results   []model.FileResult
}

// start reports whether the batch may run. It returns false once the
// program has exited without starting it.
func (b *batchState) start() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.abandoned {
		return false
	}
	b.started = true
	return true
}

// wait blocks until a started batch returns and reports its results.
func (b *batchState) wait() ([]model.FileResult, bool) {
	b.mu.Lock()
	b.abandoned = true
	started := b.started
	b.mu.Unlock()
	if !started {
		return nil, false
	}
	<-b.done
	return b.results, true
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	run    RunFunc
	batch  *batchState

	dir      string
	jobOrder []string
	jobs     map[string]*jobState
	notice   string

	results    []model.FileResult
	finished   bool
	cancelling bool

	// UI
	width, height int
	styles        Styles
	spinner       spinner.Model

	// Internal event channel used by the reporter to feed tea messages.
	eventCh chan tea.Msg
}

// NewModel builds the view for the files of sc. run starts when the
// program starts.
func NewModel(ctx context.Context, dir string, sc scan.Result, run RunFunc) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	total := len(sc.Files) + len(sc.Collisions)
	jobs := make(map[string]*jobState, total)
	order := make([]string, 0, total)
	add := func(f model.VideoFile) {
		id := pipeline.JobID(len(order))
		jobs[id] = newJobState(id, f)
		order = append(order, id)
	}
	for _, f := range sc.Files {
		add(f)
	}
	for _, col := range sc.Collisions {
		add(col.File)
	}

	sp := spinner.New()
	sp.Style = sty.Spinner

	return Model{
		ctx:      c,
		cancel:   cancel,
		run:      run,
		batch:    &batchState{done: make(chan struct{})},
		dir:      dir,
		jobs:     jobs,
		jobOrder: order,
		styles:   sty,
		spinner:  sp,
		notice:   pipeline.NoticeScanning,
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenEventsCmd(), m.runBatchCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancelling || m.finished {
				return m, tea.Quit
			}
			return m.interrupt(), nil
		}
	case interruptMsg:
		if m.finished {
			return m, nil
		}
		return m.interrupt(), nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case noticeMsg:
		m.notice = msg.N.Message
		return m, m.listenEventsCmd()

	case jobUpdateMsg:
		m.applyUpdate(msg.U)
		return m, m.listenEventsCmd()

	case jobLogMsg:
		if js, ok := m.jobs[msg.L.JobID]; ok {
			if line := strings.TrimRight(msg.L.Line, "\r\n"); line != "" {
				js.appendLog(line)
			}
		}
		return m, m.listenEventsCmd()

	case jobResultMsg:
		m.applyResult(msg.R)
		return m, m.listenEventsCmd()

	case batchDoneMsg:
		m.results = msg.Results
		m.finished = true
		m.notice = pipeline.NoticeComplete
		for i, r := range msg.Results {
			if i < len(m.jobOrder) {
				m.applyResult(progress.Result{JobID: m.jobOrder[i], FileResult: r})
			}
		}
		return m, tea.Quit
	}
	return m, nil
}

// interrupt cancels the batch. Running ffmpeg processes are killed and the
// view stays up until the batch has reported them.
func (m Model) interrupt() Model {
	m.cancelling = true
	m.notice = "Cancelling…"
	m.cancel()
	return m
}

func (m Model) applyUpdate(u progress.Update) {
	js, ok := m.jobs[u.JobID]
	if !ok || js.done {
		return
	}
	js.stage = u.Stage
	js.percent = u.Percent
	if u.Message != "" {
		js.status = u.Message
	}
	if u.Speed != nil {
		js.speed = *u.Speed
	}
}

func (m Model) applyResult(r progress.Result) {
	js, ok := m.jobs[r.JobID]
	if !ok {
		return
	}
	js.done = true
	js.result = r.FileResult
	switch r.Status {
	case model.StatusExtracted:
		js.stage = progress.StageCompleted
		js.percent = 100
		js.status = fmt.Sprintf("Saved: %s (%s)", filepath.Base(r.File.OutputPath), format.HumanizeBytes(r.Bytes))
	case model.StatusPlanned:
		js.stage = progress.StageCompleted
		js.percent = -1
		js.status = fmt.Sprintf("Planned: track %s -> %s", r.Track, filepath.Base(r.File.OutputPath))
	case model.StatusSkipped:
		js.stage = progress.StageSkipped
		js.percent = -1
		js.status = r.Reason
	case model.StatusFailed:
		js.stage = progress.StageError
		js.percent = -1
		if r.Err != nil {
			js.status = strings.SplitN(r.Err.Error(), "\n", 2)[0]
		}
	}
}

// Results returns the batch results once the run has finished.
func (m Model) Results() []model.FileResult {
	return m.results
}

func (m Model) View() string {
	out := m.viewHeader() + "\n\n" + m.viewJobs()
	if summary := m.viewSummary(); summary != "" {
		out += "\n" + summary
	}
	return out
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case msg := <-m.eventCh:
			return msg
		}
	}
}

func (m Model) runBatchCmd() tea.Cmd {
	return func() tea.Msg {
		if !m.batch.start() {
			return nil
		}
		rep := teaReporter{ctx: m.ctx, ch: m.eventCh}
		m.batch.results = m.run(m.ctx, rep)
		close(m.batch.done)
		return batchDoneMsg{Results: m.batch.results}
	}
}
