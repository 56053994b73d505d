package ui

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpaudio/internal/model"
	"jpaudio/internal/progress"
	"jpaudio/internal/scan"
)

func testScan() scan.Result {
	return scan.Result{
		Files: []model.VideoFile{
			{InputPath: "/v/a.mkv", OutputPath: "/v/a.mp3"},
			{InputPath: "/v/b.mkv", OutputPath: "/v/b.mp3"},
		},
		Collisions: []scan.Collision{
			{File: model.VideoFile{InputPath: "/v/b.mp4", OutputPath: "/v/b.mp3"}, Claimer: "/v/b.mkv"},
		},
	}
}

func noRun(context.Context, progress.Reporter) []model.FileResult { return nil }

func TestNewModel_JobOrder(t *testing.T) {
	m := NewModel(context.Background(), "/v", testScan(), noRun)
	assert.Equal(t, []string{"job-1", "job-2", "job-3"}, m.jobOrder)
	assert.Equal(t, "/v/b.mp4", m.jobs["job-3"].file.InputPath)
	assert.Equal(t, progress.StageQueued, m.jobs["job-1"].stage)
}

func TestUpdate_StagesAndResults(t *testing.T) {
	m := NewModel(context.Background(), "/v", testScan(), noRun)

	next, _ := m.Update(jobUpdateMsg{U: progress.Update{JobID: "job-1", Stage: progress.StageExtracting, Percent: 42, Message: "Extracting audio from /v/a.mkv"}})
	m = next.(Model)
	assert.Equal(t, progress.StageExtracting, m.jobs["job-1"].stage)
	assert.InDelta(t, 42, m.jobs["job-1"].percent, 0.001)

	next, _ = m.Update(jobResultMsg{R: progress.Result{JobID: "job-1", FileResult: model.FileResult{
		File: model.VideoFile{InputPath: "/v/a.mkv", OutputPath: "/v/a.mp3"}, Status: model.StatusExtracted, Bytes: 2048,
	}}})
	m = next.(Model)
	js := m.jobs["job-1"]
	assert.True(t, js.done)
	assert.Equal(t, progress.StageCompleted, js.stage)
	assert.Equal(t, "Saved: a.mp3 (2.0 KB)", js.status)

	// Late progress ticks do not reopen a finished job.
	next, _ = m.Update(jobUpdateMsg{U: progress.Update{JobID: "job-1", Stage: progress.StageExtracting, Percent: 90}})
	m = next.(Model)
	assert.Equal(t, progress.StageCompleted, m.jobs["job-1"].stage)

	next, _ = m.Update(jobResultMsg{R: progress.Result{JobID: "job-2", FileResult: model.FileResult{
		Status: model.StatusFailed, Err: errors.New("extract: ffmpeg failed\nConversion failed!"),
	}}})
	m = next.(Model)
	assert.Equal(t, progress.StageError, m.jobs["job-2"].stage)
	assert.Equal(t, "extract: ffmpeg failed", m.jobs["job-2"].status)
}

func TestUpdate_BatchDoneQuits(t *testing.T) {
	m := NewModel(context.Background(), "/v", testScan(), noRun)
	results := []model.FileResult{
		{Status: model.StatusExtracted},
		{Status: model.StatusSkipped, Reason: "No Japanese audio track found"},
		{Status: model.StatusSkipped, Reason: "output collision"},
	}
	next, cmd := m.Update(batchDoneMsg{Results: results})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.finished)
	assert.Equal(t, results, m.Results())
	assert.Equal(t, progress.StageSkipped, m.jobs["job-3"].stage)
	assert.Contains(t, m.View(), "Extracted 1 · skipped 2 · failed 0")
}

func TestUpdate_QuitCancelsFirst(t *testing.T) {
	m := NewModel(context.Background(), "/v", testScan(), noRun)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.True(t, m.cancelling)
	assert.Error(t, m.ctx.Err())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTeaReporter_DropsProgressWhenFull(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	rep := teaReporter{ctx: context.Background(), ch: ch}
	rep.Update(progress.Update{JobID: "job-1", Stage: progress.StageExtracting, Percent: 10})
	rep.Update(progress.Update{JobID: "job-1", Stage: progress.StageExtracting, Percent: 20})
	rep.Log(progress.Log{JobID: "job-1", Line: "x"})
	require.Len(t, ch, 1)
	msg := (<-ch).(jobUpdateMsg)
	assert.InDelta(t, 10, msg.U.Percent, 0.001)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	full := make(chan tea.Msg)
	teaReporter{ctx: ctx, ch: full}.Result(progress.Result{JobID: "job-1"})
}

func TestUpdate_InterruptCancelsBatch(t *testing.T) {
	m := NewModel(context.Background(), "/v", testScan(), noRun)
	next, cmd := m.Update(interruptMsg{})
	m = next.(Model)
	assert.Nil(t, cmd, "the view stays up until the batch reports")
	assert.True(t, m.cancelling)
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)
}

func TestRun_CancelWaitsForBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var drained atomic.Bool
	run := func(ctx context.Context, _ progress.Reporter) []model.FileResult {
		<-ctx.Done()
		// Killing ffmpeg and removing partial output takes a moment.
		time.Sleep(150 * time.Millisecond)
		drained.Store(true)
		return []model.FileResult{{Status: model.StatusFailed, Err: ctx.Err()}}
	}
	time.AfterFunc(50*time.Millisecond, cancel)

	sc := scan.Result{Files: []model.VideoFile{{InputPath: "/v/a.mkv", OutputPath: "/v/a.mp3"}}}
	results, err := Run(ctx, "/v", sc, run, tea.WithInput(nil), tea.WithOutput(io.Discard))
	require.NoError(t, err)
	assert.True(t, drained.Load(), "Run returned before the batch finished")
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestRun_CompletesBatch(t *testing.T) {
	run := func(_ context.Context, rep progress.Reporter) []model.FileResult {
		r := model.FileResult{File: model.VideoFile{InputPath: "/v/a.mkv", OutputPath: "/v/a.mp3"}, Status: model.StatusExtracted, Track: "0:1"}
		rep.Result(progress.Result{JobID: "job-1", FileResult: r})
		return []model.FileResult{r}
	}
	sc := scan.Result{Files: []model.VideoFile{{InputPath: "/v/a.mkv", OutputPath: "/v/a.mp3"}}}
	results, err := Run(context.Background(), "/v", sc, run, tea.WithInput(nil), tea.WithOutput(io.Discard))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "0:1", results[0].Track)
}
