package report

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpaudio/internal/model"
	"jpaudio/internal/progress"
)

func TestText_Lines(t *testing.T) {
	var buf bytes.Buffer
	rep := NewText(&buf, false)

	rep.Notice(progress.Notice{Message: "Scanning folder for video files"})
	rep.Update(progress.Update{File: "/v/a.mkv", Stage: progress.StageProbing, Percent: -1})
	rep.Update(progress.Update{File: "/v/a.mkv", Stage: progress.StageExtracting, Percent: -1})
	rep.Update(progress.Update{File: "/v/a.mkv", Stage: progress.StageExtracting, Percent: 40})
	rep.Log(progress.Log{JobID: "job-1", Line: "size=1kB"})
	rep.Result(progress.Result{JobID: "job-1", FileResult: model.FileResult{
		File:   model.VideoFile{InputPath: "/v/a.mkv", OutputPath: "/v/a.mp3"},
		Status: model.StatusExtracted, Track: "0:1", Bytes: 2048, Duration: 1500 * time.Millisecond,
	}})
	rep.Result(progress.Result{JobID: "job-2", FileResult: model.FileResult{
		File:   model.VideoFile{InputPath: "/v/d.mkv", OutputPath: "/v/d.mp3"},
		Status: model.StatusSkipped, Reason: "No Japanese audio track found",
	}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Scanning folder for video files", lines[0])
	assert.Equal(t, "Extracting audio from /v/a.mkv", lines[1])
	assert.Equal(t, "Saved /v/a.mp3 (2.0 KB, track 0:1, 1.5s)", lines[2])
	assert.Equal(t, "No Japanese audio track found: /v/d.mkv", lines[3])
}

func TestText_VerboseEchoesLogs(t *testing.T) {
	var buf bytes.Buffer
	rep := NewText(&buf, true)
	rep.Update(progress.Update{File: "/v/a.mkv", Stage: progress.StageProbing})
	rep.Log(progress.Log{JobID: "job-1", Line: "size=1kB"})
	rep.Log(progress.Log{JobID: "job-1", Line: "   "})

	out := buf.String()
	assert.Contains(t, out, "Probing /v/a.mkv")
	assert.Contains(t, out, "[job-1] size=1kB")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestText_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	rep := NewText(&buf, false)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep.Notice(progress.Notice{Message: "tick"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, strings.Count(buf.String(), "tick\n"))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, model.Summary{
		Results: []model.FileResult{
			{Status: model.StatusExtracted},
			{Status: model.StatusSkipped},
			{Status: model.StatusFailed, Err: errors.New("boom")},
		},
		Elapsed: 2 * time.Second,
	})
	assert.Equal(t, "Extracted: 1, skipped: 1, failed: 1\nElapsed time: 2s\n", buf.String())
}

func TestSummaryTable(t *testing.T) {
	assert.Empty(t, SummaryTable(nil))

	out := SummaryTable([]model.FileResult{
		{File: model.VideoFile{InputPath: "/v/a.mkv", OutputPath: "/v/a.mp3"}, Status: model.StatusExtracted, Track: "0:1", Bytes: 1024},
		{File: model.VideoFile{InputPath: "/v/b.mkv", OutputPath: "/v/b.mp3"}, Status: model.StatusFailed, Err: errors.New("extract: ffmpeg failed\nConversion failed!")},
	})
	assert.Contains(t, out, "a.mkv")
	assert.Contains(t, out, "1.0 KB")
	assert.Contains(t, out, "extract: ffmpeg failed")
	assert.NotContains(t, out, "Conversion failed!")
}
