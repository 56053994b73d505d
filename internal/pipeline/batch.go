package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"jpaudio/internal/model"
	"jpaudio/internal/progress"
	"jpaudio/internal/scan"
	"jpaudio/internal/util/media"
)

// User-facing batch notices.
const (
	NoticeScanning = "Scanning folder for video files"
	NoticeComplete = "Conversion complete!"
)

// ReasonCollision marks a file whose output is claimed by another input.
const ReasonCollision = "output collision"

// Batch runs the per-file workflow over every video file in a folder on a
// bounded worker pool.
type Batch struct {
	svc   *Service
	runID string
}

// NewBatch wraps svc. Jobs, extensions and the reporter come from svc.
// Every log line of the batch carries a fresh run id.
func NewBatch(svc *Service) *Batch {
	runID := uuid.NewString()
	svc.log = svc.log.With().Str("run", runID).Logger()
	return &Batch{svc: svc, runID: runID}
}

// RunID identifies this batch in logs.
func (b *Batch) RunID() string {
	return b.runID
}

// Jobs is the effective worker count.
func (b *Batch) Jobs() int {
	if b.svc.opts.Jobs > 0 {
		return b.svc.opts.Jobs
	}
	return runtime.NumCPU()
}

// Scan lists the video files of dir. The error wraps scan.ErrDirectory.
func (b *Batch) Scan(dir string) (scan.Result, error) {
	audioExt := b.svc.opts.AudioExt
	if audioExt == "" {
		audioExt = media.DefaultAudioExt
	}
	return scan.Directory(dir, b.svc.opts.VideoExts, audioExt)
}

// JobID names the task for the i-th scanned file.
func JobID(i int) string {
	return fmt.Sprintf("job-%d", i+1)
}

// RunScanned processes sc.Files concurrently and returns one result per file
// followed by one skipped result per collision. Results keep scan order.
func (b *Batch) RunScanned(ctx context.Context, sc scan.Result) []model.FileResult {
	results := make([]model.FileResult, len(sc.Files), len(sc.Files)+len(sc.Collisions))

	p := pool.New().WithMaxGoroutines(b.Jobs())
	for i, f := range sc.Files {
		p.Go(func() {
			id := JobID(i)
			if err := ctx.Err(); err != nil {
				results[i] = b.abandon(id, f, err)
				return
			}
			results[i] = b.svc.RunFile(ctx, id, f)
		})
	}
	p.Wait()

	for i, c := range sc.Collisions {
		r := model.FileResult{
			File:   c.File,
			Status: model.StatusSkipped,
			Reason: fmt.Sprintf("%s with %s", ReasonCollision, c.Claimer),
		}
		b.svc.reporter.Result(progress.Result{JobID: JobID(len(sc.Files) + i), FileResult: r})
		results = append(results, r)
	}
	return results
}

// abandon records a task that never started because the run was cancelled.
func (b *Batch) abandon(jobID string, f model.VideoFile, err error) model.FileResult {
	r := model.FileResult{File: f, Status: model.StatusFailed, Err: err}
	b.svc.reporter.Result(progress.Result{JobID: jobID, FileResult: r})
	return r
}

// Run scans dir and processes every video file in it, blocking until all
// tasks have finished. Per-file failures are reported in the summary; only
// a directory error is returned.
func (b *Batch) Run(ctx context.Context, dir string) (model.Summary, error) {
	start := time.Now()
	log := b.svc.log.With().Str("dir", dir).Logger()

	b.svc.reporter.Notice(progress.Notice{Message: NoticeScanning})
	sc, err := b.Scan(dir)
	if err != nil {
		return model.Summary{Dir: dir}, err
	}
	log.Info().Int("files", len(sc.Files)).Int("collisions", len(sc.Collisions)).Int("jobs", b.Jobs()).Msg("scan complete")

	results := b.RunScanned(ctx, sc)
	b.svc.reporter.Notice(progress.Notice{Message: NoticeComplete})

	sum := model.Summary{Dir: dir, Results: results, Elapsed: time.Since(start)}
	log.Info().
		Int("extracted", sum.Extracted()).
		Int("skipped", sum.Skipped()).
		Int("failed", sum.Failed()).
		Dur("elapsed", sum.Elapsed).
		Msg("batch done")
	return sum, nil
}
