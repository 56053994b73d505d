// Package pipeline orchestrates the probe → select → extract workflow for a
// single file and for a whole folder.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"jpaudio/internal/extractor"
	"jpaudio/internal/model"
	"jpaudio/internal/probe"
	"jpaudio/internal/progress"
	"jpaudio/internal/selector"
	"jpaudio/internal/util"
)

// Skip reasons reported to the user.
const (
	ReasonNoJapanese   = "No Japanese audio track found"
	ReasonOutputExists = "output exists"
)

// Service runs the per-file workflow.
type Service struct {
	ffprobePath string
	ffmpegPath  string
	opts        model.Options
	runner      util.CmdRunner
	reporter    progress.Reporter
	log         zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFFprobePath sets the ffprobe binary path.
func WithFFprobePath(p string) Option {
	return func(s *Service) {
		s.ffprobePath = p
	}
}

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithOptions sets the runtime options.
func WithOptions(o model.Options) Option {
	return func(s *Service) {
		s.opts = o
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches the status sink.
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService constructs a Service, filling in defaults for anything unset.
func NewService(opts ...Option) *Service {
	s := &Service{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	if s.reporter == nil {
		s.reporter = progress.Nop{}
	}
	if s.opts.Quality == "" {
		s.opts.Quality = extractor.DefaultQuality
	}
	return s
}

// RunFile probes file, selects its Japanese track and extracts it.
// It never returns an error: every outcome, including failures, is described
// by the returned FileResult, which is also sent to the reporter.
func (s *Service) RunFile(ctx context.Context, jobID string, file model.VideoFile) model.FileResult {
	start := time.Now()
	log := s.log.With().Str("job", jobID).Str("file", file.InputPath).Logger()
	res := model.FileResult{File: file}

	finish := func() model.FileResult {
		res.Duration = time.Since(start)
		ev := log.Info()
		if res.Status == model.StatusFailed {
			ev = log.Warn().Err(res.Err)
		}
		ev.Str("status", string(res.Status)).Str("track", res.Track).Dur("took", res.Duration).Msg("file done")
		s.reporter.Result(progress.Result{JobID: jobID, FileResult: res})
		return res
	}
	fail := func(stage string, err error) model.FileResult {
		res.Status = model.StatusFailed
		res.Err = fmt.Errorf("%s: %w", stage, err)
		s.update(jobID, file, progress.StageError, res.Err.Error())
		return finish()
	}

	if s.ffprobePath == "" {
		return fail("probe", errors.New("ffprobe path is required"))
	}
	if !s.opts.DryRun && s.ffmpegPath == "" {
		return fail("extract", errors.New("ffmpeg path is required"))
	}

	if s.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.TaskTimeout)
		defer cancel()
	}
	ctx = log.WithContext(ctx)

	// Step 1: Probe
	s.update(jobID, file, progress.StageProbing, "Probing streams")
	report, err := probe.Run(ctx, file.InputPath, probe.Options{
		FFprobePath: s.ffprobePath,
		Runner:      s.runner,
	})
	if err != nil {
		return fail("probe", s.explain(ctx, err))
	}
	log.Debug().Int("audio_streams", len(report.Streams)).Float64("duration", report.DurationSec).Msg("probed")

	// Step 2: Select
	track, err := selector.Select(report.Streams)
	if err != nil {
		if errors.Is(err, selector.ErrNotFound) {
			log.Info().Err(err).Msg("skipping")
			res.Status = model.StatusSkipped
			res.Reason = ReasonNoJapanese
			s.update(jobID, file, progress.StageSkipped, ReasonNoJapanese)
			return finish()
		}
		return fail("select", err)
	}
	res.Track = track

	if s.opts.DryRun {
		res.Status = model.StatusPlanned
		s.update(jobID, file, progress.StageCompleted, fmt.Sprintf("Planned: %s -> %s", track, filepath.Base(file.OutputPath)))
		return finish()
	}

	if !s.opts.Overwrite && util.FileExists(file.OutputPath) {
		res.Status = model.StatusSkipped
		res.Reason = ReasonOutputExists
		s.update(jobID, file, progress.StageSkipped, ReasonOutputExists)
		return finish()
	}

	// Step 3: Extract
	s.update(jobID, file, progress.StageExtracting, "Extracting audio from "+file.InputPath)
	out, err := extractor.Extract(ctx, file, track, extractor.Options{
		FFmpegPath:  s.ffmpegPath,
		Quality:     s.opts.Quality,
		Overwrite:   s.opts.Overwrite,
		DurationSec: report.DurationSec,
		Runner:      s.runner,
		Reporter:    s.reporter,
		JobID:       jobID,
	})
	if err != nil {
		return fail("extract", s.explain(ctx, err))
	}

	res.Status = model.StatusExtracted
	res.Bytes = out.Bytes
	s.update(jobID, file, progress.StageCompleted, "Saved: "+filepath.Base(out.OutputPath))
	return finish()
}

// explain marks errors caused by the per-file timeout.
func (s *Service) explain(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && s.opts.TaskTimeout > 0 {
		return fmt.Errorf("timed out after %s: %w", s.opts.TaskTimeout, err)
	}
	return err
}

func (s *Service) update(jobID string, file model.VideoFile, stage progress.Stage, msg string) {
	percent := -1.0
	if stage == progress.StageCompleted {
		percent = 100
	}
	s.reporter.Update(progress.Update{
		JobID:   jobID,
		File:    file.InputPath,
		Stage:   stage,
		Percent: percent,
		Message: msg,
	})
}
