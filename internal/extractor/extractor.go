// Package extractor runs ffmpeg to copy a single audio stream out of a video
// file into a standalone audio file.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"jpaudio/internal/model"
	"jpaudio/internal/progress"
	"jpaudio/internal/util"
)

// Options control ffmpeg execution.
type Options struct {
	FFmpegPath  string
	Quality     string // -q:a value
	Overwrite   bool
	DurationSec float64 // from the probe; enables percent progress

	Runner   util.CmdRunner
	Reporter progress.Reporter
	JobID    string
}

// Output describes the written audio file.
type Output struct {
	OutputPath string
	Bytes      int64
}

// Extract writes stream track of file.InputPath to file.OutputPath.
// On failure any partial output is removed.
func Extract(ctx context.Context, file model.VideoFile, track string, opts Options) (Output, error) {
	if opts.FFmpegPath == "" {
		return Output{}, errors.New("ffmpeg path is required")
	}
	if file.InputPath == "" || file.OutputPath == "" {
		return Output{}, errors.New("input and output paths are required")
	}
	if track == "" {
		return Output{}, errors.New("track is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	spec := util.CmdSpec{
		Path: opts.FFmpegPath,
		Args: BuildArgs(file.InputPath, track, file.OutputPath, opts.Quality, opts.Overwrite, opts.Reporter != nil),
	}
	if opts.Reporter != nil {
		var ps ProgressState
		spec.StdoutLine = func(line string) {
			if u, ok := ps.UpdateFromLine(line, opts.JobID, opts.DurationSec); ok {
				u.File = file.InputPath
				opts.Reporter.Update(u)
			}
		}
		spec.StderrLine = func(line string) {
			opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
		}
	}

	// With -n ffmpeg refuses to touch an existing file; only remove what
	// this run may have written.
	preexisting := util.FileExists(file.OutputPath)

	res, runErr := runner.Run(ctx, spec)
	if runErr != nil {
		if opts.Overwrite || !preexisting {
			_ = util.RemoveIfExists(file.OutputPath)
		}
		if tail := res.StderrTail(3); tail != "" {
			return Output{}, fmt.Errorf("%w\n%s", runErr, tail)
		}
		return Output{}, runErr
	}

	fi, err := os.Stat(file.OutputPath)
	if err != nil {
		return Output{}, fmt.Errorf("stat output: %w", err)
	}
	return Output{OutputPath: file.OutputPath, Bytes: fi.Size()}, nil
}
