// Package probe runs ffprobe against a video file and returns its
// human-readable stream report.
package probe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"jpaudio/internal/model"
	"jpaudio/internal/selector"
	"jpaudio/internal/util"
)

// Options control ffprobe execution.
type Options struct {
	FFprobePath string
	Runner      util.CmdRunner
	StderrLine  func(string)
}

// Report is the probe output for one file.
type Report struct {
	Text        string // ffprobe's stderr, where it writes the stream listing
	Streams     []model.StreamDescriptor
	DurationSec float64 // 0 when ffprobe printed no duration
}

// Run probes path. ffprobe writes the stream listing to stderr, so that is
// the stream captured. A non-zero exit is an error that carries the tail of
// stderr.
func Run(ctx context.Context, path string, opts Options) (Report, error) {
	if opts.FFprobePath == "" {
		return Report{}, errors.New("ffprobe path is required")
	}
	if path == "" {
		return Report{}, errors.New("input path is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	res, err := runner.Run(ctx, util.CmdSpec{
		Path:       opts.FFprobePath,
		Args:       BuildArgs(path),
		StderrLine: opts.StderrLine,
	})
	if err != nil {
		if tail := res.StderrTail(3); tail != "" {
			return Report{}, fmt.Errorf("%w\n%s", err, tail)
		}
		return Report{}, err
	}

	text := string(res.Stderr)
	return Report{
		Text:        text,
		Streams:     selector.ParseAudioStreams(text),
		DurationSec: ParseDuration(text),
	}, nil
}

// BuildArgs returns the ffprobe arguments for path. The file is the only
// positional argument.
func BuildArgs(path string) []string {
	return []string{"-hide_banner", path}
}

var durationRE = regexp.MustCompile(`Duration: (\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// ParseDuration extracts the container duration in seconds from a probe
// report such as "Duration: 00:23:02.17, start: 0.000000". Returns 0 when
// absent or "N/A".
func ParseDuration(text string) float64 {
	m := durationRE.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs, err := strconv.ParseFloat(strings.TrimSpace(m[3]), 64)
	if err != nil {
		return 0
	}
	return float64(h*3600+mins*60) + secs
}
