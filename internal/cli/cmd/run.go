package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jpaudio/internal/model"
	"jpaudio/internal/pipeline"
	"jpaudio/internal/progress"
	"jpaudio/internal/report"
	"jpaudio/internal/scan"
	"jpaudio/internal/ui"
	"jpaudio/internal/util/deps"
)

type runMode struct {
	ForceTUI   bool
	DryRunOnly bool
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run [folder]",
		Short:         "Extract Japanese audio from every video in a folder",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{})
		},
	}
	bindRunFlags(cmd.Flags())
	return cmd
}

// tools are the resolved external binaries.
type tools struct {
	ffprobe string
	ffmpeg  string
}

func resolveTools(opts model.Options) (tools, error) {
	probe, err := deps.FindFFprobe(opts.FFprobe)
	if err != nil {
		return tools{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	if opts.DryRun {
		return tools{ffprobe: probe}, nil
	}
	ff, err := deps.FindFFmpeg(opts.FFmpeg)
	if err != nil {
		return tools{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	return tools{ffprobe: probe, ffmpeg: ff}, nil
}

func folderArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

func runExecute(cmd *cobra.Command, args []string, mode runMode) error {
	st, err := settingsFrom(cmd)
	if err != nil {
		return err
	}
	opts := st.Options
	if mode.DryRunOnly {
		opts.DryRun = true
		opts.NoUI = true
	}
	dir := folderArg(args)

	tl, err := resolveTools(opts)
	if err != nil {
		return err
	}
	st.Log.Debug().Str("ffprobe", tl.ffprobe).Str("ffmpeg", tl.ffmpeg).Msg("tools resolved")

	newService := func(rep progress.Reporter) *pipeline.Service {
		return pipeline.NewService(
			pipeline.WithFFprobePath(tl.ffprobe),
			pipeline.WithFFmpegPath(tl.ffmpeg),
			pipeline.WithOptions(opts),
			pipeline.WithReporter(rep),
			pipeline.WithLogger(st.Log),
		)
	}

	out := cmd.OutOrStdout()
	var sum model.Summary
	useTUI := mode.ForceTUI || (!opts.NoUI && isTerminal(out))
	if useTUI {
		sum, err = runTUI(cmd.Context(), dir, newService)
	} else {
		sum, err = pipeline.NewBatch(newService(report.NewText(out, opts.Verbose))).Run(cmd.Context(), dir)
	}
	if err != nil {
		return classify(err)
	}

	if opts.DryRun {
		if table := report.SummaryTable(sum.Results); table != "" {
			fmt.Fprintln(out, table)
		}
	} else if useTUI && sum.Failed() > 0 {
		fmt.Fprintln(out, report.SummaryTable(sum.Results))
	}
	report.PrintSummary(out, sum)

	if ctxErr := cmd.Context().Err(); ctxErr != nil {
		return &ExitError{Code: ExitExtractFailed, Err: fmt.Errorf("interrupted: %w", ctxErr)}
	}
	if n := sum.Failed(); n > 0 {
		return &ExitError{Code: ExitExtractFailed, Err: fmt.Errorf("%d file(s) failed", n)}
	}
	return nil
}

// runTUI scans first so that a bad folder fails before the screen is taken
// over, then drives the batch from the bubbletea program.
func runTUI(ctx context.Context, dir string, newService func(progress.Reporter) *pipeline.Service) (model.Summary, error) {
	start := time.Now()
	sc, err := pipeline.NewBatch(newService(nil)).Scan(dir)
	if err != nil {
		return model.Summary{Dir: dir}, err
	}
	results, err := ui.Run(ctx, dir, sc, func(ctx context.Context, rep progress.Reporter) []model.FileResult {
		return pipeline.NewBatch(newService(rep)).RunScanned(ctx, sc)
	})
	if err != nil {
		return model.Summary{Dir: dir}, err
	}
	return model.Summary{Dir: dir, Results: results, Elapsed: time.Since(start)}, nil
}

func classify(err error) error {
	var ee *ExitError
	switch {
	case errors.As(err, &ee):
		return ee
	case errors.Is(err, scan.ErrDirectory):
		return &ExitError{Code: ExitInputDir, Err: err}
	case errors.Is(err, ui.ErrInterrupted), errors.Is(err, tea.ErrProgramKilled):
		return &ExitError{Code: ExitExtractFailed, Err: err}
	default:
		return &ExitError{Code: ExitCLIError, Err: err}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
