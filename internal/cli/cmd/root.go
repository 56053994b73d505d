package cmd

import (
	"context"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jpaudio/internal/extractor"
	"jpaudio/internal/scan"
	"jpaudio/internal/util/media"
)

const (
	ExitOK            = 0
	ExitCLIError      = 1
	ExitMissingDep    = 2
	ExitInputDir      = 3
	ExitExtractFailed = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jpaudio [folder]",
		Short: "Extract the Japanese audio track from every video in a folder",
		Long: "jpaudio probes each video file in a folder with ffprobe, picks the Japanese audio stream " +
			"and writes it next to the video as an audio file (MP3 by default) using ffmpeg.\n\n" +
			"A file with a single audio stream has that stream extracted whatever its language. " +
			"Files with several streams and none tagged jpn are skipped.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: loadSettings,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{})
		},
	}

	fs := root.PersistentFlags()
	fs.String("config", "", "Config file (default: config.{yaml,toml,json} in the user config dir)")
	fs.IntP("jobs", "j", 0, "Max concurrent files; 0 uses the number of CPUs ("+strconv.Itoa(runtime.NumCPU())+")")
	fs.BoolP("verbose", "v", false, "Show subprocess commands and output")
	fs.String("ffmpeg", "", "Path to ffmpeg")
	fs.String("ffprobe", "", "Path to ffprobe")
	fs.String("log-level", "warn", "Log level: trace, debug, info, warn, error")
	fs.String("log-format", "console", "Log format: console, json")

	// `jpaudio <folder>` behaves like `jpaudio run <folder>`.
	bindRunFlags(root.Flags())

	root.AddCommand(newRunCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.String("audio-ext", media.DefaultAudioExt, "Output audio extension; ffmpeg picks the codec from it")
	fs.StringSlice("video-ext", scan.DefaultVideoExts, "Video extensions to scan (repeatable)")
	fs.String("quality", extractor.DefaultQuality, "ffmpeg -q:a value (0 is best VBR quality)")
	fs.Bool("overwrite", false, "Replace existing audio files instead of skipping them")
	fs.Duration("timeout", 0, "Per-file timeout, e.g. 30m (0 disables)")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
