package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jpaudio/internal/dirs"
	"jpaudio/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ffprobe, ffmpeg)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := settingsFrom(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var missing error
			for _, s := range deps.Check(st.Options.FFprobe, st.Options.FFmpeg) {
				if !s.Available {
					fmt.Fprintf(out, "%-8s missing (%v)\n", s.Name+":", s.Err)
					if missing == nil {
						missing = s.Err
					}
					continue
				}
				fmt.Fprintf(out, "%-8s %s\n", s.Name+":", s.Path)
			}
			if cfg, err := dirs.ConfigDir(); err == nil {
				fmt.Fprintf(out, "%-8s %s\n", "config:", cfg)
			}
			if missing != nil {
				return &ExitError{Code: ExitMissingDep, Err: missing}
			}
			return nil
		},
	}
}
