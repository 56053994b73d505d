package cmd

import (
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plan [folder]",
		Short:         "Probe every video and show the track that would be extracted",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{DryRunOnly: true})
		},
	}
	// Reuse same flags; plan never runs ffmpeg.
	bindRunFlags(cmd.Flags())
	for _, name := range []string{"overwrite", "quality", "no-ui"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			f.Hidden = true
		}
	}
	return cmd
}
