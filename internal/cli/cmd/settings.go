package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jpaudio/internal/config"
	"jpaudio/internal/logging"
	"jpaudio/internal/model"
)

type ctxKey string

const settingsKey ctxKey = "settings"

type settings struct {
	Options model.Options
	Log     zerolog.Logger
}

// loadSettings resolves options and the logger once per invocation and
// stores them on the command context.
func loadSettings(cmd *cobra.Command, _ []string) error {
	v, err := config.Load(cmd.Flags())
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	opts, err := config.Options(v)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	logOpts := config.Logging(v)
	logOpts.Out = cmd.ErrOrStderr()
	log, err := logging.New(logOpts)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	if path := v.ConfigFileUsed(); path != "" {
		log.Debug().Str("path", path).Msg("config file loaded")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, settingsKey, settings{Options: opts, Log: log}))
	return nil
}

func settingsFrom(cmd *cobra.Command) (settings, error) {
	if s, ok := cmd.Context().Value(settingsKey).(settings); ok {
		return s, nil
	}
	if err := loadSettings(cmd, nil); err != nil {
		return settings{}, err
	}
	return cmd.Context().Value(settingsKey).(settings), nil
}
