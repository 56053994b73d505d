// Package config resolves runtime options from flags, JPAUDIO_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jpaudio/internal/dirs"
	"jpaudio/internal/logging"
	"jpaudio/internal/model"
	"jpaudio/internal/scan"
	"jpaudio/internal/util/media"
)

// EnvPrefix is prepended to every environment key, e.g. JPAUDIO_JOBS.
const EnvPrefix = "JPAUDIO"

// Keys, as used in the config file. Flags use the same names with dashes.
const (
	KeyConfig    = "config"
	KeyJobs      = "jobs"
	KeyVerbose   = "verbose"
	KeyFFmpeg    = "ffmpeg"
	KeyFFprobe   = "ffprobe"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeyAudioExt  = "audio_ext"
	KeyVideoExt  = "video_ext"
	KeyQuality   = "quality"
	KeyOverwrite = "overwrite"
	KeyTimeout   = "timeout"
	KeyNoUI      = "no_ui"
)

// Load builds a viper instance bound to fs. The config file is
// config.{yaml,toml,json} in the user config dir, or the file named by
// --config. A missing default config file is not an error.
func Load(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyJobs, 0)
	v.SetDefault(KeyAudioExt, media.DefaultAudioExt)
	v.SetDefault(KeyVideoExt, scan.DefaultVideoExts)
	v.SetDefault(KeyQuality, "0")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if explicit := v.GetString(KeyConfig); explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", explicit, err)
		}
		return v, nil
	}

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Options converts the resolved settings into runtime options.
func Options(v *viper.Viper) (model.Options, error) {
	opts := model.Options{
		Jobs:        v.GetInt(KeyJobs),
		Verbose:     v.GetBool(KeyVerbose),
		FFmpeg:      strings.TrimSpace(v.GetString(KeyFFmpeg)),
		FFprobe:     strings.TrimSpace(v.GetString(KeyFFprobe)),
		AudioExt:    media.NormalizeExt(v.GetString(KeyAudioExt)),
		VideoExts:   splitExts(v.GetStringSlice(KeyVideoExt)),
		Quality:     strings.TrimSpace(v.GetString(KeyQuality)),
		Overwrite:   v.GetBool(KeyOverwrite),
		TaskTimeout: v.GetDuration(KeyTimeout),
		NoUI:        v.GetBool(KeyNoUI),
	}
	if opts.Jobs < 0 {
		return model.Options{}, fmt.Errorf("invalid --jobs: %d (must be >= 0)", opts.Jobs)
	}
	if opts.TaskTimeout < 0 {
		return model.Options{}, fmt.Errorf("invalid --timeout: %s (must be >= 0)", opts.TaskTimeout)
	}
	if opts.AudioExt == "" {
		return model.Options{}, errors.New("invalid --audio-ext: must not be empty")
	}
	if opts.Quality == "" {
		return model.Options{}, errors.New("invalid --quality: must not be empty")
	}
	if lo.Contains(opts.VideoExts, opts.AudioExt) {
		return model.Options{}, fmt.Errorf("invalid --audio-ext: %s is also a video extension", opts.AudioExt)
	}
	return opts, nil
}

// Logging returns the logger settings.
func Logging(v *viper.Viper) logging.Options {
	return logging.Options{
		Level:   v.GetString(KeyLogLevel),
		Format:  v.GetString(KeyLogFormat),
		Verbose: v.GetBool(KeyVerbose),
	}
}

// splitExts accepts list values as well as comma separated strings, which is
// how environment variables carry them.
func splitExts(raw []string) []string {
	parts := lo.FlatMap(raw, func(s string, _ int) []string {
		return strings.Split(s, ",")
	})
	exts := lo.Uniq(lo.Compact(lo.Map(parts, func(s string, _ int) string {
		return media.NormalizeExt(s)
	})))
	if len(exts) == 0 {
		return append([]string(nil), scan.DefaultVideoExts...)
	}
	return exts
}
