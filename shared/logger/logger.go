package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hostel/config"
	"hostel/shared/constant"
)

// InitLogger installs a console logger at trace level. It runs before the
// configuration is loaded, Configure refines it afterwards.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// Configure applies the configured level. Outside development the output
// switches to JSON lines tagged with the application name.
func Configure(cfg *config.Config) {
	configure(cfg, os.Stdout)
}

func configure(cfg *config.Config, out io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Server.Env != "" && cfg.Server.Env != constant.ServerEnvDevelopment {
		zerolog.TimeFieldFormat = time.RFC3339

		ctx := zerolog.New(out).With().Timestamp()
		if cfg.App.Name != "" {
			ctx = ctx.Str("app", cfg.App.Name)
		}

		log.Logger = ctx.Logger()
	}

	log.Trace().Str("loglevel", level.String()).Str("env", cfg.Server.Env).Msg("Logger configured.")
}
