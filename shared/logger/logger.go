package logger

import (
	"io"
	"os"
	"time"

	"innkeep/config"
	"innkeep/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.TraceLevel

// InitLogger installs a console logger so configuration loading can already log.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(defaultLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the configured level. Outside development the output switches to JSON lines
// tagged with the application name.
func Configure(cfg *config.Config) {
	configure(cfg, os.Stdout)
}

func configure(cfg *config.Config, out io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Server.Env != constant.ServerEnvDevelopment {
		ctx := zerolog.New(out).With().Timestamp()
		if cfg.App.Name != "" {
			ctx = ctx.Str("app", cfg.App.Name)
		}

		log.Logger = ctx.Logger()
	}

	log.Trace().Str("loglevel", level.String()).Str("env", cfg.Server.Env).Msg("Logger configured")
}

// ErrorWithStack logs err with the call stack attached, for store and transport failures.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
