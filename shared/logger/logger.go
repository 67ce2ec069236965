package logger

import (
	"os"
	"time"

	"vrent/config"
	"vrent/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

// InitJSONLogger switches to structured JSON output, used outside development.
func InitJSONLogger(service string) {
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", service).Logger()
}

// Init picks the output format for the configured environment and applies the log level.
func Init(cfg *config.Config) {
	if cfg.Server.Env == constant.ServerEnvProduction {
		InitJSONLogger(cfg.App.Name)
	} else {
		InitLogger()
	}

	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
