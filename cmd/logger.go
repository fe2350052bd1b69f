package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"
)

// cmdConfig holds all configuration for the command line
type cmdConfig struct {
	Format string `env:"LOG_FORMAT" env-default:"text" env-description:"Log output format (text or json)"`
	Level  string `env:"LOG_LEVEL" env-default:"info" env-description:"Log level (debug, info, warn, error)"`
}

// parseLevel maps LOG_LEVEL to a slog level, defaulting to info
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// createLogger creates a slog logger from the configuration
func createLogger(conf cmdConfig) *slog.Logger {
	var zerologLogger zerolog.Logger
	if conf.Format == "json" {
		zerologLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()
	}

	handler := slogzerolog.Option{
		Level:  parseLevel(conf.Level),
		Logger: &zerologLogger,
	}.NewZerologHandler()

	logger := slog.New(handler)

	// Set as default logger
	log.SetFlags(0)
	slog.SetDefault(logger)

	return logger
}

// loadLogger reads LOG_FORMAT and LOG_LEVEL and builds the logger, exiting
// when the environment is unreadable
func loadLogger() *slog.Logger {
	var cmdConf cmdConfig
	if err := cleanenv.ReadEnv(&cmdConf); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load command config: %v\n", err)
		os.Exit(1)
	}
	return createLogger(cmdConf)
}
