package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	return SetLevel(zerolog.DebugLevel)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(level)
}

// FromString returns a logger at the named level; unknown names fall back to info
func FromString(level string) zerolog.Logger {
	return SetLevel(parseLevel(level))
}

// ApplyLevel sets the process-wide minimum level by name and returns it; unknown names fall back to info
func ApplyLevel(level string) zerolog.Level {
	parsed := parseLevel(level)
	zerolog.SetGlobalLevel(parsed)
	return parsed
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
