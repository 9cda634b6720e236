package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Log is the global logger instance.
var Log zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = newLogger(consoleWriter(os.Stdout), zerolog.InfoLevel)
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Configure replaces the global logger. Format "json" writes structured lines
// to stdout; anything else uses the colored console writer.
func Configure(levelStr, format string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if format != "json" {
		out = consoleWriter(os.Stdout)
	}

	zerolog.SetGlobalLevel(level)
	Log = newLogger(out, level)

	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
	}
}
