package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/dayledger/internal/logger"
)

func TestConfigure(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "Debug", level: "debug", want: zerolog.DebugLevel},
		{name: "Warn", level: "warn", want: zerolog.WarnLevel},
		{name: "Empty", level: "", want: zerolog.InfoLevel},
		{name: "Unknown", level: "loud", want: zerolog.InfoLevel},
	}

	t.Cleanup(func() { logger.Configure("info", "console") })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger.Configure(tt.level, "json")

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
			assert.Equal(t, tt.want, logger.Log.GetLevel())
		})
	}
}
