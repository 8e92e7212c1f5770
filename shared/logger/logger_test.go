package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"innkeep/config"
	"innkeep/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("feed unreachable"))

	assert.Contains(t, buf.String(), "feed unreachable")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestConfigure_Level(t *testing.T) {
	original := log.Logger
	defer func() {
		log.Logger = original
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}()

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "warn", want: zerolog.WarnLevel},
		{level: "info", want: zerolog.InfoLevel},
		{level: "", want: zerolog.TraceLevel},
		{level: "loud", want: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.Env = "development"
			cfg.Server.LogLevel = tt.level

			logger.ConfigureTo(cfg, io.Discard)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestConfigure_JSONOutsideDevelopment(t *testing.T) {
	original := log.Logger
	defer func() {
		log.Logger = original
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}()

	var buf bytes.Buffer

	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.Server.LogLevel = "info"
	cfg.App.Name = "innkeep"

	logger.ConfigureTo(cfg, &buf)
	log.Info().Str("room", "101").Msg("task generated")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "innkeep", line["app"])
	assert.Equal(t, "101", line["room"])
	assert.Equal(t, "task generated", line["message"])
}
