package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/jwebster45206/lost-in-space/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWithWriter(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithSessionID(log, "abc").Info("Session started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Session started", entry["msg"])
	assert.Equal(t, "abc", entry["session_id"])
}

func TestSetupWithWriter_DevelopmentIsText(t *testing.T) {
	var buf bytes.Buffer
	log := SetupWithWriter(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("dropped")
	WithError(log, errors.New("tank breach")).Warn("Oxygen leak")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "msg=\"Oxygen leak\"")
	assert.Contains(t, out, "error=\"tank breach\"")
}
