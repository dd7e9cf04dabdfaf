package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env     string
		enabled slog.Level
		hidden  slog.Level
	}{
		{env: envLocal, enabled: slog.LevelDebug, hidden: slog.LevelDebug - 1},
		{env: envDev, enabled: slog.LevelInfo, hidden: slog.LevelDebug},
		{env: envProd, enabled: slog.LevelWarn, hidden: slog.LevelInfo},
		{env: "staging", enabled: slog.LevelError, hidden: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := newLogger(&buf, tt.env)

			assert.True(t, log.Enabled(context.Background(), tt.enabled))
			assert.False(t, log.Enabled(context.Background(), tt.hidden))
		})
	}
}

func TestNewLogger_ProductionDropsTime(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, envProd).Warn("route refresh slow", "shipment", "SHP-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, slog.TimeKey)
	assert.Equal(t, "SHP-1", record["shipment"])
}

func TestNewLogger_UnknownEnvWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, "staging")

	assert.Contains(t, buf.String(), "available_envs")
	assert.Contains(t, buf.String(), "staging")
}
