package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SYLLABUS_DB", "")
	t.Setenv("SYLLABUS_ADDR", "")
	t.Setenv("SYLLABUS_LOG_LEVEL", "")
	t.Setenv("SYLLABUS_LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.DBPath)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SYLLABUS_DB", "/tmp/s.db")
	t.Setenv("SYLLABUS_ADDR", "127.0.0.1:9000")
	t.Setenv("SYLLABUS_LOG_FORMAT", "json")
	t.Setenv("NO_COLOR", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.NoColor)
}

func TestLoad_LeavesFormatToLogger(t *testing.T) {
	t.Setenv("SYLLABUS_LOG_FORMAT", "xml")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "xml", cfg.LogFormat)
}

func TestLoad_RejectsMalformedBool(t *testing.T) {
	t.Setenv("NO_COLOR", "maybe")
	_, err := Load()
	assert.Error(t, err)
}
