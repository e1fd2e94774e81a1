package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", "symbol", "AAPL")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "AAPL", line["symbol"])
	assert.Equal(t, "WARN", line["level"])
}

func TestNew_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New(Config{Level: "DEBUG", Format: "TEXT"}, &buf)
	require.NoError(t, err)

	l.Debug("hello", "n", 1)
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "n=1")
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Level: "loud", Format: "json"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "LOG_LEVEL")

	_, err = New(Config{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "LOG_FORMAT")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "text")

	cfg := LoadConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
}
