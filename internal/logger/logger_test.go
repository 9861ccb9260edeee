package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	var buf bytes.Buffer
	l := NewWithWriter("test", &buf)
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	l.Errorw("error", map[string]any{"k": 2})
	assert.Contains(t, buf.String(), "info test")
}

func TestZerologLoggerJSONCarriesComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	NewWithWriter("optimizer", &buf).Errorw("invariant violated", map[string]any{"hours": 24})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "optimizer", rec["component"])
	assert.Equal(t, "error", rec["level"])
	assert.EqualValues(t, 24, rec["hours"])
}

func TestLogLevelFiltersDebug(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "info")
	var buf bytes.Buffer
	l := NewWithWriter("x", &buf)
	l.Debugf("hidden")
	assert.Empty(t, buf.String())
}
