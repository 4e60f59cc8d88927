package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	log.WithField("base", "USD").Debug("lookup")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lookup", entry["msg"])
	assert.Equal(t, "USD", entry["base"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	log := New("verbose", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_LevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "text", &buf)

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
