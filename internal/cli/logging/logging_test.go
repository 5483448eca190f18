package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"run":`)
}

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "error"} {
		_, err := New(level, &bytes.Buffer{})
		assert.NoError(t, err, level)
	}

	_, err := New("loud", &bytes.Buffer{})
	assert.Error(t, err)
}
