package logger

import (
	"os"
	"path/filepath"
	"testing"

	"futures-review/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name        string
		level       string
		format      string
		expectError bool
	}{
		{name: "Console debug", level: "debug", format: "console"},
		{name: "JSON info", level: "info", format: "json"},
		{name: "Unknown level", level: "loud", format: "json", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := NewLogger(tc.level, tc.format)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "journal.log")

	log, err := New(config.Logger{
		Level:      "info",
		Format:     "json",
		File:       file,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	require.NoError(t, err)

	log.Info("Trade recorded")
	log.Debug("below level")
	_ = log.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Trade recorded")
	assert.NotContains(t, string(data), "below level")
}
