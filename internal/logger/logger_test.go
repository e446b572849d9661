package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFileOutput(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Setup(DefaultConfig()))
	})

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))

	log := WithComponent("storage")
	log.Debug().Str("collection", "invoices").Msg("Collection read from disk")
	log.Trace().Msg("below level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "storage", entry["component"])
	assert.Equal(t, "invoices", entry["collection"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "Collection read from disk", entry["message"])
}

func TestSetup_InvalidLevel(t *testing.T) {
	err := Setup(LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "stderr", cfg.Output)

	require.NoError(t, Setup(cfg))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
