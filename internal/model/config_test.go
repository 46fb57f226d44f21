package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultChannelURL, cfg.ChannelURL)
	assert.Equal(t, 10, cfg.FeedCapacity)
	assert.Equal(t, 20, cfg.BellCapacity)
	assert.Equal(t, 300, cfg.ReportRefreshSec)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveAndLoadConfigRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := &AppConfig{
		APIBaseURL:       "http://cashier.local:8080/api",
		ChannelURL:       "ws://cashier.local:8080/ws",
		FeedCapacity:     5,
		BellCapacity:     30,
		ReportRefreshSec: 60,
		HistoryPath:      "/tmp/history.db",
		LogPath:          "/tmp/console.log",
		LogLevel:         "debug",
	}
	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: http://192.168.1.10:5000/api\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.1.10:5000/api", cfg.APIBaseURL)
	assert.Equal(t, DefaultChannelURL, cfg.ChannelURL)
	assert.Equal(t, 20, cfg.BellCapacity)
}

func TestLoadConfigBumpsBellCapacityToFeedCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed_capacity: 25\nbell_capacity: 8\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.FeedCapacity)
	assert.Equal(t, 25, cfg.BellCapacity)
}

func TestLoadConfigRejectsInvalidCapacities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feed_capacity: -1\nbell_capacity: 0\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.FeedCapacity)
	assert.Equal(t, 20, cfg.BellCapacity)
}

func TestSaveConfigCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, SaveConfig(path, cfg))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
