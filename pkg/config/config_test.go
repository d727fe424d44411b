package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.False(t, cfg.Channels.QQ.Enabled)
	assert.Equal(t, 5, cfg.Channels.QQ.TimeoutSeconds)
	assert.Equal(t, 20, cfg.Channels.QQ.ReactionPageSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"channels": {"qq": {"enabled": true, "app_id": "1", "app_secret": "s", "allow_from": [123, "456"]}},
		"log": {"level": "debug"}
	}`), 0o600))

	t.Setenv("QQEVENTS_CHANNELS_QQ_APP_ID", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Channels.QQ.Enabled)
	assert.Equal(t, "from-env", cfg.Channels.QQ.AppID)
	assert.Equal(t, "s", cfg.Channels.QQ.AppSecret)
	assert.Equal(t, FlexibleStringSlice{"123", "456"}, cfg.Channels.QQ.AllowFrom)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 1024, cfg.Channels.QQ.DedupSize)
}

func TestLoadConfig_EnabledWithoutCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"channels": {"qq": {"enabled": true}}}`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app_id")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFlexibleStringSlice(t *testing.T) {
	var f FlexibleStringSlice
	require.NoError(t, json.Unmarshal([]byte(`[1, "two", true]`), &f))
	assert.Equal(t, FlexibleStringSlice{"1", "two", "true"}, f)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Channels.QQ.AppID = "42"

	require.NoError(t, SaveConfig(path, cfg))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "42", loaded.Channels.QQ.AppID)
}
