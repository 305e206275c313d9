package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibot/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "INTELLIBOT_API_TOKEN", cfg.Backend.TokenEnv)
	assert.Equal(t, 60, cfg.Backend.TimeoutSecs)
	assert.Equal(t, 5, cfg.Chat.RetrievedChunks)
	assert.Equal(t, 5, cfg.Chat.HistoryTurns)
	require.NotNil(t, cfg.Chat.UseChatHistory)
	assert.True(t, *cfg.Chat.UseChatHistory)
	assert.False(t, cfg.Chat.Debug)
	assert.False(t, cfg.Chat.DarkMode)
	assert.Equal(t, cfg.Chat.Models[0], cfg.Chat.DefaultModel)
	assert.Contains(t, cfg.Chat.Topics, "All Topics")
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("backend:\n  base_url: https://example.test\nchat:\n  retrieved_chunks: 3\n  use_chat_history: false\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test", cfg.Backend.BaseURL)
	assert.Equal(t, 3, cfg.Chat.RetrievedChunks)
	assert.Equal(t, 5, cfg.Chat.HistoryTurns)
	require.NotNil(t, cfg.Chat.UseChatHistory)
	assert.False(t, *cfg.Chat.UseChatHistory, "explicit false must not be overridden")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Backend.BaseURL = "https://example.test"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Backend.BaseURL, loaded.Backend.BaseURL)
	assert.Equal(t, cfg.Chat.Models, loaded.Chat.Models)
}

func TestCredentials(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend.TokenEnv = "INTELLIBOT_TEST_TOKEN"

	t.Setenv("INTELLIBOT_TEST_TOKEN", "")
	_, err := cfg.Credentials()
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)

	t.Setenv("INTELLIBOT_TEST_TOKEN", "secret")
	token, err := cfg.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "secret", token)
}
