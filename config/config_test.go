package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("AGENT_PHONE", "")
	t.Setenv("CALL_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "data/voice_agent.db", cfg.DBPath)
	assert.Empty(t, cfg.AgentPhone)
	assert.Equal(t, 30*time.Minute, cfg.CallTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "8080")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("LLM_TIMEOUT", "5")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("AGENT_PHONE", "+49301234567")
	t.Setenv("CALL_TTL", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "+49301234567", cfg.AgentPhone)
	assert.Equal(t, 10*time.Minute, cfg.CallTTL)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}
