package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
ai_provider: gemini
ai_temperature: 0.4
jwt_access_expiry: 30m
cors_origins:
  - https://app.example.com
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("REPLY_MIN_LENGTH", "20")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "ollama", cfg.AIProvider, "env wins over file")
	assert.InDelta(t, 0.4, cfg.AITemperature, 0.0001)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 20, cfg.ReplyMinLength)
	assert.Equal(t, 1000, cfg.AIMaxTokens, "untouched keys keep defaults")
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("AI_MAX_TOKENS", "lots")
	t.Setenv("JWT_REFRESH_EXPIRY", "a week")

	cfg := Load()

	assert.Equal(t, 1000, cfg.AIMaxTokens)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
}

func TestPostgresDSN(t *testing.T) {
	cfg := Default()
	cfg.DBPassword = "secret"
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=mailreply sslmode=disable", cfg.PostgresDSN())

	cfg.DBURL = "postgres://u:p@db:5432/app"
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.PostgresDSN())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}
