package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "jarvis_data.json", cfg.Knowledge.Source)
	assert.Equal(t, 30*time.Second, cfg.Knowledge.LoadTimeout)
	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, NewsStatic, cfg.News.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(0), cfg.Random.Seed)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
knowledge:
  source: https://example.com/jarvis.yaml
  load_timeout: 5s
http:
  addr: 127.0.0.1:9090
random:
  seed: 42
log:
  level: debug
  development: true
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/jarvis.yaml", cfg.Knowledge.Source)
	assert.Equal(t, 5*time.Second, cfg.Knowledge.LoadTimeout)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, int64(42), cfg.Random.Seed)
	assert.True(t, cfg.Log.Development)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://jarvis:pw@localhost/jarvis?sslmode=disable")
	t.Setenv("NEWS_PROVIDER", "openai")
	t.Setenv("HTTP_ADDR", ":7000")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "tg-token", cfg.Telegram.Token)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "postgres", cfg.Knowledge.Driver)
	assert.Equal(t, "postgres://jarvis:pw@localhost/jarvis?sslmode=disable", cfg.Knowledge.DSN)
	assert.Equal(t, NewsOpenAI, cfg.News.Provider)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("knowledge: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"static news", Config{Knowledge: KnowledgeConfig{Source: "kb.json"}, News: NewsConfig{Provider: NewsStatic}}, false},
		{"unknown news", Config{Knowledge: KnowledgeConfig{Source: "kb.json"}, News: NewsConfig{Provider: "rss"}}, true},
		{"openai without key", Config{Knowledge: KnowledgeConfig{Source: "kb.json"}, News: NewsConfig{Provider: NewsOpenAI}}, true},
		{"no knowledge", Config{News: NewsConfig{Provider: NewsStatic}}, true},
		{"driver without dsn", Config{Knowledge: KnowledgeConfig{Driver: "sqlite"}, News: NewsConfig{Provider: NewsStatic}}, true},
		{"sqlite", Config{Knowledge: KnowledgeConfig{Driver: "sqlite", DSN: "kb.db"}, News: NewsConfig{Provider: NewsStatic}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
