package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "port: 8080\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.MongoURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "studykit", cfg.Mongo.DatabaseName())
	assert.Equal(t, 2, cfg.AI.RetryMax)
	assert.Equal(t, 1500, cfg.AI.RetryBackoffMS)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
port: 2333
env: production
mongo:
  host: db.internal
  port: 27018
  name: studykit_prod
redis:
  url: redis://cache.internal:6380/1
jwt_secret: super-secret
allowed_origins:
  - "*.example.com"
ai:
  retry_max: 4
  retry_backoff_ms: 500
  providers:
    - id: main
      type: Anthropic
      api_key: sk-test
      enabled: true
  transform_model:
    provider_id: main
    model: claude-haiku-4-5-20251001
`))
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "mongodb://db.internal:27018", cfg.MongoURL)
	assert.Equal(t, "studykit_prod", cfg.Mongo.DatabaseName())
	assert.Equal(t, "redis://cache.internal:6380/1", cfg.RedisURL)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, []string{"*.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 4, cfg.AI.RetryMax)
	assert.Equal(t, 500, cfg.AI.RetryBackoffMS)
	require.NotNil(t, cfg.AI.TransformModel)
	assert.Equal(t, "main", cfg.AI.TransformModel.ProviderID)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	_, err := Load(writeConfig(t, "port: 99999\n"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "prot: 8080\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestSelectProvider(t *testing.T) {
	cfg := AIConfig{Providers: []AIProvider{
		{ID: "disabled", Enabled: false, DefaultModel: "m0"},
		{ID: "first", Enabled: true, DefaultModel: "m1"},
		{ID: "second", Enabled: true, DefaultModel: "m2"},
	}}

	p := cfg.SelectProvider(nil)
	require.NotNil(t, p)
	assert.Equal(t, "first", p.ID)

	p = cfg.SelectProvider(&AIModelAssignment{ProviderID: "second", Model: "override"})
	require.NotNil(t, p)
	assert.Equal(t, "second", p.ID)
	assert.Equal(t, "override", p.DefaultModel)

	p = cfg.SelectProvider(&AIModelAssignment{ProviderID: "disabled"})
	require.NotNil(t, p)
	assert.Equal(t, "first", p.ID)

	assert.Nil(t, AIConfig{}.SelectProvider(nil))
}
