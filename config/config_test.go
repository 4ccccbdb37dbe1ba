package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WORSHIPHUB_CONFIG", "")
	t.Setenv("SESSION_DIR", "/tmp/wh")

	cfg := Load()

	assert.Equal(t, "http://localhost:3333", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, "/tmp/wh", cfg.SessionDir)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.False(t, cfg.ReorderInvalidatesInfo)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WORSHIPHUB_CONFIG", "")
	t.Setenv("API_BASE_URL", "https://api.example.org")
	t.Setenv("API_TIMEOUT_SECONDS", "3")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_REORDER_INVALIDATES_INFO", "true")
	t.Setenv("REDIS_DB", "4")

	cfg := Load()

	assert.Equal(t, "https://api.example.org", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.True(t, cfg.ReorderInvalidatesInfo)
	assert.Equal(t, 4, cfg.RedisDB)
}

func TestLoad_YAMLFileFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worshiphub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: https://file.example.org
cache_backend: redis
minio_bucket: sheets
log_max_size: 50
`), 0644))

	t.Setenv("WORSHIPHUB_CONFIG", path)
	t.Setenv("CACHE_BACKEND", "memory")

	cfg := Load()

	assert.Equal(t, "https://file.example.org", cfg.APIBaseURL)
	assert.Equal(t, "memory", cfg.CacheBackend, "env must win over file")
	assert.Equal(t, "sheets", cfg.MinioBucket)
	assert.Equal(t, 50, cfg.LogMaxSize)
}
