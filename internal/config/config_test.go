package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"TYPEGEN_TARGET", "TYPEGEN_CACHE_MAX_ITEMS", "LOG_COMPRESS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "rust", cfg.Target)
	assert.Equal(t, DefaultCacheItems, cfg.CacheMaxItems)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TYPEGEN_TARGET", "go")
	t.Setenv("TYPEGEN_BATCH_WORKERS", "3")
	t.Setenv("TYPEGEN_MAX_BODY_BYTES", "not-a-number")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()
	assert.Equal(t, "go", cfg.Target)
	assert.Equal(t, 3, cfg.BatchWorkers)
	assert.Equal(t, DefaultMaxBodyBytes, cfg.MaxBodyBytes)
	assert.False(t, cfg.LogCompress)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TYPEGEN_HTTP_ADDR=:9999\nTYPEGEN_TARGET=kotlin\n"), 0o600))

	t.Setenv("TYPEGEN_TARGET", "typescript")
	t.Setenv("TYPEGEN_HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("TYPEGEN_HTTP_ADDR"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, ":9999", os.Getenv("TYPEGEN_HTTP_ADDR"))
	assert.Equal(t, "typescript", os.Getenv("TYPEGEN_TARGET"))
}

func TestGenerateOptions(t *testing.T) {
	cfg := &Config{Target: "kotlin", NumberPolicy: "float"}
	opts := cfg.GenerateOptions()
	assert.Equal(t, "kotlin", opts.Target)
	assert.Equal(t, "float", string(opts.NumberPolicy))
	assert.Nil(t, opts.TypeVisibility)
}
