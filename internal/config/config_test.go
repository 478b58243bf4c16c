package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "govtrack", cfg.MongoDB)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.UsingDefaultSecret())
	assert.False(t, cfg.Alignment.SkipInsufficient)
	assert.True(t, cfg.Alignment.Categories)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("ALIGN_SKIP_INSUFFICIENT", "true")
	t.Setenv("ALIGN_CATEGORIES", "false")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.UsingDefaultSecret())
	assert.True(t, cfg.Alignment.SkipInsufficient)
	assert.False(t, cfg.Alignment.Categories)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DB=fromfile\nLOG_FORMAT=console\n"), 0o644))
	t.Setenv("MONGO_DB", "")
	t.Setenv("LOG_FORMAT", "")
	// godotenv does not override variables that are already set, so clear them
	os.Unsetenv("MONGO_DB")
	os.Unsetenv("LOG_FORMAT")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.MongoDB)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"bad duration": {"JWT_TTL", "forever"},
		"bad bool":     {"ALIGN_CATEGORIES", "maybe"},
		"bad format":   {"LOG_FORMAT", "xml"},
		"zero ttl":     {"JWT_TTL", "0s"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}
