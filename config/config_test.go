package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("SCRAPE_CHUNK_SIZE", "")
	t.Setenv("ROSTER_CSV_PATH", "")
	t.Setenv("REDIS_ENABLED", "")
	t.Setenv("REDIS_SNAPSHOT_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 380, cfg.Scrape.ChunkSize)
	assert.Equal(t, "roster.csv", cfg.Roster.CSVPath)
	assert.False(t, cfg.Redis.Enabled, "Redis stays off unless asked for")
	assert.Equal(t, 24*time.Hour, cfg.Redis.SnapshotTTL)
}

func TestValidate_ProductionRequiresDatabaseURL(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"log format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"chunk size", "SCRAPE_CHUNK_SIZE", "-1", "SCRAPE_CHUNK_SIZE"},
		{"page limit", "SCRAPE_PAGE_LIMIT", "0", "SCRAPE_PAGE_LIMIT"},
		{"request rate", "HTTP_REQUESTS_PER_SECOND", "-2", "HTTP_REQUESTS_PER_SECOND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "development")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	t.Setenv("X_INT", "42")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_FLOAT", "2.5")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_LIST", "alpha, beta, ,gamma")

	assert.Equal(t, "value", getEnv("X_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("X_UNSET", "fallback"))
	assert.Equal(t, 42, getEnvInt("X_INT", 1))
	assert.Equal(t, 1, getEnvInt("X_STR", 1), "non-numeric values fall back")
	assert.True(t, getEnvBool("X_BOOL", false))
	assert.Equal(t, 2.5, getEnvFloat("X_FLOAT", 1))
	assert.Equal(t, 90*time.Second, getEnvDuration("X_DUR", time.Second))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, getEnvStringSlice("X_LIST", nil))
	assert.Nil(t, getEnvStringSlice("X_UNSET", nil))
}
