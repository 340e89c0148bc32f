package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 0.5, cfg.Classifier.Threshold)
	assert.Equal(t, int64(10<<20), cfg.Ingest.MaxUploadBytes)
	assert.Equal(t, 4, cfg.Ingest.NormalizeWorkers)
	assert.Equal(t, []string{"*"}, cfg.Auth.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CLASSIFIER_THRESHOLD", "0.8")
	t.Setenv("DB_NAME", "ledger")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Classifier.Threshold)
	assert.Equal(t, "postgres://postgres:@localhost:5432/ledger?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Auth.AllowedOrigins)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("CLASSIFIER_THRESHOLD", "1.5")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLASSIFIER_THRESHOLD")
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("NORMALIZE_WORKERS", "0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NORMALIZE_WORKERS")
}
