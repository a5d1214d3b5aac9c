package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	content := `{
		"address": ":9000",
		"database_dsn": "postgres://u:p@db:5432/app",
		"secret_key": "json-secret",
		"token_validity": "36h",
		"s3_bucket": "artwork",
		"sentry_dsn": "https://key@sentry.local/1"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.DatabaseDSN)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 36*time.Hour, cfg.TokenValidity)
	assert.Equal(t, "artwork", cfg.S3Bucket)
	assert.Equal(t, "https://key@sentry.local/1", cfg.SentryDSN)
}

func TestParseJson_NoFileFlagKeepsDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8080", cfg.Addr)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmd", "-c", "does-not-exist.json"}

	cfg := &Config{}
	require.Panics(t, func() { parseJson(cfg) })
}
