// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/pkg/errutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inkpost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func validConfig() config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = "postgres://localhost/inkpost"
	cfg.Auth.SigningSecret = "s3cret"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, config.StoragePostgres, cfg.Storage)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, "inkpost", cfg.Auth.Issuer)
	assert.True(t, cfg.Auth.AllowUnverifiedReset)
	assert.Equal(t, auth.DefaultArgon2Params, cfg.Auth.Argon2.Params())
	assert.Empty(t, cfg.Auth.SigningSecret)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
http_addr: "127.0.0.1:9000"
storage: memory
auth:
  signing_secret: from-file
  token_lifetime: 30m
  allow_unverified_reset: false
  argon2:
    memory: 1024
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, "from-file", cfg.Auth.SigningSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenLifetime)
	assert.False(t, cfg.Auth.AllowUnverifiedReset)
	assert.Equal(t, uint32(1024), cfg.Auth.Argon2.Memory)
	assert.Equal(t, auth.DefaultArgon2Params.Iterations, cfg.Auth.Argon2.Iterations, "unset keys keep defaults")
}

func TestLoad_FileErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "unknown key", body: "htp_addr: x\n", wantCode: "CONFIG_SCHEMA_VIOLATION"},
		{name: "wrong type", body: "auth:\n  hash_concurrency: lots\n", wantCode: "CONFIG_SCHEMA_VIOLATION"},
		{name: "bad enum", body: "storage: sqlite\n", wantCode: "CONFIG_SCHEMA_VIOLATION"},
		{name: "not yaml", body: "storage: [\n", wantCode: "CONFIG_INVALID_YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			_, err := config.Load(path, nil)
			errutil.AssertErrorCode(t, err, tt.wantCode)
			errutil.AssertErrorContext(t, err, "path", path)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "auth:\n  signing_secret: from-file\n")
	t.Setenv("INKPOST_AUTH__SIGNING_SECRET", "from-env")
	t.Setenv("INKPOST_AUTH__ALLOW_UNVERIFIED_RESET", "false")
	t.Setenv("INKPOST_AUTH__HASH_CONCURRENCY", "3")
	t.Setenv("INKPOST_STORAGE", "memory")

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.SigningSecret)
	assert.False(t, cfg.Auth.AllowUnverifiedReset)
	assert.Equal(t, 3, cfg.Auth.HashConcurrency)
	assert.Equal(t, config.StorageMemory, cfg.Storage)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("INKPOST_HTTP_ADDR", "127.0.0.1:1111")
	t.Setenv("INKPOST_LOG_FORMAT", "text")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	fs.Bool("migrate", false, "not a config key")
	require.NoError(t, fs.Parse([]string{"--http-addr", "127.0.0.1:2222", "--token-lifetime", "15m", "--migrate"}))

	cfg, err := config.Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:2222", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenLifetime)
	assert.Equal(t, "text", cfg.LogFormat, "unchanged flags do not override env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{name: "missing secret", mutate: func(c *config.Config) { c.Auth.SigningSecret = "" }, wantKey: "auth.signing_secret"},
		{name: "zero lifetime", mutate: func(c *config.Config) { c.Auth.TokenLifetime = 0 }, wantKey: "auth.token_lifetime"},
		{name: "negative lifetime", mutate: func(c *config.Config) { c.Auth.TokenLifetime = -time.Minute }, wantKey: "auth.token_lifetime"},
		{name: "unknown storage", mutate: func(c *config.Config) { c.Storage = "sqlite" }, wantKey: "storage"},
		{name: "postgres without url", mutate: func(c *config.Config) { c.DatabaseURL = "" }, wantKey: "database_url"},
		{name: "bad log format", mutate: func(c *config.Config) { c.LogFormat = "xml" }, wantKey: "log_format"},
		{name: "bad log level", mutate: func(c *config.Config) { c.LogLevel = "loud" }, wantKey: "log_level"},
		{name: "missing http addr", mutate: func(c *config.Config) { c.HTTPAddr = "" }, wantKey: "http_addr"},
		{name: "negative concurrency", mutate: func(c *config.Config) { c.Auth.HashConcurrency = -1 }, wantKey: "auth.hash_concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, "key", tt.wantKey)
		})
	}
}

func TestValidate_MemoryStorageNeedsNoURL(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = config.StorageMemory
	cfg.DatabaseURL = ""
	assert.NoError(t, cfg.Validate())
}
