// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package config loads inkpost configuration from compiled defaults, an
// optional YAML file, INKPOST_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/logging"
)

// EnvPrefix prefixes every environment variable read by Load. Nested keys
// use a double underscore, e.g. INKPOST_AUTH__SIGNING_SECRET.
const EnvPrefix = "INKPOST_"

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the complete process configuration.
type Config struct {
	HTTPAddr    string     `koanf:"http_addr" jsonschema:"description=API listen address (host:port)"`
	MetricsAddr string     `koanf:"metrics_addr" jsonschema:"description=Metrics and health listen address; empty disables it"`
	Storage     string     `koanf:"storage" jsonschema:"enum=postgres,enum=memory"`
	DatabaseURL string     `koanf:"database_url" jsonschema:"description=PostgreSQL connection URL"`
	LogFormat   string     `koanf:"log_format" jsonschema:"enum=json,enum=text"`
	LogLevel    string     `koanf:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Auth        AuthConfig `koanf:"auth"`
}

// AuthConfig configures credentials and session tokens.
type AuthConfig struct {
	SigningSecret        string        `koanf:"signing_secret" jsonschema:"description=HMAC secret for session tokens"`
	TokenLifetime        time.Duration `koanf:"token_lifetime" jsonschema:"anyof_type=string;integer"`
	Issuer               string        `koanf:"issuer"`
	AllowUnverifiedReset bool          `koanf:"allow_unverified_reset" jsonschema:"description=Allow password reset with only the account email"`
	HashConcurrency      int           `koanf:"hash_concurrency" jsonschema:"minimum=0,description=Concurrent hash operations; 0 uses GOMAXPROCS"`
	Argon2               Argon2Config  `koanf:"argon2"`
}

// Argon2Config are the argon2id work factors for new hashes.
type Argon2Config struct {
	Memory      uint32 `koanf:"memory" jsonschema:"minimum=1,description=Memory in KiB"`
	Iterations  uint32 `koanf:"iterations" jsonschema:"minimum=1"`
	Parallelism uint8  `koanf:"parallelism" jsonschema:"minimum=1"`
}

// Params converts c to hasher parameters.
func (c Argon2Config) Params() auth.Argon2Params {
	return auth.Argon2Params{
		Memory:      c.Memory,
		Iterations:  c.Iterations,
		Parallelism: c.Parallelism,
	}
}

// Default returns the compiled defaults.
func Default() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9100",
		Storage:     StoragePostgres,
		LogFormat:   "json",
		LogLevel:    "info",
		Auth: AuthConfig{
			TokenLifetime:        auth.DefaultTokenLifetime,
			Issuer:               auth.DefaultIssuer,
			AllowUnverifiedReset: true,
			Argon2: Argon2Config{
				Memory:      auth.DefaultArgon2Params.Memory,
				Iterations:  auth.DefaultArgon2Params.Iterations,
				Parallelism: auth.DefaultArgon2Params.Parallelism,
			},
		},
	}
}

// flagKeys maps command-line flag names to configuration keys. Flags not
// listed here are not configuration.
var flagKeys = map[string]string{
	"http-addr":      "http_addr",
	"metrics-addr":   "metrics_addr",
	"storage":        "storage",
	"database-url":   "database_url",
	"log-format":     "log_format",
	"log-level":      "log_level",
	"token-lifetime": "auth.token_lifetime",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("http-addr", d.HTTPAddr, "API listen address")
	fs.String("metrics-addr", d.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("storage", d.Storage, "storage backend (postgres or memory)")
	fs.String("database-url", d.DatabaseURL, "PostgreSQL connection URL")
	fs.String("log-format", d.LogFormat, "log format (json or text)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn or error)")
	fs.Duration("token-lifetime", d.Auth.TokenLifetime, "session token lifetime")
}

// Load builds a Config. path may be empty; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
		if err := ValidateYAML(data); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, flagKey(fs)), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return &cfg, nil
}

// envKey turns INKPOST_AUTH__SIGNING_SECRET into auth.signing_secret.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func flagKey(fs *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}
}

// Validate reports the first configuration problem that would stop the
// service from starting.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return oops.Code("CONFIG_INVALID").With("key", "http_addr").Errorf("http_addr is required")
	}
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return oops.Code("CONFIG_INVALID").With("key", "database_url").
				Errorf("database_url is required when storage is %q", StoragePostgres)
		}
	case StorageMemory:
	default:
		return oops.Code("CONFIG_INVALID").With("key", "storage").
			Errorf("storage must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").With("key", "log_format").
			Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "log_level").
			Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Auth.SigningSecret == "" {
		return oops.Code("CONFIG_INVALID").With("key", "auth.signing_secret").
			Errorf("auth.signing_secret is required")
	}
	if c.Auth.TokenLifetime <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "auth.token_lifetime").
			Errorf("auth.token_lifetime must be positive, got %s", c.Auth.TokenLifetime)
	}
	if c.Auth.HashConcurrency < 0 {
		return oops.Code("CONFIG_INVALID").With("key", "auth.hash_concurrency").
			Errorf("auth.hash_concurrency cannot be negative")
	}
	return nil
}
