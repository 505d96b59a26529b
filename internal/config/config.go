// Package config loads the guildcore.yml deployment configuration and applies
// GUILDCORE_* environment overrides on top of it.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level guildcore.yml document.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Blob    BlobConfig    `yaml:"blob"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Gateway GatewayConfig `yaml:"gateway"`
}

// StorageConfig selects and parameterizes the persistent store.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // memory, sqlite, or postgres
	SQLitePath  string `yaml:"sqlite_path,omitempty"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

// BlobConfig selects and parameterizes the artifact store.
type BlobConfig struct {
	Driver string       `yaml:"driver"` // memory, fs, or s3
	FSRoot string       `yaml:"fs_root,omitempty"`
	S3     S3BlobConfig `yaml:"s3,omitempty"`
}

// S3BlobConfig carries S3 connection settings. Credentials may be left empty
// to use the ambient AWS credential chain.
type S3BlobConfig struct {
	Bucket          string `yaml:"bucket,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	PathStyle       bool   `yaml:"path_style,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	SessionToken    string `yaml:"session_token,omitempty"`
}

// LedgerConfig parameterizes the semos ledger policy.
type LedgerConfig struct {
	Floor int64 `yaml:"floor"` // minimum wallet balance in semos cents
}

// GatewayConfig parameterizes the mutation gateway and its CORS policy.
type GatewayConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	APIPrefix      string   `yaml:"api_prefix,omitempty"`
	RedisAddr      string   `yaml:"redis_addr,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Storage: StorageConfig{Driver: "sqlite", SQLitePath: "guildcore.db"},
		Blob:    BlobConfig{Driver: "fs", FSRoot: "blobdata"},
		Gateway: GatewayConfig{APIPrefix: "/api/"},
	}
}

// Load reads and validates guildcore.yml from the given path, then overlays
// environment overrides. An empty path yields defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays GUILDCORE_* variables onto the file values. Environment
// always wins so deployments can patch a shared file per instance.
func (c *Config) applyEnv() error {
	overlay := func(target *string, key string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
	overlay(&c.Storage.Driver, "GUILDCORE_STORAGE_DRIVER")
	overlay(&c.Storage.SQLitePath, "GUILDCORE_SQLITE_PATH")
	overlay(&c.Storage.PostgresDSN, "GUILDCORE_POSTGRES_DSN")
	overlay(&c.Blob.Driver, "GUILDCORE_BLOB_DRIVER")
	overlay(&c.Blob.FSRoot, "GUILDCORE_BLOB_FS_ROOT")
	overlay(&c.Blob.S3.Bucket, "GUILDCORE_BLOB_S3_BUCKET")
	overlay(&c.Blob.S3.Region, "GUILDCORE_BLOB_S3_REGION")
	overlay(&c.Blob.S3.Endpoint, "GUILDCORE_BLOB_S3_ENDPOINT")
	overlay(&c.Blob.S3.AccessKeyID, "GUILDCORE_BLOB_S3_ACCESS_KEY_ID")
	overlay(&c.Blob.S3.SecretAccessKey, "GUILDCORE_BLOB_S3_SECRET_ACCESS_KEY")
	overlay(&c.Blob.S3.SessionToken, "GUILDCORE_BLOB_S3_SESSION_TOKEN")
	overlay(&c.Gateway.APIPrefix, "GUILDCORE_GATEWAY_API_PREFIX")
	overlay(&c.Gateway.RedisAddr, "GUILDCORE_GATEWAY_REDIS_ADDR")

	if v := os.Getenv("GUILDCORE_BLOB_S3_PATH_STYLE"); v != "" {
		pathStyle, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse GUILDCORE_BLOB_S3_PATH_STYLE: %w", err)
		}
		c.Blob.S3.PathStyle = pathStyle
	}
	if v := os.Getenv("GUILDCORE_LEDGER_FLOOR"); v != "" {
		floor, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse GUILDCORE_LEDGER_FLOOR: %w", err)
		}
		c.Ledger.Floor = floor
	}
	return nil
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q (valid: memory, sqlite, postgres)", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("storage driver postgres requires postgres_dsn")
	}

	switch c.Blob.Driver {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("unknown blob driver %q (valid: memory, fs, s3)", c.Blob.Driver)
	}
	if c.Blob.Driver == "s3" && c.Blob.S3.Bucket == "" {
		return fmt.Errorf("blob driver s3 requires s3.bucket")
	}

	for _, origin := range c.Gateway.AllowedOrigins {
		if origin == "" || origin == "*" {
			return fmt.Errorf("gateway allowed_origins must list explicit origins")
		}
	}
	return nil
}
