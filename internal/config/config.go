package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath    = "config.toml"
	DefaultHTTPAddr      = ":8080"
	DefaultPGHost        = "127.0.0.1"
	DefaultPGPort        = 5432
	DefaultPGUser        = "postgres"
	DefaultPGDatabase    = "stallcraft"
	DefaultPGSSLMode     = "disable"
	DefaultStorageBucket = "stallcraft-media"
	DefaultKeyNamespace  = "stall-craft"
	DefaultMaxMediaBytes = 50 * 1024 * 1024
	DefaultSweepSchedule = "@hourly"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	Storage  StorageConfig  `toml:"storage"`
	Media    MediaConfig    `toml:"media"`
	Sweep    SweepConfig    `toml:"sweep"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// StorageConfig points at the S3-compatible object store holding media blobs.
type StorageConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
	// PublicBaseURL overrides the URL prefix under which stored objects are
	// reachable, e.g. behind a CDN. Defaults to the endpoint itself.
	PublicBaseURL string `toml:"public_base_url"`
}

type MediaConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
	// KeyNamespace is the top-level prefix for every storage key.
	KeyNamespace string `toml:"key_namespace"`
}

type SweepConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`
	// GraceMinutes protects freshly uploaded blobs whose document write may
	// still be in flight.
	GraceMinutes int `toml:"grace_minutes"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		Storage: StorageConfig{
			Endpoint: "127.0.0.1:9000",
			Bucket:   DefaultStorageBucket,
		},
		Media: MediaConfig{
			MaxBytes:     DefaultMaxMediaBytes,
			KeyNamespace: DefaultKeyNamespace,
		},
		Sweep: SweepConfig{
			Enabled:      true,
			Schedule:     DefaultSweepSchedule,
			GraceMinutes: 60,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
