// Package config loads the server configuration from the environment and the client configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

type Server struct {
	Addr         string `env:"TLDBUDDY_ADDR" envDefault:"localhost:8080"`
	Password     string `env:"APP_PASSWORD"`
	SecureCookie bool   `env:"TLDBUDDY_SECURE_COOKIE" envDefault:"false"`
	// DataDir holds items.json, maps.json and pois.json.
	DataDir string `env:"TLDBUDDY_DATA_DIR" envDefault:"data"`
	KV      KV
}

type KV struct {
	Driver      string `env:"TLDBUDDY_KV_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"TLDBUDDY_SQLITE_PATH" envDefault:"tld-buddy.sqlite3"`
	PostgresDSN string `env:"TLDBUDDY_POSTGRES_DSN"`
	S3Bucket    string `env:"TLDBUDDY_S3_BUCKET"`
	S3Region    string `env:"TLDBUDDY_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"TLDBUDDY_S3_ENDPOINT"`
	S3PathStyle bool   `env:"TLDBUDDY_S3_PATH_STYLE" envDefault:"false"`
	S3Prefix    string `env:"TLDBUDDY_S3_PREFIX"`
}

// ParseServerEnv reads the server configuration from the process environment.
func ParseServerEnv() (Server, error) {
	return parseServer(env.Options{})
}

// ParseServerEnvFrom reads the server configuration from the given variables instead of the process environment.
func ParseServerEnvFrom(vars map[string]string) (Server, error) {
	return parseServer(env.Options{Environment: vars})
}

func parseServer(opts env.Options) (Server, error) {
	var out Server
	if err := env.ParseWithOptions(&out, opts); err != nil {
		return Server{}, fmt.Errorf("failed to parse env: %w", err)
	}
	if err := out.KV.Validate(); err != nil {
		return Server{}, err
	}
	return out, nil
}

func (k KV) Validate() error {
	switch k.Driver {
	case DriverMemory:
	case DriverSQLite:
		if k.SQLitePath == "" {
			return fmt.Errorf("TLDBUDDY_SQLITE_PATH is required for the %s driver", k.Driver)
		}
	case DriverPostgres:
		if k.PostgresDSN == "" {
			return fmt.Errorf("TLDBUDDY_POSTGRES_DSN is required for the %s driver", k.Driver)
		}
	case DriverS3:
		if k.S3Bucket == "" {
			return fmt.Errorf("TLDBUDDY_S3_BUCKET is required for the %s driver", k.Driver)
		}
	default:
		return fmt.Errorf("unknown kv driver %q", k.Driver)
	}
	return nil
}

type Client struct {
	Server    string        `yaml:"server"`
	CachePath string        `yaml:"cache_path"`
	Password  string        `yaml:"password,omitempty"`
	Debounce  time.Duration `yaml:"debounce"`
}

func DefaultClient() Client {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return Client{
		Server:    "http://localhost:8080",
		CachePath: filepath.Join(cacheDir, "tld-buddy", "cache.sqlite3"),
		Debounce:  500 * time.Millisecond,
	}
}

func DefaultClientPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tld-buddy.yaml"
	}
	return filepath.Join(dir, "tld-buddy", "client.yaml")
}

// LoadClient reads the YAML file at path over the defaults. A missing file yields the defaults.
func LoadClient(path string) (Client, error) {
	out := DefaultClient()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return Client{}, fmt.Errorf("failed to read client config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return Client{}, fmt.Errorf("failed to decode client config: %w", err)
	}
	return out, nil
}

// SaveClient writes the config as YAML, creating parent directories.
func SaveClient(path string, c Client) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode client config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write client config: %w", err)
	}
	return nil
}
