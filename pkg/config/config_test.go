package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerDefaults(t *testing.T) {
	cfg, err := ParseServerEnvFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.KV.Driver)
	assert.Equal(t, "tld-buddy.sqlite3", cfg.KV.SQLitePath)
	assert.Equal(t, "us-east-1", cfg.KV.S3Region)
	assert.Equal(t, "data", cfg.DataDir)
	assert.False(t, cfg.SecureCookie)
}

func TestServerOverrides(t *testing.T) {
	cfg, err := ParseServerEnvFrom(map[string]string{
		"TLDBUDDY_ADDR":          ":9000",
		"APP_PASSWORD":           "hunter2",
		"TLDBUDDY_SECURE_COOKIE": "true",
		"TLDBUDDY_KV_DRIVER":     "s3",
		"TLDBUDDY_S3_BUCKET":     "tld",
		"TLDBUDDY_S3_PATH_STYLE": "true",
		"TLDBUDDY_S3_ENDPOINT":   "http://minio:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.True(t, cfg.SecureCookie)
	assert.Equal(t, DriverS3, cfg.KV.Driver)
	assert.Equal(t, "tld", cfg.KV.S3Bucket)
	assert.True(t, cfg.KV.S3PathStyle)
}

func TestServerValidation(t *testing.T) {
	_, err := ParseServerEnvFrom(map[string]string{"TLDBUDDY_KV_DRIVER": "redis"})
	assert.ErrorContains(t, err, "unknown kv driver")
	_, err = ParseServerEnvFrom(map[string]string{"TLDBUDDY_KV_DRIVER": "s3"})
	assert.ErrorContains(t, err, "TLDBUDDY_S3_BUCKET")
	_, err = ParseServerEnvFrom(map[string]string{"TLDBUDDY_KV_DRIVER": "postgres"})
	assert.ErrorContains(t, err, "TLDBUDDY_POSTGRES_DSN")
	_, err = ParseServerEnvFrom(map[string]string{"TLDBUDDY_SECURE_COOKIE": "maybe"})
	assert.Error(t, err)
}

func TestLoadClientMissingFile(t *testing.T) {
	cfg, err := LoadClient(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultClient(), cfg)
}

func TestLoadClientOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: https://tld.example.com\ndebounce: 2s\n"), 0o600))
	cfg, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tld.example.com", cfg.Server)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
	assert.Equal(t, DefaultClient().CachePath, cfg.CachePath)
}

func TestLoadClientInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))
	_, err := LoadClient(path)
	assert.ErrorContains(t, err, "failed to decode client config")
}

func TestSaveClientRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "client.yaml")
	in := Client{Server: "http://127.0.0.1:8080", CachePath: "/tmp/cache.sqlite3", Password: "pw", Debounce: time.Second}
	require.NoError(t, SaveClient(path, in))
	out, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
