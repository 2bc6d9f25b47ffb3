package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 127.0.0.1
  port: 9090
database:
  host: db.local
  dbname: memebin_test
minio:
  endpoint: minio.local:9000
  accesskey: admin
  secretkey: secret
  bucket: memes
auth:
  admin_api_key: topsecret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, "memebin_test", cfg.Database.DBName)
	assert.Equal(t, "minio.local:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, "memes", cfg.MinIO.Bucket)
	assert.Equal(t, "topsecret", cfg.Auth.AdminAPIKey)

	// values absent from the file keep their defaults
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
