package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.AppAddr)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 1024, cfg.AuditCompressThreshold)
	assert.True(t, cfg.GzipEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadServer_PostgresRequiresDSN(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", DriverPostgres)
	t.Setenv("PG_DSN", "")

	_, err := LoadServer()
	require.Error(t, err)

	t.Setenv("PG_DSN", "postgres://u:p@localhost:5432/db")
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
}

func TestLoadServer_RejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := LoadServer()
	require.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "http://api.local:9000")
	t.Setenv("API_TIMEOUT", "3s")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://api.local:9000", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
}

func TestLoadClient_ReadsDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("API_TIMEOUT=7s\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("API_TIMEOUT") })

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, cfg.APITimeout)
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working directory
// for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
