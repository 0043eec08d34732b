package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Ledger.PersistHistory)
	assert.Equal(t, "stockroom:", cfg.Redis.Prefix)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("LEDGER_PERSIST_HISTORY", "false")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.False(t, cfg.Ledger.PersistHistory)
	assert.Equal(t, 750*time.Millisecond, cfg.Server.RequestTimeout)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DB_CONN_MAX_LIFETIME", "forever")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_CONN_MAX_LIFETIME")
}

func TestValidate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 8080}, Storage: StorageConfig{Driver: DriverMySQL}}
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "unknown storage driver")

	cfg.Storage.Driver = DriverMemory
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}
