package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every UPDATEPANEL_ env var that Load() reads.
var allConfigKeys = []string{
	"UPDATEPANEL_LISTEN_ADDR",
	"UPDATEPANEL_STORE",
	"UPDATEPANEL_SERVERS_PATH",
	"UPDATEPANEL_CREATE_SERVERS_FILE",
	"UPDATEPANEL_DB_PATH",
	"UPDATEPANEL_PROBE_TIMEOUT",
}

// isolateConfigEnv saves and unsets all UPDATEPANEL_ env vars so tests don't
// inherit values from the host environment.
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("UPDATEPANEL_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("UPDATEPANEL_STORE", "sqlite")
	t.Setenv("UPDATEPANEL_SERVERS_PATH", "/data/servers.txt")
	t.Setenv("UPDATEPANEL_CREATE_SERVERS_FILE", "false")
	t.Setenv("UPDATEPANEL_DB_PATH", "/tmp/test.db")
	t.Setenv("UPDATEPANEL_PROBE_TIMEOUT", "750ms")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.True(t, cfg.UsesSQLite())
	assert.Equal(t, "/data/servers.txt", cfg.ServersPath)
	assert.False(t, cfg.CreateServersFile)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 750*time.Millisecond, cfg.ProbeTimeout)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.False(t, cfg.UsesSQLite())
	assert.Equal(t, "statistic_servers.txt", cfg.ServersPath)
	assert.True(t, cfg.CreateServersFile)
	assert.Equal(t, "updatepanel.db", cfg.DBPath)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown store", key: "UPDATEPANEL_STORE", value: "postgres"},
		{name: "bad bool", key: "UPDATEPANEL_CREATE_SERVERS_FILE", value: "maybe"},
		{name: "bad duration", key: "UPDATEPANEL_PROBE_TIMEOUT", value: "soon"},
		{name: "negative duration", key: "UPDATEPANEL_PROBE_TIMEOUT", value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
