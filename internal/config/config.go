// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends selectable with UPDATEPANEL_STORE.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr        string
	Store             string
	ServersPath       string
	CreateServersFile bool
	DBPath            string
	ProbeTimeout      time.Duration
}

// UsesSQLite reports whether statistics servers are kept in the SQLite database
// instead of the flat file. The flat file is then only read once to seed the table.
func (c *Config) UsesSQLite() bool {
	return c.Store == StoreSQLite
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: UPDATEPANEL_LISTEN_ADDR (127.0.0.1:8080),
// UPDATEPANEL_STORE (file), UPDATEPANEL_SERVERS_PATH (statistic_servers.txt),
// UPDATEPANEL_CREATE_SERVERS_FILE (true), UPDATEPANEL_DB_PATH (updatepanel.db),
// UPDATEPANEL_PROBE_TIMEOUT (5s).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("UPDATEPANEL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	store := StoreFile
	if v, ok := os.LookupEnv("UPDATEPANEL_STORE"); ok && v != "" {
		if v != StoreFile && v != StoreSQLite {
			return nil, fmt.Errorf("UPDATEPANEL_STORE must be %q or %q, got %q", StoreFile, StoreSQLite, v)
		}
		store = v
	}

	serversPath := "statistic_servers.txt"
	if v, ok := os.LookupEnv("UPDATEPANEL_SERVERS_PATH"); ok && v != "" {
		serversPath = v
	}

	createServersFile := true
	if v, ok := os.LookupEnv("UPDATEPANEL_CREATE_SERVERS_FILE"); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("UPDATEPANEL_CREATE_SERVERS_FILE has invalid boolean %q: %w", v, err)
		}
		createServersFile = parsed
	}

	dbPath := "updatepanel.db"
	if v, ok := os.LookupEnv("UPDATEPANEL_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	probeTimeout := 5 * time.Second
	if v, ok := os.LookupEnv("UPDATEPANEL_PROBE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("UPDATEPANEL_PROBE_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("UPDATEPANEL_PROBE_TIMEOUT must be positive, got %s", parsed)
		}
		probeTimeout = parsed
	}

	return &Config{
		ListenAddr:        listenAddr,
		Store:             store,
		ServersPath:       serversPath,
		CreateServersFile: createServersFile,
		DBPath:            dbPath,
		ProbeTimeout:      probeTimeout,
	}, nil
}
