package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	DatabaseHost     string
	DatabasePort     int
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string

	WriteInterval     time.Duration
	ConnectRetryDelay time.Duration
	StatusAddress     string
	ShutdownTimeout   time.Duration
}

const (
	defaultDatabaseHost     = "postgres"
	defaultDatabasePort     = 5432
	defaultDatabaseUser     = "postgres"
	defaultDatabasePassword = "postgres"
	defaultDatabaseName     = "testdb"

	defaultWriteInterval     = 5 * time.Second
	defaultConnectRetryDelay = 5 * time.Second
	defaultStatusAddress     = ":8080"
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		DatabaseHost:      getString(lookup, "POSTGRES_HOST", defaultDatabaseHost),
		DatabasePort:      getInt(lookup, "POSTGRES_PORT", defaultDatabasePort),
		DatabaseUser:      getString(lookup, "POSTGRES_USER", defaultDatabaseUser),
		DatabasePassword:  getString(lookup, "POSTGRES_PASSWORD", defaultDatabasePassword),
		DatabaseName:      getString(lookup, "POSTGRES_DB", defaultDatabaseName),
		WriteInterval:     getInterval(lookup, "WRITE_INTERVAL", defaultWriteInterval),
		ConnectRetryDelay: getInterval(lookup, "CONNECT_RETRY_DELAY", defaultConnectRetryDelay),
		StatusAddress:     getString(lookup, "STATUS_ADDRESS", defaultStatusAddress),
		ShutdownTimeout:   getInterval(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("datafeed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		writeIntervalStr   = cfg.WriteInterval.String()
		retryDelayStr      = cfg.ConnectRetryDelay.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.DatabaseHost, "db-host", cfg.DatabaseHost, "PostgreSQL host")
	fs.IntVar(&cfg.DatabasePort, "db-port", cfg.DatabasePort, "PostgreSQL port")
	fs.StringVar(&cfg.DatabaseUser, "db-user", cfg.DatabaseUser, "PostgreSQL user")
	fs.StringVar(&cfg.DatabasePassword, "db-password", cfg.DatabasePassword, "PostgreSQL password")
	fs.StringVar(&cfg.DatabaseName, "db-name", cfg.DatabaseName, "PostgreSQL database name")
	fs.StringVar(&cfg.StatusAddress, "status-address", cfg.StatusAddress, "Status HTTP server listen address")
	fs.StringVar(&writeIntervalStr, "write-interval", writeIntervalStr, "Interval between generator ticks")
	fs.StringVar(&retryDelayStr, "retry-delay", retryDelayStr, "Delay between connection attempts")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.WriteInterval, err = parseInterval(writeIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid write interval: %w", err)
	}

	if cfg.ConnectRetryDelay, err = parseInterval(retryDelayStr); err != nil {
		return nil, fmt.Errorf("invalid retry delay: %w", err)
	}

	if cfg.ShutdownTimeout, err = parseInterval(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.WriteInterval <= 0 {
		cfg.WriteInterval = defaultWriteInterval
	}

	if cfg.ConnectRetryDelay <= 0 {
		cfg.ConnectRetryDelay = defaultConnectRetryDelay
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabasePort <= 0 || cfg.DatabasePort > 65535 {
		return nil, fmt.Errorf("invalid database port %d", cfg.DatabasePort)
	}

	return cfg, nil
}

// DatabaseDSN assembles a pgx connection string from the parts.
func (c *Config) DatabaseDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:   fmt.Sprintf("%s:%d", c.DatabaseHost, c.DatabasePort),
		Path:   "/" + c.DatabaseName,
	}
	return u.String()
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInterval(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := parseInterval(v); err == nil {
			return d
		}
	}
	return def
}

// parseInterval accepts either a Go duration ("5s") or a bare number of
// seconds ("5") for compatibility with older deployments.
func parseInterval(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
