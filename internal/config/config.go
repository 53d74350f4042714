// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/usestring/jsontypegen/pkg/render"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// Defaults shared by the CLI, HTTP and MCP surfaces.
const (
	DefaultTarget       = "rust"
	DefaultNumberPolicy = "decimal"
	DefaultCacheItems   = 256
	DefaultHTTPAddr     = ":8080"
	DefaultMaxBodyBytes = 8 << 20
)

// Config holds all configuration for the jsontypegen surfaces.
type Config struct {
	Target        string // TYPEGEN_TARGET, default "rust"
	NumberPolicy  string // TYPEGEN_NUMBER_POLICY, default "decimal"
	CacheMaxItems int    // TYPEGEN_CACHE_MAX_ITEMS, default 256 (0 disables the cache)
	BatchWorkers  int    // TYPEGEN_BATCH_WORKERS, default 0 (number of CPUs)
	HTTPAddr      string // TYPEGEN_HTTP_ADDR, default ":8080"
	MaxBodyBytes  int    // TYPEGEN_MAX_BODY_BYTES, default 8MB

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// LoadDotEnv loads variables from .env files into the environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Target:        getEnvString("TYPEGEN_TARGET", DefaultTarget),
		NumberPolicy:  getEnvString("TYPEGEN_NUMBER_POLICY", DefaultNumberPolicy),
		CacheMaxItems: getEnvInt("TYPEGEN_CACHE_MAX_ITEMS", DefaultCacheItems),
		BatchWorkers:  getEnvInt("TYPEGEN_BATCH_WORKERS", 0),
		HTTPAddr:      getEnvString("TYPEGEN_HTTP_ADDR", DefaultHTTPAddr),
		MaxBodyBytes:  getEnvInt("TYPEGEN_MAX_BODY_BYTES", DefaultMaxBodyBytes),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// GenerateOptions returns the generation defaults the environment selects.
func (c *Config) GenerateOptions() typegen.Options {
	return typegen.Options{
		Target:       c.Target,
		NumberPolicy: render.NumberPolicy(c.NumberPolicy),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
