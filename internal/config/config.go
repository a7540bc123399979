// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default template locations, relative to the working directory.
const (
	DefaultDispatchTemplate = "templates/派車單里程_new.xlsx"
	DefaultFuelLogTemplate  = "templates/消耗油料登記表_new.xlsx"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	Templates Templates
}

// Templates locates the two spreadsheet templates. A locator is either a
// file path or an http(s) URL.
type Templates struct {
	Dispatch string
	FuelLog  string

	// Timeout bounds a single HTTP template fetch. Defaults to 10s.
	Timeout time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first malformed numeric or duration value.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer, got %q", os.Getenv("MAX_BODY_BYTES"))
	}
	cfg.MaxBodyBytes = maxBody

	cfg.Templates, err = LoadTemplates()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadTemplates reads only the template settings. The offline CLI uses it
// for its flag defaults, since it needs no database.
func LoadTemplates() (Templates, error) {
	timeout, err := time.ParseDuration(getEnv("TEMPLATE_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return Templates{}, fmt.Errorf("TEMPLATE_TIMEOUT must be a positive duration, got %q", os.Getenv("TEMPLATE_TIMEOUT"))
	}
	return Templates{
		Dispatch: getEnv("DISPATCH_TEMPLATE", DefaultDispatchTemplate),
		FuelLog:  getEnv("FUEL_LOG_TEMPLATE", DefaultFuelLogTemplate),
		Timeout:  timeout,
	}, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
