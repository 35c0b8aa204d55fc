package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType            string // mysql, mariadb, postgres, sqlite, sqlite-pure, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Authorizer configuration (optional, every viewer is anonymous without it)
	AuthzURL      string
	AuthzClientID string

	// Shared secret the Omeka host sends with lifecycle hook calls
	HookToken string

	// Public base URL of the Omeka files directory, e.g. https://example.org/files
	FilesBaseURL string
	// Placeholder image used when no thumbnail resolves. Empty means the
	// embedded transparent GIF.
	PlaceholderURL string

	ThumbnailSize       int
	SelectionMaxEntries int

	// Roles allowed to browse private sites
	EditorRoles []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "3000"),
		DBType:              getEnv("DB_TYPE", "mysql"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBDatabase:          getEnv("DB_DATABASE", ""),
		DBUser:              getEnv("DB_USER", ""),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:   getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		AuthzURL:            getEnv("AUTHZ_URL", ""),
		AuthzClientID:       getEnv("AUTHZ_CLIENT_ID", ""),
		HookToken:           getEnv("HOOK_TOKEN", ""),
		FilesBaseURL:        strings.TrimRight(getEnv("FILES_BASE_URL", "/files"), "/"),
		PlaceholderURL:      getEnv("PLACEHOLDER_URL", "/static/img/placeholder.svg"),
		ThumbnailSize:       getEnvAsInt("THUMBNAIL_SIZE", 800),
		SelectionMaxEntries: getEnvAsInt("SELECTION_MAX_ENTRIES", 12),
		EditorRoles:         getEnvAsList("EDITOR_ROLES", []string{"admin", "editor"}),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBUser == "" && !cfg.IsSQLite() {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.AuthzURL != "" && cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required when AUTHZ_URL is set")
	}
	if cfg.ThumbnailSize <= 0 {
		return nil, fmt.Errorf("THUMBNAIL_SIZE must be positive")
	}
	if cfg.SelectionMaxEntries <= 0 {
		return nil, fmt.Errorf("SELECTION_MAX_ENTRIES must be positive")
	}

	return cfg, nil
}

// IsSQLite reports whether the configured database is a SQLite file
func (c *Config) IsSQLite() bool {
	return c.DBType == "sqlite" || c.DBType == "sqlite-pure"
}

// AuthEnabled reports whether sessions are validated against an Authorizer
func (c *Config) AuthEnabled() bool {
	return c.AuthzURL != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated environment variable
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
