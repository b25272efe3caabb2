package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	DataBackend  string
	SnapshotPath string
	SQLiteDBPath string

	// Login
	LoginEmail        string
	LoginPasswordHash string
	SessionTTL        time.Duration

	// Export
	PDFFontPath string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "file"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./data/budget.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),

		LoginEmail:        getEnv("LOGIN_EMAIL", ""),
		LoginPasswordHash: getEnv("LOGIN_PASSWORD_HASH", ""),
		SessionTTL:        getEnvDuration("SESSION_TTL", 12*time.Hour),

		PDFFontPath: getEnv("BUDGET_PDF_FONT", ""),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"file", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "file" {
		if c.SnapshotPath == "" {
			errors = append(errors, "snapshot path cannot be empty when using file backend")
		} else if err := ensureDir(c.SnapshotPath); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create snapshot directory for '%s': %v", c.SnapshotPath, err))
		}
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(c.SQLiteDBPath); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create SQLite database directory for '%s': %v", c.SQLiteDBPath, err))
		}
	}

	// Login is optional, but a half-configured login locks everyone out.
	if (c.LoginEmail == "") != (c.LoginPasswordHash == "") {
		errors = append(errors, "LOGIN_EMAIL and LOGIN_PASSWORD_HASH must be set together")
	}
	if c.LoginPasswordHash != "" && !strings.HasPrefix(c.LoginPasswordHash, "$2") {
		errors = append(errors, "LOGIN_PASSWORD_HASH must be a bcrypt hash")
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 30*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 30 days", c.SessionTTL))
	}

	if c.PDFFontPath != "" {
		if _, err := os.Stat(c.PDFFontPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("PDF font file does not exist: %s", c.PDFFontPath))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AuthEnabled reports whether login credentials are configured.
func (c *Config) AuthEnabled() bool {
	return c.LoginEmail != "" && c.LoginPasswordHash != ""
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
