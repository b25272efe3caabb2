package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid file backend config",
			config: Config{
				Port:         "8081",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				SessionTTL:   12 * time.Hour,
			},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			config: Config{
				Port:         "8081",
				DataBackend:  "sqlite",
				SQLiteDBPath: "./budget.db",
				SessionTTL:   12 * time.Hour,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:         "abc",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				SessionTTL:   12 * time.Hour,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range low",
			config: Config{
				Port:         "0",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				SessionTTL:   12 * time.Hour,
			},
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name: "invalid port - out of range high",
			config: Config{
				Port:         "70000",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				SessionTTL:   12 * time.Hour,
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid data backend",
			config: Config{
				Port:        "8080",
				DataBackend: "memory",
				SessionTTL:  12 * time.Hour,
			},
			wantErr:     true,
			errorString: "invalid data backend 'memory': must be one of [file sqlite]",
		},
		{
			name: "file backend missing snapshot path",
			config: Config{
				Port:         "8080",
				DataBackend:  "file",
				SnapshotPath: "",
				SessionTTL:   12 * time.Hour,
			},
			wantErr:     true,
			errorString: "snapshot path cannot be empty when using file backend",
		},
		{
			name: "sqlite backend missing database path",
			config: Config{
				Port:         "8080",
				DataBackend:  "sqlite",
				SQLiteDBPath: "",
				SessionTTL:   12 * time.Hour,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "login email without password hash",
			config: Config{
				Port:         "8080",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				LoginEmail:   "yuvi@example.com",
				SessionTTL:   12 * time.Hour,
			},
			wantErr:     true,
			errorString: "LOGIN_EMAIL and LOGIN_PASSWORD_HASH must be set together",
		},
		{
			name: "password hash without email",
			config: Config{
				Port:              "8080",
				DataBackend:       "file",
				SnapshotPath:      "./budget.json",
				LoginPasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
				SessionTTL:        12 * time.Hour,
			},
			wantErr:     true,
			errorString: "LOGIN_EMAIL and LOGIN_PASSWORD_HASH must be set together",
		},
		{
			name: "plaintext password hash",
			config: Config{
				Port:              "8080",
				DataBackend:       "file",
				SnapshotPath:      "./budget.json",
				LoginEmail:        "yuvi@example.com",
				LoginPasswordHash: "hunter2",
				SessionTTL:        12 * time.Hour,
			},
			wantErr:     true,
			errorString: "LOGIN_PASSWORD_HASH must be a bcrypt hash",
		},
		{
			name: "invalid session TTL - too short",
			config: Config{
				Port:         "8080",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				SessionTTL:   30 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid session TTL 30s: must be at least 1 minute",
		},
		{
			name: "invalid session TTL - too long",
			config: Config{
				Port:         "8080",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				SessionTTL:   31 * 24 * time.Hour,
			},
			wantErr:     true,
			errorString: "must be at most 30 days",
		},
		{
			name: "non-existent PDF font",
			config: Config{
				Port:         "8080",
				DataBackend:  "file",
				SnapshotPath: "./budget.json",
				SessionTTL:   12 * time.Hour,
				PDFFontPath:  "/non/existent/font.ttf",
			},
			wantErr:     true,
			errorString: "PDF font file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateWithFont(t *testing.T) {
	tmpDir := t.TempDir()
	fontFile := filepath.Join(tmpDir, "report.ttf")
	if err := os.WriteFile(fontFile, []byte("fake font"), 0644); err != nil {
		t.Fatalf("Failed to create test font file: %v", err)
	}

	cfg := Config{
		Port:         "8080",
		DataBackend:  "file",
		SnapshotPath: filepath.Join(tmpDir, "budget.json"),
		SessionTTL:   12 * time.Hour,
		PDFFontPath:  fontFile,
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() error = %v, wantErr false", err)
	}
}

func TestLoad(t *testing.T) {
	originalVars := map[string]string{
		"PORT":                os.Getenv("PORT"),
		"DATA_BACKEND":        os.Getenv("DATA_BACKEND"),
		"SNAPSHOT_PATH":       os.Getenv("SNAPSHOT_PATH"),
		"SQLITE_DB_PATH":      os.Getenv("SQLITE_DB_PATH"),
		"LOGIN_EMAIL":         os.Getenv("LOGIN_EMAIL"),
		"LOGIN_PASSWORD_HASH": os.Getenv("LOGIN_PASSWORD_HASH"),
		"SESSION_TTL":         os.Getenv("SESSION_TTL"),
		"BUDGET_PDF_FONT":     os.Getenv("BUDGET_PDF_FONT"),
	}

	for key := range originalVars {
		os.Unsetenv(key)
	}

	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "file" {
			t.Errorf("Load() DataBackend = %v, want file", cfg.DataBackend)
		}
		if cfg.SnapshotPath != "./data/budget.json" {
			t.Errorf("Load() SnapshotPath = %v, want ./data/budget.json", cfg.SnapshotPath)
		}
		if cfg.SQLiteDBPath != "./data/budget.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/budget.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 12h", cfg.SessionTTL)
		}
		if cfg.AuthEnabled() {
			t.Errorf("Load() AuthEnabled() = true, want false with no credentials")
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("DATA_BACKEND", "sqlite")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("LOGIN_EMAIL", "yuvi@example.com")
		os.Setenv("LOGIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		os.Setenv("SESSION_TTL", "45m")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionTTL != 45*time.Minute {
			t.Errorf("Load() SessionTTL = %v, want 45m", cfg.SessionTTL)
		}
		if !cfg.AuthEnabled() {
			t.Errorf("Load() AuthEnabled() = false, want true with credentials set")
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("SESSION_TTL", "invalid")

		cfg := Load()

		if cfg.SessionTTL != 12*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 12h (default for invalid input)", cfg.SessionTTL)
		}
	})
}
