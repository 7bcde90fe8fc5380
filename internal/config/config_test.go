package config

import (
	"os"
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
			name: "valid config",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				SessionTTL:         30 * 24 * time.Hour,
				RateLimitPerMinute: 60,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:               "abc",
				SQLiteDBPath:       "./test.db",
				SessionTTL:         time.Hour,
				RateLimitPerMinute: 60,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:               "70000",
				SQLiteDBPath:       "./test.db",
				SessionTTL:         time.Hour,
				RateLimitPerMinute: 60,
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "missing database path",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "",
				SessionTTL:         time.Hour,
				RateLimitPerMinute: 60,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "session TTL too short",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				SessionTTL:         time.Second,
				RateLimitPerMinute: 60,
			},
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name: "rate limit too low",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				SessionTTL:         time.Hour,
				RateLimitPerMinute: 0,
			},
			wantErr:     true,
			errorString: "must be at least 1 request per minute",
		},
		{
			name: "multiple errors collected",
			config: Config{
				Port:               "abc",
				SQLiteDBPath:       "",
				SessionTTL:         time.Hour,
				RateLimitPerMinute: 60,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("Validate() = %q, want it to contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SQLITE_DB_PATH", "SESSION_TTL", "RATE_LIMIT_PER_MINUTE"} {
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SQLiteDBPath != "./data/fintrack.db" {
		t.Errorf("SQLiteDBPath = %q", cfg.SQLiteDBPath)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute = %d", cfg.RateLimitPerMinute)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMinute != 10 {
		t.Errorf("RateLimitPerMinute = %d, want 10", cfg.RateLimitPerMinute)
	}
}
