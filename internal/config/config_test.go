package config

import (
	"encoding/base64"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "LISTEN_ADDR", "METRICS_LISTEN_ADDR", "DATABASE_PATH",
		"REDIS_ADDR", "ALLOWED_ORIGINS", "COOKIE_SECURE", "JWT_SECRET",
		"FIELD_ENCRYPTION_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":8080")
	}
	if cfg.MetricsListenAddr != "localhost:9090" {
		t.Errorf("MetricsListenAddr = %q, want %q", cfg.MetricsListenAddr, "localhost:9090")
	}
	if cfg.DatabasePath != "/data/admin.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/admin.db")
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure = true, want false")
	}
	if cfg.FieldKey != nil {
		t.Error("FieldKey set without FIELD_ENCRYPTION_KEY")
	}
}

func TestLoadExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9000")
	}
	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/tmp/test.db")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want %q", cfg.RedisAddr, "localhost:6379")
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure = false, want true")
	}
}

func TestLoadAllowedOrigins(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want []string
	}{
		{
			name: "single origin",
			env:  "https://ridgelinetransport.example",
			want: []string{"https://ridgelinetransport.example"},
		},
		{
			name: "multiple with whitespace and trailing slashes",
			env:  " https://ridgelinetransport.example/ , http://localhost:3000 ",
			want: []string{"https://ridgelinetransport.example", "http://localhost:3000"},
		},
		{
			name: "empty entries dropped",
			env:  ",https://ridgelinetransport.example,,",
			want: []string{"https://ridgelinetransport.example"},
		},
		{
			name: "empty variable",
			env:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ALLOWED_ORIGINS", tt.env)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(cfg.AllowedOrigins) != len(tt.want) {
				t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, tt.want)
			}
			for i, origin := range tt.want {
				if cfg.AllowedOrigins[i] != origin {
					t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], origin)
				}
			}
		})
	}
}

func TestLoadFieldEncryptionKey(t *testing.T) {
	validKey := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

	tests := []struct {
		name    string
		env     string
		wantErr string
	}{
		{"valid 32-byte key", validKey, ""},
		{"not base64", "not-valid-base64!!!", "not valid base64"},
		{"wrong length", base64.StdEncoding.EncodeToString([]byte("too short")), "32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("FIELD_ENCRYPTION_KEY", tt.env)

			cfg, err := Load()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if len(cfg.FieldKey) != 32 {
					t.Errorf("FieldKey length = %d, want 32", len(cfg.FieldKey))
				}
				return
			}
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid secret", "0123456789abcdef0123456789abcdef", false},
		{"longer secret", "0123456789abcdef0123456789abcdef-extra", false},
		{"missing secret", "", true},
		{"short secret", "tooshort", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JWTSecret: []byte(tt.secret)}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
