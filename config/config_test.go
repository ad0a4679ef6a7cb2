package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	if c.AppPort != "8080" {
		t.Errorf("AppPort = %q", c.AppPort)
	}
	if c.GinMode != "release" {
		t.Errorf("GinMode = %q", c.GinMode)
	}
	if c.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute = %d", c.RateLimitPerMinute)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", c.AllowedOrigins)
	}
	if c.RedisHost != "" {
		t.Errorf("RedisHost should default empty (cache disabled), got %q", c.RedisHost)
	}
	if c.CacheTTLSeconds != 3600 {
		t.Errorf("CacheTTLSeconds = %d", c.CacheTTLSeconds)
	}
}

func TestLoadJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{
		"app": {"Port": "9000", "GinMode": "debug", "AllowedOrigins": ["https://blog.example.com"]},
		"database": {"Host": "db.internal", "Name": "blog"},
		"redis": {"Host": "cache.internal", "Port": 6380},
		"log": {"Level": "warn", "MaxSizeMB": 50, "Compress": true}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		t.Fatalf("loadJSONConfig: %v", err)
	}
	if c.AppPort != "9000" || c.GinMode != "debug" {
		t.Errorf("app section: %+v", c)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "https://blog.example.com" {
		t.Errorf("AllowedOrigins = %v", c.AllowedOrigins)
	}
	if c.DBHost != "db.internal" || c.DBName != "blog" {
		t.Errorf("database section: %+v", c)
	}
	if c.RedisHost != "cache.internal" || c.RedisPort != 6380 {
		t.Errorf("redis section: %+v", c)
	}
	if c.LogLevel != "warn" || c.LogMaxSizeMB != 50 || !c.LogCompress {
		t.Errorf("log section: %+v", c)
	}
}

func TestLoadJSONConfigMissingFileIsNotAnError(t *testing.T) {
	var c AppConfig
	if err := loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	if c.AppPort != "7070" {
		t.Errorf("AppPort = %q", c.AppPort)
	}
	if c.DBHost != "override.internal" {
		t.Errorf("DBHost = %q", c.DBHost)
	}
	if c.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d", c.RateLimitPerMinute)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[0] != want[0] || c.AllowedOrigins[1] != want[1] {
		t.Errorf("AllowedOrigins = %v, want %v", c.AllowedOrigins, want)
	}
}
