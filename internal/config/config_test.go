package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_URI", "redis://localhost:6379/0")
	t.Setenv("ACCESS_TOKEN_SECRET", "test-access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "test-refresh-secret")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_EnvOnly(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("MongoURI = %q", cfg.MongoURI)
	}
	if cfg.RedisURI != "redis://localhost:6379/0" {
		t.Errorf("RedisURI = %q", cfg.RedisURI)
	}
	if cfg.AccessTokenSecret != "test-access-secret" {
		t.Errorf("AccessTokenSecret = %q", cfg.AccessTokenSecret)
	}
	if cfg.RefreshTokenSecret != "test-refresh-secret" {
		t.Errorf("RefreshTokenSecret = %q", cfg.RefreshTokenSecret)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want default 3000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
}

func TestLoad_FileValues(t *testing.T) {
	setRequiredEnvVars(t)
	path := writeConfigFile(t, `
port: 8080
env: production
mongodb_name: shop
allowed_origins:
  - example.com
  - " "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if !cfg.IsProd() {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	if cfg.MongoDB != "shop" {
		t.Errorf("MongoDB = %q, want shop", cfg.MongoDB)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	path := writeConfigFile(t, "mongodb_uri: mongodb://file-host:27017\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MongoURI != "mongodb://db.internal:27017" {
		t.Errorf("MongoURI = %q, env should win over file", cfg.MongoURI)
	}
}

func TestLoad_MissingSecretsFail(t *testing.T) {
	cases := []string{"MONGODB_URI", "REDIS_URI", "ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET"}
	for _, missing := range cases {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnvVars(t)
			t.Setenv(missing, "")

			_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
			if err == nil {
				t.Fatalf("expected error when %s is unset", missing)
			}
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnvVars(t)
	path := writeConfigFile(t, "port: 99999\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestLoad_AliasKeys(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("MONGODB_URI", "")
	t.Setenv("REDIS_URI", "")
	path := writeConfigFile(t, `
node_env: prod
mongodb_url: mongodb://alias-host:27017
redis_url: redis://alias-host:6379
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.IsProd() {
		t.Errorf("Env = %q, node_env alias should apply", cfg.Env)
	}
	if cfg.MongoURI != "mongodb://alias-host:27017" {
		t.Errorf("MongoURI = %q, mongodb_url alias should apply", cfg.MongoURI)
	}
	if cfg.RedisURI != "redis://alias-host:6379" {
		t.Errorf("RedisURI = %q, redis_url alias should apply", cfg.RedisURI)
	}
}
