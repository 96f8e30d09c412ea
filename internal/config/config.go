package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3000
	defaultEnv        = "development"
	defaultMongoDB    = "auth"
)

// AppConfig holds runtime startup configuration. It is constructed once by
// Load and passed by reference into every component that needs it; components
// never read the environment themselves.
type AppConfig struct {
	Port               int      `yaml:"port"`
	Env                string   `yaml:"env"` // "development" | "production"
	MongoURI           string   `yaml:"mongodb_uri"`
	MongoDB            string   `yaml:"mongodb_name"`
	RedisURI           string   `yaml:"redis_uri"`
	AccessTokenSecret  string   `yaml:"access_token_secret"`
	RefreshTokenSecret string   `yaml:"refresh_token_secret"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
}

type rawAppConfig struct {
	Port               int      `yaml:"port"`
	Env                string   `yaml:"env"`
	NodeEnv            string   `yaml:"node_env"`
	MongoURI           string   `yaml:"mongodb_uri"`
	MongoURL           string   `yaml:"mongodb_url"`
	MongoDB            string   `yaml:"mongodb_name"`
	RedisURI           string   `yaml:"redis_uri"`
	RedisURL           string   `yaml:"redis_url"`
	AccessTokenSecret  string   `yaml:"access_token_secret"`
	RefreshTokenSecret string   `yaml:"refresh_token_secret"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Load reads the YAML config file (optional; env-only deployments may omit
// it), applies environment overrides, and validates the result. The four
// connection/secret settings are required: a missing one is a startup error,
// never a per-request one.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		raw := rawAppConfig{}
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		applyRawAppConfig(&cfg, raw)
	case os.IsNotExist(err):
		// Fine: everything can come from the environment.
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("mongodb_uri is required (config file or MONGODB_URI)")
	}
	if cfg.RedisURI == "" {
		return nil, errors.New("redis_uri is required (config file or REDIS_URI)")
	}
	if cfg.AccessTokenSecret == "" {
		return nil, errors.New("access_token_secret is required (config file or ACCESS_TOKEN_SECRET)")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, errors.New("refresh_token_secret is required (config file or REFRESH_TOKEN_SECRET)")
	}

	cfg.Env = normalizeEnv(cfg.Env)
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:    defaultPort,
		Env:     defaultEnv,
		MongoDB: defaultMongoDB,
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.MongoURI); v != "" {
		cfg.MongoURI = v
	}
	if v := strings.TrimSpace(raw.MongoURL); v != "" {
		cfg.MongoURI = v
	}
	if v := strings.TrimSpace(raw.MongoDB); v != "" {
		cfg.MongoDB = v
	}
	if v := strings.TrimSpace(raw.RedisURI); v != "" {
		cfg.RedisURI = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.RedisURI = v
	}
	if v := strings.TrimSpace(raw.AccessTokenSecret); v != "" {
		cfg.AccessTokenSecret = v
	}
	if v := strings.TrimSpace(raw.RefreshTokenSecret); v != "" {
		cfg.RefreshTokenSecret = v
	}

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSAllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSAllowedOrigins)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("NODE_ENV")); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("MONGODB_URI")); v != "" {
		cfg.MongoURI = v
	}
	if v := strings.TrimSpace(os.Getenv("MONGODB_NAME")); v != "" {
		cfg.MongoDB = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URI")); v != "" {
		cfg.RedisURI = v
	}
	if v := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET")); v != "" {
		cfg.AccessTokenSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("REFRESH_TOKEN_SECRET")); v != "" {
		cfg.RefreshTokenSecret = v
	}
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return "production"
	default:
		return "development"
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if v := strings.TrimSpace(o); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// IsProd reports whether the app runs in production mode.
func (c *AppConfig) IsProd() bool { return c.Env == "production" }
