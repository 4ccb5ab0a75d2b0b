package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultCatalogBaseURL = "https://fakestoreapi.com"

type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	CatalogBaseURL   string        `yaml:"catalog_base_url"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
	QuoteConcurrency int           `yaml:"quote_concurrency"`
	SeedDemoCart     bool          `yaml:"seed_demo_cart"`
}

func Default() Config {
	return Config{
		AppEnv:           "dev",
		LogLevel:         "info",
		LogFile:          filepath.Join(os.TempDir(), "storefront.log"),
		CatalogBaseURL:   DefaultCatalogBaseURL,
		HTTPTimeout:      10 * time.Second,
		QuoteConcurrency: 4,
		SeedDemoCart:     true,
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. A .env file in the working
// directory is loaded first but never overrides variables already set.
// path may be empty; STOREFRONT_CONFIG is consulted then.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("STOREFRONT_CONFIG")
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.CatalogBaseURL = getEnv("CATALOG_BASE_URL", c.CatalogBaseURL)
	c.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", c.HTTPTimeout)
	c.QuoteConcurrency = getEnvInt("QUOTE_CONCURRENCY", c.QuoteConcurrency)
	c.SeedDemoCart = getEnvBool("SEED_DEMO_CART", c.SeedDemoCart)
}

func (c *Config) normalize() {
	c.CatalogBaseURL = strings.TrimRight(strings.TrimSpace(c.CatalogBaseURL), "/")
	if c.CatalogBaseURL == "" {
		c.CatalogBaseURL = DefaultCatalogBaseURL
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	if c.QuoteConcurrency <= 0 {
		c.QuoteConcurrency = 4
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
