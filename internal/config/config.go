// Package config loads cmscontent settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/cmscontent/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDirName is the per-user directory holding the database and
	// config file.
	DefaultDirName = ".cmscontent"
	// ConfigFileName is looked up inside DefaultDirName when no path is
	// given.
	ConfigFileName = "config.yaml"
)

// Config is the complete runtime configuration.
type Config struct {
	DBPath          string        `yaml:"db_path"`
	RootURL         string        `yaml:"root_url"`
	ArticlePerPage  int           `yaml:"article_per_page"`
	CategoryPerPage int           `yaml:"category_per_page"`
	SiteDomain      string        `yaml:"site_domain"`
	LogLevel        string        `yaml:"log_level"`
	ListenPort      int           `yaml:"listen_port"`
	Akismet         AkismetConfig `yaml:"akismet"`
}

// AkismetConfig configures the comment spam checker. An empty APIKey
// disables checking.
type AkismetConfig struct {
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries"`
}

// Enabled reports whether a key is configured.
func (a AkismetConfig) Enabled() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// DefaultConfig returns a Config with every default applied. DBPath is
// left empty and resolved against the home directory by Load.
func DefaultConfig() *Config {
	return &Config{
		RootURL:         domain.DefaultRootURL,
		ArticlePerPage:  10,
		CategoryPerPage: 10,
		SiteDomain:      "example.com",
		LogLevel:        "info",
		ListenPort:      9876,
		Akismet: AkismetConfig{
			Endpoint:   "https://rest.akismet.com/1.1",
			TimeoutMs:  5000,
			MaxRetries: 1,
		},
	}
}

// Load builds the configuration. When path is empty, $CMS_CONTENT_CONFIG
// and then ~/.cmscontent/config.yaml are tried; a missing default file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CMS_CONTENT_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, DefaultDirName, ConfigFileName)
		}
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, DefaultDirName, "cms.db")
	}
	cfg.RootURL = domain.NormalizeRootURL(cfg.RootURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CMS_CONTENT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("CMS_CONTENT_ROOT_URL"); v != "" {
		c.RootURL = v
	}
	if v := os.Getenv("CMS_CONTENT_SITE_DOMAIN"); v != "" {
		c.SiteDomain = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("AKISMET_API_KEY"); v != "" {
		c.Akismet.APIKey = v
	}
	if v := os.Getenv("AKISMET_ENDPOINT"); v != "" {
		c.Akismet.Endpoint = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"CMS_CONTENT_ARTICLE_PERPAGE", &c.ArticlePerPage},
		{"CMS_CONTENT_CATEGORY_PERPAGE", &c.CategoryPerPage},
		{"CMS_CONTENT_PORT", &c.ListenPort},
		{"AKISMET_TIMEOUT_MS", &c.Akismet.TimeoutMs},
		{"AKISMET_MAX_RETRIES", &c.Akismet.MaxRetries},
	}
	for _, e := range ints {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", e.env, v)
		}
		*e.dst = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RootURL) == "" {
		return fmt.Errorf("root_url is required")
	}
	if c.ArticlePerPage < 1 {
		return fmt.Errorf("article_per_page must be positive, got %d", c.ArticlePerPage)
	}
	if c.CategoryPerPage < 1 {
		return fmt.Errorf("category_per_page must be positive, got %d", c.CategoryPerPage)
	}
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("listen_port must be between 1 and 65535, got %d", c.ListenPort)
	}
	if c.Akismet.Enabled() {
		if c.Akismet.Endpoint == "" {
			return fmt.Errorf("akismet.endpoint is required when akismet.api_key is set")
		}
		if c.Akismet.TimeoutMs < 1 {
			return fmt.Errorf("akismet.timeout_ms must be positive")
		}
		if c.Akismet.MaxRetries < 0 {
			return fmt.Errorf("akismet.max_retries must not be negative")
		}
	}
	return nil
}

// BlogURL is the site address reported to the spam checker.
func (c *Config) BlogURL() string {
	return "http://" + c.SiteDomain + "/"
}
