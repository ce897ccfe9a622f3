// Package config resolves versiondb settings from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"

	"github.com/modpublish/versiondb/source"
	"github.com/modpublish/versiondb/store"
	"github.com/modpublish/versiondb/util"
)

// ArangoConfig holds the connection settings for the ArangoDB mirror
type ArangoConfig struct {
	URL      string `yaml:"url" env:"ARANGO_URL"`
	User     string `yaml:"user" env:"ARANGO_USER"`
	Password string `yaml:"password" env:"ARANGO_PASS"`
	Database string `yaml:"database" env:"ARANGO_DB"`
}

// Config holds all versiondb settings
type Config struct {
	ManifestURL     string        `yaml:"manifest_url" env:"VERSIONDB_MANIFEST_URL"`
	CatalogURL      string        `yaml:"catalog_url" env:"VERSIONDB_CATALOG_URL"`
	CatalogAPIKey   string        `yaml:"catalog_api_key" env:"VERSIONDB_CATALOG_API_KEY"`
	Output          string        `yaml:"output" env:"VERSIONDB_OUTPUT"`
	ManifestTimeout time.Duration `yaml:"manifest_timeout" env:"VERSIONDB_MANIFEST_TIMEOUT"`
	CatalogTimeout  time.Duration `yaml:"catalog_timeout" env:"VERSIONDB_CATALOG_TIMEOUT"`
	Retries         uint64        `yaml:"retries" env:"VERSIONDB_RETRIES"`
	UserAgent       string        `yaml:"user_agent" env:"VERSIONDB_USER_AGENT"`
	ListenAddr      string        `yaml:"listen" env:"VERSIONDB_LISTEN"`
	Arango          ArangoConfig  `yaml:"arango"`
}

// Default returns the built-in settings. They reproduce the behavior of the
// standalone scripts: fixed upstream URLs, one attempt per source, and
// minecraft.version.json in the working directory.
func Default() *Config {
	return &Config{
		ManifestURL:     source.DefaultManifestURL,
		CatalogURL:      source.DefaultCatalogURL,
		Output:          store.DefaultFile,
		ManifestTimeout: source.DefaultManifestTimeout,
		CatalogTimeout:  source.DefaultCatalogTimeout,
		UserAgent:       source.DefaultUserAgent,
		ListenAddr:      ":3000",
		Arango: ArangoConfig{
			URL:      "http://localhost:8529",
			User:     "root",
			Database: "versiondb",
		},
	}
}

// Load builds a Config. path is optional; when set the file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	switch {
	case util.IsEmpty(c.ManifestURL):
		return fmt.Errorf("manifest_url must not be empty")
	case util.IsEmpty(c.CatalogURL):
		return fmt.Errorf("catalog_url must not be empty")
	case util.IsEmpty(c.Output):
		return fmt.Errorf("output must not be empty")
	case c.ManifestTimeout <= 0 || c.CatalogTimeout <= 0:
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}
