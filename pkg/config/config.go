// Package config provides configuration management for the resolver. It
// handles loading and validating the YAML configuration file that declares
// root artifacts, candidate repositories, and general settings, and provides
// sensible defaults when settings are omitted.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jploot/picomaven/pkg/checksum"
	pkgerrors "github.com/jploot/picomaven/pkg/errors"
	"github.com/jploot/picomaven/pkg/model"
)

// DefaultRepository is used when the configuration declares no repositories.
const DefaultRepository = "https://repo.maven.apache.org/maven2"

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultWorkers is the default bound on concurrent download I/O.
	DefaultWorkers = 4
)

// Config represents the application configuration.
type Config struct {
	// Repositories are candidate repository base URLs, probed in order.
	Repositories []string `yaml:"repositories"`

	// Artifacts are the root artifacts to resolve.
	Artifacts []ArtifactConfig `yaml:"artifacts"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// ArtifactConfig declares one root artifact.
type ArtifactConfig struct {
	// Coordinate is the group:artifact:version[:classifier] form.
	Coordinate string `yaml:"coordinate"`

	// Transitive controls whether declared dependencies are expanded.
	Transitive bool `yaml:"transitive"`

	// Checksums pins expected digests; when set, all must match.
	Checksums []ChecksumConfig `yaml:"checksums,omitempty"`
}

// ChecksumConfig is one pinned digest.
type ChecksumConfig struct {
	Algo  string `yaml:"algo"`
	Value string `yaml:"value"`
}

// Settings represents general application settings.
type Settings struct {
	// DownloadDir is the root of the local artifact tree.
	DownloadDir string `yaml:"download_dir,omitempty"`

	// Network settings
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	UserAgent   string        `yaml:"user_agent,omitempty"`

	// Workers bounds concurrent download I/O.
	Workers int `yaml:"workers"`

	// Output settings
	LogLevel string `yaml:"log_level"` // error, warn, info, debug
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to the working directory if the user cache dir is unknown
		cacheDir = "."
	}
	return &Config{
		Repositories: []string{DefaultRepository},
		Settings: Settings{
			DownloadDir: filepath.Join(cacheDir, "picomaven"),
			HTTPTimeout: DefaultHTTPTimeout,
			Workers:     DefaultWorkers,
			LogLevel:    "info",
		},
	}
}

// LoadConfig loads configuration from a file, filling omitted settings with
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, pkgerrors.ErrEmptyConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read config %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrConfigParse, err.Error())
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Repositories) == 0 {
		c.Repositories = []string{DefaultRepository}
	}
	if c.Settings.HTTPTimeout <= 0 {
		c.Settings.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Settings.Workers <= 0 {
		c.Settings.Workers = DefaultWorkers
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
	if c.Settings.DownloadDir == "" {
		c.Settings.DownloadDir = DefaultConfig().Settings.DownloadDir
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := c.RepositoryURLs(); err != nil {
		return err
	}
	if _, err := c.RootDependencies(); err != nil {
		return err
	}
	return nil
}

// RepositoryURLs parses the configured repository URLs.
func (c *Config) RepositoryURLs() ([]*url.URL, error) {
	urls := make([]*url.URL, 0, len(c.Repositories))
	for _, raw := range c.Repositories {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, pkgerrors.Wrapf(pkgerrors.ErrConfigValidation, "invalid repository URL %q", raw)
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// RootDependencies converts the configured artifacts into the root
// dependencies handed to the resolver.
func (c *Config) RootDependencies() ([]model.Dependency, error) {
	deps := make([]model.Dependency, 0, len(c.Artifacts))
	for _, a := range c.Artifacts {
		coord, err := model.ParseCoordinate(a.Coordinate)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.ErrConfigValidation, err.Error())
		}
		checksums := make([]model.Checksum, 0, len(a.Checksums))
		for _, cs := range a.Checksums {
			algo, err := checksum.ParseAlgo(cs.Algo)
			if err != nil {
				return nil, err
			}
			checksums = append(checksums, model.Checksum{Algo: algo, Value: cs.Value})
		}
		deps = append(deps, model.Dependency{
			Coordinate: coord,
			Transitive: a.Transitive,
			Checksums:  checksums,
		})
	}
	return deps, nil
}
