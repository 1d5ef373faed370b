// Package config loads the command line tool's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// RelPath is the configuration file location below the XDG config
// directories.
const RelPath = "gitadapter/config.yaml"

// Config is the top-level configuration.
type Config struct {
	Backend         string     `yaml:"backend"`           // "gogit" or "shell"
	GitBinary       string     `yaml:"git_binary"`        // shell backend only
	MaxBlobSize     int64      `yaml:"max_blob_size"`     // bytes
	StorerCacheSize int        `yaml:"storer_cache_size"` // KiB
	CacheDir        string     `yaml:"cache_dir"`
	Log             LogConfig  `yaml:"log"`
	Auth            AuthConfig `yaml:"auth"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// AuthConfig lists the credentials offered to remotes. Providers are tried
// in order: HTTPS entries first, then SSH.
type AuthConfig struct {
	HTTPS []HTTPSAuth `yaml:"https"`
	SSH   *SSHAuth    `yaml:"ssh"`
}

// HTTPSAuth is one set of HTTPS credentials.
type HTTPSAuth struct {
	Hosts    []string `yaml:"hosts"`
	Username string   `yaml:"username"` // empty means token auth
	Token    string   `yaml:"token"`    // inline, ${ENV_VAR}, or file path
}

// SSHAuth configures SSH authentication.
type SSHAuth struct {
	Agent      bool     `yaml:"agent"`
	KeyPath    string   `yaml:"key_path"`
	Passphrase string   `yaml:"passphrase"`
	KnownHosts []string `yaml:"known_hosts"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Default returns an empty configuration; the adapter fills in its own
// defaults for every unset field.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and parses a configuration file, expanding environment
// variables and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes configuration from YAML.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.CacheDir = expandEnv(cfg.CacheDir)
	cfg.GitBinary = expandEnv(cfg.GitBinary)
	for i := range cfg.Auth.HTTPS {
		cfg.Auth.HTTPS[i].Username = expandEnv(cfg.Auth.HTTPS[i].Username)
		cfg.Auth.HTTPS[i].Token = resolveToken(cfg.Auth.HTTPS[i].Token)
	}
	if ssh := cfg.Auth.SSH; ssh != nil {
		ssh.KeyPath = expandEnv(ssh.KeyPath)
		ssh.Passphrase = expandEnv(ssh.Passphrase)
		for i := range ssh.KnownHosts {
			ssh.KnownHosts[i] = expandEnv(ssh.KnownHosts[i])
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Find returns the first configuration file found in the XDG config
// directories.
func Find() (string, error) {
	path, err := xdg.SearchConfigFile(RelPath)
	if err != nil {
		return "", fmt.Errorf("config file not found: %w", err)
	}
	return path, nil
}

// LoadDefault loads the configuration at path, or the one found by Find when
// path is empty. A missing default file yields Default().
func LoadDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	found, err := Find()
	if err != nil {
		return Default(), nil
	}
	return Load(found)
}

// Validate checks for malformed values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case "", "gogit", "shell":
	default:
		return fmt.Errorf("backend must be gogit or shell, got %q", c.Backend)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if c.MaxBlobSize < 0 {
		return errors.New("max_blob_size cannot be negative")
	}
	if c.StorerCacheSize < 0 {
		return errors.New("storer_cache_size cannot be negative")
	}

	for i, h := range c.Auth.HTTPS {
		if h.Token == "" {
			return fmt.Errorf("auth.https[%d].token is required (set inline, via ${ENV_VAR}, or as file path)", i)
		}
	}

	if ssh := c.Auth.SSH; ssh != nil && !ssh.Agent && ssh.KeyPath == "" {
		return errors.New("auth.ssh needs key_path or agent: true")
	}

	return nil
}

// expandEnv replaces ${VAR} references with their values. Unset variables
// expand to the empty string.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// resolveToken expands environment variable references and, if the result
// is a path to an existing file, reads the token from it.
func resolveToken(raw string) string {
	resolved := expandEnv(raw)
	if resolved == "" {
		return resolved
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return resolved
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return resolved
	}
	return strings.TrimSpace(string(data))
}
