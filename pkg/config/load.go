package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// defaultTimeoutMs applies when a client omits timeoutMs.
const defaultTimeoutMs = 30000

// Load reads, resolves, and validates a configuration file.
// Supports YAML (.yaml, .yml) and TOML (.toml); the format is detected from
// the file extension. Any failure here is fatal: the process must not start
// with an invalid configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		// yaml.v3 rejects duplicate mapping keys, which is what makes a
		// duplicated client key a load-time error.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .toml)", ext)
	}

	if err := resolveSecrets(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// resolveSecrets substitutes environment variables into every secret
// template. A reference to an unset variable without a default fails the
// load: a gateway must never start with half-resolved credentials.
func resolveSecrets(cfg *Config) error {
	for id, template := range cfg.Secrets {
		value, err := expandSecret(template)
		if err != nil {
			return fmt.Errorf("secret %q: %w", id, err)
		}
		cfg.Secrets[id] = value
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	for key, client := range cfg.Clients {
		if client.TimeoutMs == 0 {
			client.TimeoutMs = defaultTimeoutMs
		}
		for i, m := range client.AllowedMethods {
			client.AllowedMethods[i] = strings.ToUpper(m)
		}
		cfg.Clients[key] = client
	}
}
