// Package config loads and resolves the keygate configuration: upstream
// targets, server-held secrets, and per-client access policies. A Config is
// built exactly once at startup and is read-only afterwards; secret
// templates are already substituted by the time Load returns.
package config

import (
	"fmt"
	"strings"
	"time"
)

// TargetConfig describes an upstream API the gateway can forward to.
type TargetConfig struct {
	// BaseURL is the absolute URL prefix of the upstream (e.g.
	// "https://openrouter.ai/api/v1").
	BaseURL string `yaml:"baseUrl" toml:"baseUrl"`

	// DefaultHeaders are applied to every request routed to this target.
	// They sit at the bottom of the header precedence order and can be
	// overridden by client pass-through headers and injected secrets.
	DefaultHeaders map[string]string `yaml:"defaultHeaders" toml:"defaultHeaders"`
}

// ClientPolicy is the access policy bound to a single client key.
type ClientPolicy struct {
	// Target names the TargetConfig this client is routed to.
	Target string `yaml:"target" toml:"target"`

	// AuthHeaderRef names the secret injected as the Authorization header
	// (OpenRouter/OpenAI style). Optional.
	AuthHeaderRef string `yaml:"authHeaderRef" toml:"authHeaderRef"`

	// RapidAPIKeyRef names the secret injected as X-RapidAPI-Key. Optional.
	RapidAPIKeyRef string `yaml:"rapidApiKeyRef" toml:"rapidApiKeyRef"`

	// AllowedMethods is the HTTP method allowlist. Must be non-empty.
	// Methods are uppercased at load time.
	AllowedMethods []string `yaml:"allowedMethods" toml:"allowedMethods"`

	// AllowedPaths is the request path allowlist, matched exactly.
	AllowedPaths []string `yaml:"allowedPaths" toml:"allowedPaths"`

	// TimeoutMs bounds the full upstream round trip, in milliseconds.
	TimeoutMs int `yaml:"timeoutMs" toml:"timeoutMs"`
}

// Timeout returns the upstream deadline as a time.Duration.
func (p ClientPolicy) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

// AllowsMethod reports whether method is in the allowlist. Comparison is
// case-insensitive.
func (p ClientPolicy) AllowsMethod(method string) bool {
	for _, m := range p.AllowedMethods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// AllowsPath reports whether path exactly matches a declared allowed path.
// No prefix or pattern semantics.
func (p ClientPolicy) AllowsPath(path string) bool {
	for _, allowed := range p.AllowedPaths {
		if allowed == path {
			return true
		}
	}
	return false
}

// Config is the fully resolved gateway configuration.
type Config struct {
	Targets map[string]TargetConfig `yaml:"targets" toml:"targets"`
	Secrets map[string]string       `yaml:"secrets" toml:"secrets"`
	Clients map[string]ClientPolicy `yaml:"clients" toml:"clients"`
}

// Validate checks referential integrity and per-client invariants.
// A Config that fails validation must never reach the serving process.
func (c *Config) Validate() error {
	if len(c.Clients) == 0 {
		return ErrNoClients
	}

	for id, target := range c.Targets {
		if target.BaseURL == "" {
			return fmt.Errorf("target %q: %w", id, ErrMissingBaseURL)
		}
	}

	for key, client := range c.Clients {
		if _, ok := c.Targets[client.Target]; !ok {
			return fmt.Errorf("client %q references target %q: %w", key, client.Target, ErrUnknownTarget)
		}
		if ref := client.AuthHeaderRef; ref != "" {
			if _, ok := c.Secrets[ref]; !ok {
				return fmt.Errorf("client %q references secret %q: %w", key, ref, ErrUnknownSecret)
			}
		}
		if ref := client.RapidAPIKeyRef; ref != "" {
			if _, ok := c.Secrets[ref]; !ok {
				return fmt.Errorf("client %q references secret %q: %w", key, ref, ErrUnknownSecret)
			}
		}
		if len(client.AllowedMethods) == 0 {
			return fmt.Errorf("client %q: %w", key, ErrNoAllowedMethods)
		}
		if client.TimeoutMs <= 0 {
			return fmt.Errorf("client %q: %w", key, ErrInvalidTimeout)
		}
	}

	return nil
}
