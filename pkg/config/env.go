package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR} or ${VAR:-default}
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandSecret resolves environment variable references in a secret template.
//
// Supported formats:
//   - ${VAR}          - the value of VAR; an error if VAR is not set
//   - ${VAR:-default} - the value of VAR, or "default" if VAR is not set or empty
//
// Secrets are fully materialized here, once, at load time. The environment
// is never consulted again after Load returns.
func expandSecret(template string) (string, error) {
	var missing []string

	expanded := envVarPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		hasDefault := len(parts) >= 4 && parts[2] != ""

		value, exists := os.LookupEnv(varName)
		if exists && value != "" {
			return value
		}

		if hasDefault {
			return parts[3]
		}

		missing = append(missing, varName)
		return ""
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingEnvVar, strings.Join(missing, ", "))
	}

	return expanded, nil
}
