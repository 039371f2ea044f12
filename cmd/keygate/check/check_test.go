package checkcmder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keygateco/keygate/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCheck(t *testing.T, configPath string) (string, error) {
	t.Helper()

	cmd := NewCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", configPath})

	err := cmd.Execute()
	return out.String(), err
}

func TestCheckValidConfig(t *testing.T) {
	t.Setenv("OPENROUTER_KEY_RK1", "sk-live-xyz")
	path := writeConfig(t, `
targets:
  openrouter:
    baseUrl: https://openrouter.ai/api/v1
secrets:
  or_rk1: "Bearer ${OPENROUTER_KEY_RK1}"
clients:
  rk-robot-1:
    target: openrouter
    authHeaderRef: or_rk1
    allowedMethods: [POST]
    allowedPaths: ["/chat/completions"]
    timeoutMs: 60000
`)

	out, err := runCheck(t, path)
	require.NoError(t, err)

	assert.Contains(t, out, "Configuration OK: 1 target(s), 1 secret(s), 1 client(s)")
	assert.Contains(t, out, "openrouter")
	assert.Contains(t, out, "rk-robot-1")
	assert.NotContains(t, out, "sk-live-xyz", "secret values are never printed")
}

func TestCheckInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
targets:
  openrouter:
    baseUrl: https://openrouter.ai/api/v1
clients:
  rk-robot-1:
    target: missing
    allowedMethods: [POST]
`)

	_, err := runCheck(t, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownTarget)
}

func TestCheckMissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
targets:
  openrouter:
    baseUrl: https://openrouter.ai/api/v1
secrets:
  or_rk1: "Bearer ${KEYGATE_CHECK_UNSET_VAR}"
clients:
  rk-robot-1:
    target: openrouter
    authHeaderRef: or_rk1
    allowedMethods: [POST]
`)

	_, err := runCheck(t, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingEnvVar)
}
