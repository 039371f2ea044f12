package checkcmder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keygateco/keygate/pkg/config"
)

const checkLongDesc string = `Validate a keygate configuration file.

Loads the file exactly as serve would: secret templates are resolved
against the current environment, references are checked, and per-client
invariants are enforced. Secret values are never printed.

Examples:
  keygate check
  keygate check --config /etc/keygate/config.yaml`

const checkShortDesc string = "Validate a configuration file"

type checkCommander struct {
	configPath string
}

func NewCheckCmd() *cobra.Command {
	cmder := &checkCommander{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: checkShortDesc,
		Long:  checkLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "config.yaml", "Path to the configuration file")

	return cmd
}

func (c *checkCommander) run(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration OK: %d target(s), %d secret(s), %d client(s)\n",
		len(cfg.Targets), len(cfg.Secrets), len(cfg.Clients))

	for _, id := range sortedKeys(cfg.Targets) {
		fmt.Fprintf(out, "  target %-20s %s\n", id, cfg.Targets[id].BaseURL)
	}

	for _, key := range sortedKeys(cfg.Clients) {
		client := cfg.Clients[key]
		fmt.Fprintf(out, "  client %-20s -> %s methods=%s paths=%d timeout=%s\n",
			key,
			client.Target,
			strings.Join(client.AllowedMethods, ","),
			len(client.AllowedPaths),
			client.Timeout(),
		)
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
