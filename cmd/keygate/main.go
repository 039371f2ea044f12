package main

import (
	"os"

	"github.com/spf13/cobra"

	checkcmder "github.com/keygateco/keygate/cmd/keygate/check"
	servecmder "github.com/keygateco/keygate/cmd/keygate/serve"
)

func main() {
	root := &cobra.Command{
		Use:   "keygate",
		Short: "Credential-substituting API gateway",
		Long: `keygate sits between low-privilege client keys and high-privilege
upstream credentials. Clients authenticate with an opaque key; keygate
enforces per-client method and path allowlists and injects the real
secret into authorized upstream calls. Clients never see upstream secrets.`,
		SilenceUsage: true,
	}

	root.AddCommand(servecmder.NewServeCmd())
	root.AddCommand(checkcmder.NewCheckCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
