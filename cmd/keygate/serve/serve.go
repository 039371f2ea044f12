package servecmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keygateco/keygate/gateway"
	"github.com/keygateco/keygate/pkg/config"
	"github.com/keygateco/keygate/pkg/logger"
)

const serveLongDesc string = `Run the keygate proxy server.

Loads the configuration file, resolves secret templates from the
environment, and serves POST /proxy. The process refuses to start on any
configuration error.

Examples:
  keygate serve
  keygate serve --config /etc/keygate/config.yaml --listen :9090 --debug`

const serveShortDesc string = "Run the keygate proxy server"

type serveCommander struct {
	configPath string
	listenAddr string
	debug      bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "config.yaml", "Path to the configuration file")
	cmd.Flags().StringVarP(&cmder.listenAddr, "listen", "l", ":8080", "Address to listen on")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run() error {
	log := logger.New(c.debug)
	defer log.Sync()

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	log.Info("keygate starting",
		zap.String("listen", c.listenAddr),
		zap.String("config", c.configPath),
		zap.Int("targets", len(cfg.Targets)),
		zap.Int("clients", len(cfg.Clients)),
		zap.Bool("debug", c.debug),
	)

	g := gateway.New(cfg, log)
	return g.Run(c.listenAddr)
}
