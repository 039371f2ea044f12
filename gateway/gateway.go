// Package gateway implements the credential-substituting proxy. Clients hold
// low-privilege keys; the gateway authenticates them, enforces per-client
// method/path allowlists, and forwards authorized requests upstream with the
// real secret injected. Clients never see upstream credentials.
package gateway

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/keygateco/keygate/pkg/config"
	"github.com/keygateco/keygate/pkg/policy"
	"github.com/keygateco/keygate/pkg/wire"
)

// Gateway is the proxy server. It owns no mutable state beyond the shared
// read-only configuration, so independent requests can be handled
// concurrently without synchronization.
type Gateway struct {
	config     *config.Config
	engine     *policy.Engine
	logger     *zap.Logger
	httpClient *http.Client
	server     *fiber.App
}

// New creates a new Gateway over a loaded configuration.
func New(cfg *config.Config, logger *zap.Logger) *Gateway {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	g := &Gateway{
		config: cfg,
		engine: policy.NewEngine(cfg),
		logger: logger,
		server: app,
		// Upstream deadlines come from each policy's timeout via request
		// contexts, not from a client-wide timeout.
		httpClient: &http.Client{},
	}

	// Register routes
	app.Post("/proxy", g.handleProxy)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return g
}

// Run starts the gateway server on the given listening address.
func (g *Gateway) Run(listenAddr string) error {
	g.logger.Info("starting gateway server",
		zap.String("listen", listenAddr),
		zap.Int("targets", len(g.config.Targets)),
		zap.Int("clients", len(g.config.Clients)),
	)

	return g.server.Listen(listenAddr)
}

// Shutdown gracefully stops the gateway server.
func (g *Gateway) Shutdown() error {
	return g.server.Shutdown()
}

// Handle runs the proxy decision pipeline for one request: authorize the
// client key, then dispatch upstream. Denials return before any network I/O
// is attempted, and exactly one upstream attempt is made per authorized call.
func (g *Gateway) Handle(ctx context.Context, req *wire.ProxyRequest) (*wire.UpstreamResult, error) {
	matched, err := g.engine.Authorize(req.ClientKey, req.Method, req.Path)
	if err != nil {
		return nil, err
	}

	return g.forward(ctx, matched, req)
}
