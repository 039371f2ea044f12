package gateway

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/keygateco/keygate/pkg/policy"
	"github.com/keygateco/keygate/pkg/wire"
)

// handleProxy is the edge of the proxy pipeline. It extracts the bearer key,
// parses the structured body, and maps Handle's typed outcomes to HTTP
// statuses. Successful upstream responses pass through verbatim.
func (g *Gateway) handleProxy(c *fiber.Ctx) error {
	clientKey := bearerKey(c.Get(fiber.HeaderAuthorization))
	if clientKey == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(wire.ErrorResponse{Error: "missing_client_key"})
	}

	var req wire.ProxyRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		g.logger.Debug("failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(wire.ErrorResponse{Error: "invalid_json"})
	}

	req.ClientKey = clientKey
	req.Path = strings.TrimSpace(req.Path)
	if req.Method == "" {
		req.Method = fiber.MethodGet
	}

	if !strings.HasPrefix(req.Path, "/") {
		return c.Status(fiber.StatusBadRequest).JSON(wire.ErrorResponse{Error: "path_must_start_with_slash"})
	}

	result, err := g.Handle(c.Context(), &req)
	if err != nil {
		status, detail := mapOutcome(err)
		g.logger.Warn("proxy request denied or failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status", status),
			zap.String("detail", detail),
		)
		return c.Status(status).JSON(wire.ErrorResponse{Error: detail})
	}

	g.logger.Info("proxied request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("upstream_status", result.StatusCode),
	)

	if contentType := result.Header.Get(fiber.HeaderContentType); contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	return c.Status(result.StatusCode).Send(result.Body)
}

// bearerKey extracts the client key from "Authorization: Bearer <key>".
// Returns "" when the scheme is absent or not Bearer.
func bearerKey(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// mapOutcome translates the pipeline's typed failures into an HTTP status
// and a stable error detail string. Method and path denials share 403 so
// policy shape isn't leaked, but the detail stays distinguishable.
func mapOutcome(err error) (int, string) {
	switch {
	case errors.Is(err, policy.ErrUnauthorized):
		return fiber.StatusUnauthorized, "invalid_client_key"
	case errors.Is(err, policy.ErrMethodNotAllowed):
		return fiber.StatusForbidden, "method_not_allowed"
	case errors.Is(err, policy.ErrPathNotAllowed):
		return fiber.StatusForbidden, "path_not_allowed"
	case errors.Is(err, ErrUpstreamTimeout):
		return fiber.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, ErrUpstreamUnavailable):
		return fiber.StatusBadGateway, "upstream_unavailable"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}
