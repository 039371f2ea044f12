package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/keygateco/keygate/pkg/config"
	"github.com/keygateco/keygate/pkg/wire"
)

var (
	// ErrUpstreamUnavailable is returned when the upstream could not be
	// reached (connection refused, DNS failure, reset)
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamTimeout is returned when the policy deadline elapsed before
	// the upstream round trip completed
	ErrUpstreamTimeout = errors.New("upstream timeout")
)

// blockedHeaders are client-supplied headers that never reach the upstream.
// The gateway alone injects credentials.
var blockedHeaders = map[string]struct{}{
	"authorization":  {},
	"x-api-key":      {},
	"x-rapidapi-key": {},
}

// forward builds the outbound upstream request from an authorized policy and
// dispatches it. Exactly one attempt is made; retrying is the caller's
// problem, and the caller doesn't retry either.
func (g *Gateway) forward(ctx context.Context, matched *config.ClientPolicy, req *wire.ProxyRequest) (*wire.UpstreamResult, error) {
	target := g.config.Targets[matched.Target]

	upstreamURL, err := buildUpstreamURL(target.BaseURL, req.Path, req.Query)
	if err != nil {
		return nil, fmt.Errorf("building upstream URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, matched.Timeout())
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), upstreamURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}
	httpReq.Header = g.upstreamHeaders(target, matched, req)

	start := time.Now()
	g.logger.Debug("forwarding request to upstream",
		zap.String("url", upstreamURL),
		zap.String("method", httpReq.Method),
		zap.Duration("timeout", matched.Timeout()),
	)

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		// The deadline can also fire mid-body.
		return nil, classifyTransportError(err)
	}

	g.logger.Debug("received upstream response",
		zap.Int("status", httpResp.StatusCode),
		zap.Int("body_size", len(respBody)),
		zap.Duration("duration", time.Since(start)),
	)

	return &wire.UpstreamResult{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
		Body:       respBody,
	}, nil
}

// upstreamHeaders merges headers in precedence order, lowest to highest:
// target defaults, client pass-through (minus blocked credential headers),
// injected secrets, then a forced Content-Type when a body is present.
func (g *Gateway) upstreamHeaders(target config.TargetConfig, matched *config.ClientPolicy, req *wire.ProxyRequest) http.Header {
	headers := make(http.Header)

	for key, value := range target.DefaultHeaders {
		headers.Set(key, value)
	}

	for key, value := range req.Headers {
		if _, blocked := blockedHeaders[strings.ToLower(key)]; blocked {
			continue
		}
		headers.Set(key, value)
	}

	if ref := matched.AuthHeaderRef; ref != "" {
		headers.Set("Authorization", g.config.Secrets[ref])
	}
	if ref := matched.RapidAPIKeyRef; ref != "" {
		headers.Set("X-RapidAPI-Key", g.config.Secrets[ref])
	}

	if len(req.Body) > 0 {
		headers.Set("Content-Type", "application/json")
	}

	return headers
}

// buildUpstreamURL joins the target base URL with the declared path and
// encodes any query parameters.
func buildUpstreamURL(baseURL, path string, query map[string]string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		q := u.Query()
		for key, value := range query {
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// classifyTransportError maps a transport failure to the gateway's two
// dispatch-time failure kinds so the edge layer can answer 502 vs 504.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
