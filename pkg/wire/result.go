package wire

import "net/http"

// UpstreamResult mirrors whatever the upstream returned, good or bad.
// The gateway never rewrites upstream status codes or bodies.
type UpstreamResult struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
