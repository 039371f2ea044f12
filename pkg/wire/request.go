// Package wire holds the transient request and response shapes that cross
// the gateway boundary on every call. Nothing here outlives a single request.
package wire

import "encoding/json"

// ProxyRequest is a single inbound call from a client.
type ProxyRequest struct {
	// ClientKey is the opaque bearer credential, extracted by the edge
	// layer from "Authorization: Bearer <key>". Never part of the JSON body.
	ClientKey string `json:"-"`

	Method string `json:"method"`
	Path   string `json:"path"`

	// Query parameters appended to the upstream URL.
	Query map[string]string `json:"query,omitempty"`

	// Headers are client-supplied pass-through headers. Credential headers
	// are stripped before forwarding; the gateway alone injects secrets.
	Headers map[string]string `json:"headers,omitempty"`

	// Body is an opaque JSON value forwarded verbatim.
	Body json.RawMessage `json:"body,omitempty"`
}
