// Package policy decides whether a client key may perform a given request.
// The engine is a pure function over an immutable client map: it never
// mutates configuration and is safe for concurrent use.
package policy

import (
	"errors"

	"github.com/keygateco/keygate/pkg/config"
)

var (
	// ErrUnauthorized is returned when the client key is not configured
	ErrUnauthorized = errors.New("unknown client key")

	// ErrMethodNotAllowed is returned when the method is outside the client's allowlist
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrPathNotAllowed is returned when the path is outside the client's allowlist
	ErrPathNotAllowed = errors.New("path not allowed")
)

// Engine authorizes requests against configured client policies.
type Engine struct {
	clients map[string]config.ClientPolicy
}

// NewEngine creates an Engine over the given configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{clients: cfg.Clients}
}

// Authorize checks, in order: the client key is known, the method is
// allowed (case-insensitive), and the path is declared (exact match).
// The check order is fixed so an unauthenticated caller learns nothing
// about method or path validity beyond "unauthorized".
func (e *Engine) Authorize(clientKey, method, path string) (*config.ClientPolicy, error) {
	policy, ok := e.clients[clientKey]
	if !ok {
		return nil, ErrUnauthorized
	}

	if !policy.AllowsMethod(method) {
		return nil, ErrMethodNotAllowed
	}

	if !policy.AllowsPath(path) {
		return nil, ErrPathNotAllowed
	}

	return &policy, nil
}
