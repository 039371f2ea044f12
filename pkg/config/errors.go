package config

import "errors"

var (
	// ErrConfigFileNotFound is returned when the config file does not exist
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrNoClients is returned when the configuration declares no clients
	ErrNoClients = errors.New("at least one client must be configured")

	// ErrMissingBaseURL is returned when a target has no baseUrl
	ErrMissingBaseURL = errors.New("target baseUrl is required")

	// ErrUnknownTarget is returned when a client references a target id that is not declared
	ErrUnknownTarget = errors.New("unknown target")

	// ErrUnknownSecret is returned when a client references a secret id that is not declared
	ErrUnknownSecret = errors.New("unknown secret")

	// ErrNoAllowedMethods is returned when a client declares an empty method allowlist
	ErrNoAllowedMethods = errors.New("allowedMethods must not be empty")

	// ErrInvalidTimeout is returned when a client timeout is zero or negative
	ErrInvalidTimeout = errors.New("timeoutMs must be a positive duration")

	// ErrMissingEnvVar is returned when a secret template references an unset
	// environment variable with no default
	ErrMissingEnvVar = errors.New("environment variable not set")
)
