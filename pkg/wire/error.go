package wire

// ErrorResponse is the JSON error body returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}
