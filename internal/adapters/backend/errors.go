package backend

import "errors"

// Sentinel kinds for backend client errors.
var (
	ErrUnauthorized      = errors.New("backend: unauthorized")
	ErrNotFound          = errors.New("backend: not found")
	ErrServer            = errors.New("backend: server error")
	ErrUnexpectedStatus  = errors.New("backend: unexpected status")
	ErrTransport         = errors.New("backend: transport failure")
	ErrDecode            = errors.New("backend: malformed response")
	ErrInvalidBaseURL    = errors.New("backend: invalid base url")
	ErrMissingCredential = errors.New("backend: login and password are required")
)
