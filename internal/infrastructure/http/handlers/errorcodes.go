package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeAlreadyRegistered  = "already_registered"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeInvalidResetToken  = "invalid_reset_token"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeUnavailable        = "store_unavailable"
	ErrCodeInternal           = "internal_error"
)
