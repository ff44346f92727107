package lightbridge

import "errors"

// Predefined error types for robust error handling
var (
	// Client command errors
	ErrParse = errors.New("malformed command")

	// Device exchange errors
	ErrResponseTimeout = errors.New("timeout waiting for device response")
	ErrEchoMismatch    = errors.New("unexpected device echo")
	ErrLinkClosed      = errors.New("device link is closed")
	ErrNotConnected    = errors.New("device transport is not open")

	// Lifecycle errors
	ErrExecutorStopped = errors.New("command executor is not running")
	ErrInvalidConfig   = errors.New("invalid bridge configuration")
)
