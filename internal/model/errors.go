// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

// =============================================================================
// ERROR KINDS
// =============================================================================

// ErrorKind tags an assistant message that represents a failed exchange.
// The set is closed: anything the gateway reports that is not listed here
// is folded into ErrAPI.
type ErrorKind string

const (
	ErrRateLimited  ErrorKind = "RATE_LIMITED"
	ErrUnauthorized ErrorKind = "UNAUTHORIZED"
	ErrNoAPIKey     ErrorKind = "NO_API_KEY"
	ErrEmptyMessage ErrorKind = "EMPTY_MESSAGE"
	ErrNetwork      ErrorKind = "NETWORK_ERROR"
	ErrTimeout      ErrorKind = "TIMEOUT"
	ErrAPI          ErrorKind = "API_ERROR"
	ErrConnection   ErrorKind = "CONNECTION_ERROR"
	ErrUnknown      ErrorKind = "UNKNOWN_ERROR"
)

// ParseErrorKind maps a wire error code onto the closed set.
// Empty codes become ErrUnknown, unrecognised ones ErrAPI.
func ParseErrorKind(code string) ErrorKind {
	switch k := ErrorKind(code); k {
	case ErrRateLimited, ErrUnauthorized, ErrNoAPIKey, ErrEmptyMessage,
		ErrNetwork, ErrTimeout, ErrAPI, ErrConnection, ErrUnknown:
		return k
	case "":
		return ErrUnknown
	default:
		return ErrAPI
	}
}

// IsCredential reports whether the kind means the API key is missing or rejected.
func (k ErrorKind) IsCredential() bool {
	return k == ErrUnauthorized || k == ErrNoAPIKey
}

// IsTransport reports whether the kind describes a connectivity problem.
func (k ErrorKind) IsTransport() bool {
	return k == ErrNetwork || k == ErrTimeout || k == ErrConnection
}

// =============================================================================
// API ERROR
// =============================================================================

// APIError is a structured failure reported by the gateway.
// Code keeps the raw wire code even when Kind folded it into ErrAPI.
type APIError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// NewAPIError builds an APIError from a wire code and message.
func NewAPIError(code, message string) *APIError {
	return &APIError{Kind: ParseErrorKind(code), Code: code, Message: message}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// =============================================================================
// DISPLAY TEXT
// =============================================================================

const (
	// RateLimitText replaces the server message for throttled requests.
	RateLimitText = "⏳ The AI service is temporarily overloaded. Please wait 30-60 seconds before trying again. You can also try asking a more specific question to reduce processing time."

	// GenericErrorText is shown when the server gave no usable message.
	GenericErrorText = "Sorry, I encountered an error. Please try again."

	// ConnectionErrorText is shown when the gateway could not be reached at all.
	ConnectionErrorText = "Sorry, I'm having trouble connecting. Please check your connection and try again."

	// MissingKeyText instructs the user to configure credentials.
	MissingKeyText = "Please set your API key in the settings to use the assistant."

	// InvalidKeyText is shown when the server rejected the credentials.
	InvalidKeyText = "API key is invalid or missing. Please set your API key in the settings."
)

// DisplayText returns the user-facing text for a failed exchange.
// Rate limiting and credential failures get fixed messages; everything
// else uses the server message, falling back to a generic one.
func DisplayText(err *APIError) string {
	if err == nil {
		return GenericErrorText
	}
	switch err.Kind {
	case ErrRateLimited:
		return RateLimitText
	case ErrNoAPIKey:
		return MissingKeyText
	case ErrUnauthorized:
		return InvalidKeyText
	}
	if err.Message != "" {
		return err.Message
	}
	return GenericErrorText
}
