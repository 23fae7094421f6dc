// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output support for scripting.
package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/warlock-tui/internal/model"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// AskData is the payload of the ask command.
type AskData struct {
	Game       string            `json:"game"`
	Question   string            `json:"question"`
	Answer     string            `json:"answer,omitempty"`
	Error      model.ErrorKind   `json:"error_kind,omitempty"`
	References []model.Reference `json:"references,omitempty"`
	MessageID  string            `json:"message_id"`
}

// HistoryEntry summarizes one game's stored history.
type HistoryEntry struct {
	Game     string    `json:"game"`
	Messages int       `json:"messages"`
	Last     time.Time `json:"last_message,omitempty"`
	Preview  string    `json:"preview,omitempty"`
}

// GameEntry is one catalog line of the games command.
type GameEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	Selected    bool   `json:"selected"`
}
