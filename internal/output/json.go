package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Version is stamped into every envelope. cmd/servicebook copies its
// -ldflags build version here before any command runs.
var Version = "dev"

// Response is the JSON envelope of every --json command output
type Response struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	Warnings  []string `json:"warnings,omitempty"` // non-fatal diagnostics
	Timestamp string   `json:"timestamp"`          // RFC3339 format
	Version   string   `json:"version"`
}

// SuccessResponse creates a successful response with data and any warnings
func SuccessResponse(data any, warnings ...string) Response {
	return Response{
		Success:   true,
		Data:      data,
		Warnings:  warnings,
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   Version,
	}
}

// ErrorResponse creates an error response
func ErrorResponse(err error) Response {
	return ErrorMessageResponse(err.Error())
}

// ErrorMessageResponse creates an error response from a string message
func ErrorMessageResponse(message string) Response {
	return Response{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   Version,
	}
}

// WriteJSON writes a Response as indented JSON to the given writer
func WriteJSON(w io.Writer, response Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteJSONData wraps data in a success response and writes it
func WriteJSONData(w io.Writer, data any, warnings ...string) error {
	return WriteJSON(w, SuccessResponse(data, warnings...))
}

// WriteJSONError wraps an error in a response and writes it
func WriteJSONError(w io.Writer, err error) error {
	return WriteJSON(w, ErrorResponse(err))
}
