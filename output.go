package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The script failed to evaluate
	ExitCommandError = 2 // Command error (unreadable file, bad preferences, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode extracts the exit code from an error. Errors that are not an
// ExitError are command errors: cobra returns them for bad flags and
// arguments.
func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// formatter handles JSON vs text output for CLI commands.
type formatter struct {
	format string
	w      io.Writer
}

// response is the JSON envelope every command writes.
type response struct {
	Status string `json:"status"` // "ok" or "error"
	Data   any    `json:"data,omitempty"`
}

// write outputs data. Text output is produced by text, which is only
// called for the text format.
func (f *formatter) write(ok bool, data any, text func(io.Writer)) error {
	if f.format == "json" {
		status := "ok"
		if !ok {
			status = "error"
		}
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		return enc.Encode(response{Status: status, Data: data})
	}
	text(f.w)
	return nil
}
