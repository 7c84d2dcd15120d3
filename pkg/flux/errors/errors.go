// Package errors provides structured error types for the Flux language.
//
// This package defines FluxError, a unified error type that can represent
// both parser and runtime errors with position metadata for display and
// programmatic handling.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassLex    ErrorClass = "lex"    // Malformed tokens
	ClassParse  ErrorClass = "parse"  // Malformed grammar
	ClassName   ErrorClass = "name"   // Identifier not bound when read
	ClassType   ErrorClass = "type"   // Operator/condition/call type mismatches
	ClassIndex  ErrorClass = "index"  // Out of bounds, absent dict key
	ClassValue  ErrorClass = "value"  // Invalid value (e.g. int() on non-numeric text)
	ClassImport ErrorClass = "import" // Module loading
)

// FluxError represents any error from lexing, parsing, or evaluation.
type FluxError struct {
	Class   ErrorClass `json:"class"`          // Error category
	Message string     `json:"message"`        // Human-readable message
	Line    int        `json:"line"`           // 1-based line (0 if unknown)
	Column  int        `json:"column"`         // 1-based column (0 if unknown)
	File    string     `json:"file,omitempty"` // File path (if known)
}

// New creates a FluxError without position information.
func New(class ErrorClass, format string, a ...any) *FluxError {
	return &FluxError{
		Class:   class,
		Message: fmt.Sprintf(format, a...),
	}
}

// NewWithPosition creates a FluxError carrying a source position.
func NewWithPosition(class ErrorClass, line, column int, format string, a ...any) *FluxError {
	return &FluxError{
		Class:   class,
		Message: fmt.Sprintf(format, a...),
		Line:    line,
		Column:  column,
	}
}

// Error implements the error interface.
func (e *FluxError) Error() string {
	return e.String()
}

// String returns a formatted single-line representation of the error.
func (e *FluxError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}
	sb.WriteString(string(e.Class))
	sb.WriteString(" error: ")
	sb.WriteString(e.Message)

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *FluxError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassLex:
		sb.WriteString("Lex error")
	case ClassParse:
		sb.WriteString("Parser error")
	default:
		sb.WriteString("Runtime error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *FluxError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *FluxError) WithFile(file string) *FluxError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *FluxError) WithPosition(line, column int) *FluxError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsParseError returns true if this is a lexer or parser error.
func (e *FluxError) IsParseError() bool {
	return e.Class == ClassLex || e.Class == ClassParse
}

// IsRuntimeError returns true if this error was raised during evaluation.
func (e *FluxError) IsRuntimeError() bool {
	return !e.IsParseError()
}
