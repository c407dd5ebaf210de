// Package errors defines common errors for the commit gate pipeline
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrChecksFailed is returned when one or more checks reject the staged changes
	ErrChecksFailed = errors.New("checks failed")

	// ErrNoStagedFiles is returned when the staging area holds nothing to verify
	ErrNoStagedFiles = errors.New("no staged files")

	// ErrRepositoryRootNotFound is returned when the git repository root cannot be determined
	ErrRepositoryRootNotFound = errors.New("unable to determine repository root")

	// ErrStagingAreaUnreadable is returned when the staged file set cannot be captured
	ErrStagingAreaUnreadable = errors.New("unable to read the staging area")

	// ErrToolNotFound is returned when a required external tool is not available
	ErrToolNotFound = errors.New("required tool not found")

	// ErrToolVersion is returned when a tool is present but below the accepted version
	ErrToolVersion = errors.New("tool version not accepted")

	// ErrConflictMarkers is returned when staged changes contain merge conflict markers
	ErrConflictMarkers = errors.New("merge conflict markers found")

	// ErrStyleIssues is returned when staged sources deviate from the formatting style
	ErrStyleIssues = errors.New("style conformance issues found")

	// ErrShellSyntax is returned when a maintained script fails to parse
	ErrShellSyntax = errors.New("shell syntax error")

	// ErrDictionaryOrder is returned when the personal dictionary is unsorted or has duplicates
	ErrDictionaryOrder = errors.New("dictionary is not sorted or contains duplicates")

	// ErrBinaryFiles is returned when binary content is staged
	ErrBinaryFiles = errors.New("binary files staged")

	// ErrNonASCIIPath is returned when a path contains non-ASCII bytes
	ErrNonASCIIPath = errors.New("non-ASCII characters in path")

	// ErrProtectedFileModified is returned when a checksum-protected file was altered
	ErrProtectedFileModified = errors.New("protected file modified")

	// ErrDangerousFunctions is returned when staged sources call deny-listed functions
	ErrDangerousFunctions = errors.New("dangerous function calls found")

	// ErrFormatStringIssues is returned when the format-string scanner rejects staged sources
	ErrFormatStringIssues = errors.New("format string issues found")

	// ErrAnalysisIssues is returned when static analysis reports diagnostics
	ErrAnalysisIssues = errors.New("static analysis issues found")

	// ErrStageExecution is returned when an external tool crashed rather than reporting findings
	ErrStageExecution = errors.New("stage execution failed")
)

// EnvironmentError reports a missing or unusable external tool or resource.
// It is always fatal: the pipeline aborts before any stage runs its core logic.
type EnvironmentError struct {
	// Resource names the missing or unusable tool/resource
	Resource string

	// Reason explains what is wrong with it
	Reason string

	// Hint is an actionable remediation step
	Hint string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface
func (e *EnvironmentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
	}
	return e.Resource
}

// Unwrap implements the error unwrapping interface
func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// NewEnvironmentError creates an EnvironmentError for a resource
func NewEnvironmentError(resource, reason, hint string) *EnvironmentError {
	return &EnvironmentError{
		Resource: resource,
		Reason:   reason,
		Hint:     hint,
		Err:      ErrToolNotFound,
	}
}

// CheckError represents a stage failure with context and a remediation suggestion
type CheckError struct {
	// Base error
	Err error

	// Human-readable message explaining what went wrong
	Message string

	// Actionable suggestion for how to fix the issue
	Suggestion string

	// Command that produced the failure (if applicable)
	Command string

	// Raw output from the failed command
	Output string

	// Files that triggered the failure
	Files []string
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements the error unwrapping interface
func (e *CheckError) Unwrap() error {
	return e.Err
}

// Is implements the error checking interface
func (e *CheckError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewCheckError creates a new CheckError
func NewCheckError(err error, message, suggestion string) *CheckError {
	return &CheckError{
		Err:        err,
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewStageExecutionError creates an error for a tool that crashed mid-stage
func NewStageExecutionError(command, output, suggestion string) *CheckError {
	return &CheckError{
		Err:        ErrStageExecution,
		Message:    fmt.Sprintf("command failed: %s", command),
		Suggestion: suggestion,
		Command:    command,
		Output:     output,
	}
}
