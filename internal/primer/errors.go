package primer

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when the sequence name isn't in the reference.
type NotFoundError struct {
	Name string

	// Available is up to the first MaxNamesListed names in the reference
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("chromosome '%s' not found. Available: %s", e.Name, strings.Join(e.Available, ", "))
}

// OutOfBoundsError is returned when a position falls outside its sequence.
type OutOfBoundsError struct {
	Name     string
	Position int
	Length   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position %d is out of bounds for %s (length %d)", e.Position, e.Name, e.Length)
}

// ExternalToolError is returned when primer3 can't be started or exits non-zero.
// Both of its output streams are kept as they were written.
type ExternalToolError struct {
	Path string

	// ExitCode is -1 if the process never ran or was killed by a signal
	ExitCode int

	Stdout string
	Stderr string

	Err error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s failed (exit status %d): %v\nSTDERR:\n%s\nSTDOUT:\n%s", e.Path, e.ExitCode, e.Err, e.Stderr, e.Stdout)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when primer3's output lacks a primer, ie: it
// didn't find a pair in the allowed regions.
type MissingFieldError struct {
	Field string

	// Detail is primer3's own explanation, if it gave one
	Detail string
}

func (e *MissingFieldError) Error() string {
	msg := fmt.Sprintf("primer3 returned no %s", e.Field)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
