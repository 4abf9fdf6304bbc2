package errors

import (
	"fmt"
	"strings"
)

// ErrorList collects errors from several sources, each tagged with the
// document it came from.
type ErrorList struct {
	Errors []SourceError
}

// SourceError is an error attributed to a source (usually a file path).
type SourceError struct {
	Source string
	Err    error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]SourceError, 0),
	}
}

// Add appends an error for source. Nil errors are ignored.
func (el *ErrorList) Add(source string, err error) {
	if err == nil {
		return
	}
	el.Errors = append(el.Errors, SourceError{Source: source, Err: err})
}

// HasErrors returns true if the list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d error(s):\n", el.Count()))
	for _, e := range el.Errors {
		sb.WriteString(fmt.Sprintf("  %s: %v\n", e.Source, e.Err))
	}
	return sb.String()
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// HasErrorType returns true if any collected error has the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, e := range el.Errors {
		if IsType(e.Err, errType) {
			return true
		}
	}
	return false
}
