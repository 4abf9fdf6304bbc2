package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType categorizes a configuration error.
type ErrorType string

const (
	ErrorTypeMissingField      ErrorType = "missing_field"      // Required field absent, no default
	ErrorTypeInvalidValue      ErrorType = "invalid_value"      // Enforcer rejected a value
	ErrorTypeTypeMismatch      ErrorType = "type_mismatch"      // Combination of different entity kinds
	ErrorTypeMalformedInstant  ErrorType = "malformed_instant"  // Unparseable timestamp/expires
	ErrorTypeForbiddenField    ErrorType = "forbidden_field"    // Write to a disabled field
	ErrorTypeUnknownDomain     ErrorType = "unknown_domain"     // Lookup of an absent domain
	ErrorTypeMalformedDocument ErrorType = "malformed_document" // Document text is not parseable
)

// Error is a configuration error.
type Error struct {
	Type    ErrorType // Category of error
	Field   string    // Offending field, if any
	Value   any       // Offending value, if any
	Message string    // Human-readable message
	Err     error     // Underlying cause (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given type.
func New(errType ErrorType, format string, args ...any) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// MissingField reports a required field that is absent and has no default.
func MissingField(field string) *Error {
	return &Error{
		Type:    ErrorTypeMissingField,
		Field:   field,
		Message: fmt.Sprintf("missing required field %q", field),
	}
}

// InvalidValue reports a value rejected by the field's enforcer.
func InvalidValue(field string, value any) *Error {
	return &Error{
		Type:    ErrorTypeInvalidValue,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("invalid field value %s: %v", field, value),
	}
}

// Forbidden reports a write to a field disabled on the entity variant.
func Forbidden(field, reason string) *Error {
	if reason == "" {
		reason = "field is not permitted"
	}
	return &Error{
		Type:    ErrorTypeForbiddenField,
		Field:   field,
		Message: fmt.Sprintf("%s: %s", field, reason),
	}
}

// Annotate wraps err with a prefix, keeping its category when err is an *Error.
// Errors of other kinds are reported as malformed documents.
func Annotate(err error, prefix string) *Error {
	var cfgErr *Error
	if stderrors.As(err, &cfgErr) {
		return &Error{
			Type:    cfgErr.Type,
			Field:   cfgErr.Field,
			Value:   cfgErr.Value,
			Message: prefix,
			Err:     cfgErr,
		}
	}
	return &Error{
		Type:    ErrorTypeMalformedDocument,
		Message: prefix,
		Err:     err,
	}
}

// IsType reports whether err, or any error it wraps, is an *Error of the
// given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		if cfgErr, ok := err.(*Error); ok && cfgErr.Type == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
