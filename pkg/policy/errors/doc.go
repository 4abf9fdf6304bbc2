// Package errors defines the configuration error used throughout the policy
// packages.
//
// There is a single error type, *Error, carrying a human-readable message.
// Callers that need to distinguish causes inspect its Type:
//
//	ErrorTypeMissingField:      a required field is absent and has no default
//	ErrorTypeInvalidValue:      an enforcer rejected a present value
//	ErrorTypeTypeMismatch:      update/merge called with a different entity kind
//	ErrorTypeMalformedInstant:  a timestamp is neither epoch seconds nor date text
//	ErrorTypeForbiddenField:    a field disabled on this entity variant was written
//	ErrorTypeUnknownDomain:     a policy lookup named a domain that is not present
//	ErrorTypeMalformedDocument: the document text could not be parsed at all
//
// Basic usage:
//
//	if err := cfg.Set("author", 0); err != nil {
//	    if errors.IsType(err, errors.ErrorTypeInvalidValue) {
//	        // ...
//	    }
//	}
//
// ErrorList accumulates errors from several documents so that commands can
// report every failure at once instead of stopping at the first file.
package errors
