package schema

import (
	"fmt"

	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
)

// Check validates obj against s, injecting defaults into obj.
//
// ctx is the enclosing document used by reference enforcers; when nil, obj is
// its own context. With strict set, the first violation is returned as an
// *errors.Error. Otherwise Check returns false and a nil error on violation.
func Check(obj map[string]any, s *Schema, ctx map[string]any, strict bool) (bool, error) {
	fail := func(err *policyErrors.Error) (bool, error) {
		if strict {
			return false, err
		}
		return false, nil
	}

	if obj == nil {
		return fail(policyErrors.InvalidValue(s.name, nil))
	}
	if ctx == nil {
		ctx = obj
	}

	for _, f := range s.fields {
		value, present := obj[f.Name]
		if !present {
			switch {
			case f.HasDefault:
				obj[f.Name] = Clone(f.Default)
			case f.Required:
				return fail(policyErrors.MissingField(f.Name))
			}
			continue
		}

		if err := f.Enforce.Validate(value, ctx); err != nil {
			return fail(FieldError(f, value, err))
		}
	}

	return true, nil
}

// FieldError converts an enforcer failure for value into a configuration
// error. A forbidden field is reported as such rather than as an invalid value.
func FieldError(f Field, value any, cause error) *policyErrors.Error {
	if f.Enforce.Kind() == KindForbidden {
		return policyErrors.Forbidden(f.Name, f.Enforce.Reason())
	}
	return &policyErrors.Error{
		Type:    policyErrors.ErrorTypeInvalidValue,
		Field:   f.Name,
		Value:   value,
		Message: fmt.Sprintf("invalid field value for %q", f.Name),
		Err:     cause,
	}
}
