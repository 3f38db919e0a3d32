// Copyright (c) 2026 Pagebound. All rights reserved.

// Package validate implements the chainable input validator used by the
// service layer. Rules accumulate field errors; Err collapses them into
// a single VALIDATION_ERROR response carrying every failure at once.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/pagebound/bookclub/internal/platform/apperr"
)

var (
	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

	// ErrInvalidID is returned when a numeric parameter cannot be parsed.
	ErrInvalidID = apperr.ValidationError("Invalid numeric identifier")
)

// Validator accumulates field errors through a fluent rule chain. Not
// safe for concurrent use; build one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// check records a failure when failed is true. All rules funnel here.
func (v *Validator) check(failed bool, field, message string) *Validator {
	if failed {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required fails on empty or whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) == "", field, "This field is required")
}

// MaxLen fails when the rune count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(utf8.RuneCountInString(value) > max, field,
		fmt.Sprintf("Maximum %d characters", max))
}

// MinLen fails when the rune count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(utf8.RuneCountInString(value) < min, field,
		fmt.Sprintf("Minimum %d characters", min))
}

// Range fails outside the inclusive [min, max] interval.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(value < min || value > max, field,
		fmt.Sprintf("Must be between %d and %d", min, max))
}

// Positive fails on zero or negative values. Used for identifiers.
func (v *Validator) Positive(field string, value int) *Validator {
	return v.check(value <= 0, field, "Must be a positive number")
}

// Email fails when the value does not parse as an RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return v.check(err != nil, field, "Must be a valid email address")
}

// URL fails unless the value is an absolute http or https URL.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	failed := err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https")
	return v.check(failed, field, "Must be a valid absolute URL")
}

// OneOf fails when the value is not in the allowed set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	return v.check(true, field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
}

// Custom records a failure with a caller-supplied message when failed
// is true. For conditions the fixed rules cannot express.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(failed, field, message)
}

// Err returns the accumulated failures as one VALIDATION_ERROR, or nil
// when every rule passed. Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}
